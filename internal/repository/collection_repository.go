package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Create(c *model.Collection) error {
	if err := r.db.Create(c).Error; err != nil {
		return fmt.Errorf("create collection failed: %w", err)
	}
	return nil
}

func (r *CollectionRepository) Save(c *model.Collection) error {
	if err := r.db.Save(c).Error; err != nil {
		return fmt.Errorf("save collection failed: %w", err)
	}
	return nil
}

func (r *CollectionRepository) GetByID(id uint) (*model.Collection, error) {
	var c model.Collection
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection failed: %w", err)
	}
	return &c, nil
}

// GetByRemoteID finds the collection carrying this remote identity within
// one instance.
func (r *CollectionRepository) GetByRemoteID(instanceID uint, remoteID string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.Where("instance_id = ? AND remote_id = ?", instanceID, remoteID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection by remote id failed: %w", err)
	}
	return &c, nil
}

// GetByName is the natural-key fallback used when a collection was created
// locally before ever syncing.
func (r *CollectionRepository) GetByName(instanceID uint, name string) (*model.Collection, error) {
	var c model.Collection
	err := r.db.Where("instance_id = ? AND name = ?", instanceID, name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection by name failed: %w", err)
	}
	return &c, nil
}

func (r *CollectionRepository) ListByInstanceID(instanceID uint) ([]model.Collection, error) {
	var list []model.Collection
	if err := r.db.Where("instance_id = ?", instanceID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list collections failed: %w", err)
	}
	return list, nil
}

func (r *CollectionRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Collection{}, id).Error; err != nil {
		return fmt.Errorf("delete collection failed: %w", err)
	}
	return nil
}
