package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(d *model.Document) error {
	if err := r.db.Create(d).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Save(d *model.Document) error {
	if err := r.db.Save(d).Error; err != nil {
		return fmt.Errorf("save document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var d model.Document
	if err := r.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) GetByRemoteID(collectionID uint, remoteID string) (*model.Document, error) {
	var d model.Document
	err := r.db.Where("collection_id = ? AND remote_id = ?", collectionID, remoteID).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by remote id failed: %w", err)
	}
	return &d, nil
}

// GetByName is the natural-key fallback within one collection.
func (r *DocumentRepository) GetByName(collectionID uint, name string) (*model.Document, error) {
	var d model.Document
	err := r.db.Where("collection_id = ? AND name = ?", collectionID, name).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by name failed: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) ListByCollectionID(collectionID uint) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("collection_id = ?", collectionID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

// ListByStatus returns the collection's documents in any of the given states.
func (r *DocumentRepository) ListByStatus(collectionID uint, statuses ...model.DocumentStatus) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("collection_id = ? AND status IN ?", collectionID, statuses).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents by status failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
