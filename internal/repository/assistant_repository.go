package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type AssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) Create(a *model.ChatAssistant) error {
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("create assistant failed: %w", err)
	}
	return nil
}

func (r *AssistantRepository) Save(a *model.ChatAssistant) error {
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("save assistant failed: %w", err)
	}
	return nil
}

func (r *AssistantRepository) GetByID(id uint) (*model.ChatAssistant, error) {
	var a model.ChatAssistant
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assistant failed: %w", err)
	}
	return &a, nil
}

func (r *AssistantRepository) GetByRemoteID(instanceID uint, remoteID string) (*model.ChatAssistant, error) {
	var a model.ChatAssistant
	err := r.db.Where("instance_id = ? AND remote_id = ?", instanceID, remoteID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assistant by remote id failed: %w", err)
	}
	return &a, nil
}

func (r *AssistantRepository) GetByName(instanceID uint, name string) (*model.ChatAssistant, error) {
	var a model.ChatAssistant
	err := r.db.Where("instance_id = ? AND name = ?", instanceID, name).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assistant by name failed: %w", err)
	}
	return &a, nil
}

func (r *AssistantRepository) ListByInstanceID(instanceID uint) ([]model.ChatAssistant, error) {
	var list []model.ChatAssistant
	if err := r.db.Where("instance_id = ?", instanceID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list assistants failed: %w", err)
	}
	return list, nil
}

func (r *AssistantRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ChatAssistant{}, id).Error; err != nil {
		return fmt.Errorf("delete assistant failed: %w", err)
	}
	return nil
}
