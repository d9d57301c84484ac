package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type LLMModelRepository struct {
	db *gorm.DB
}

func NewLLMModelRepository(db *gorm.DB) *LLMModelRepository {
	return &LLMModelRepository{db: db}
}

func (r *LLMModelRepository) Create(m *model.LLMModel) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("create llm model failed: %w", err)
	}
	return nil
}

func (r *LLMModelRepository) Save(m *model.LLMModel) error {
	if err := r.db.Save(m).Error; err != nil {
		return fmt.Errorf("save llm model failed: %w", err)
	}
	return nil
}

func (r *LLMModelRepository) GetByRemoteID(instanceID uint, remoteID string) (*model.LLMModel, error) {
	var m model.LLMModel
	err := r.db.Where("instance_id = ? AND remote_id = ?", instanceID, remoteID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get llm model by remote id failed: %w", err)
	}
	return &m, nil
}

func (r *LLMModelRepository) GetByName(instanceID uint, name string) (*model.LLMModel, error) {
	var m model.LLMModel
	err := r.db.Where("instance_id = ? AND name = ?", instanceID, name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get llm model by name failed: %w", err)
	}
	return &m, nil
}

func (r *LLMModelRepository) ListByInstanceID(instanceID uint) ([]model.LLMModel, error) {
	var list []model.LLMModel
	if err := r.db.Where("instance_id = ?", instanceID).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list llm models failed: %w", err)
	}
	return list, nil
}
