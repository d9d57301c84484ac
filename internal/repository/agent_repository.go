package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) Create(a *model.Agent) error {
	if err := r.db.Create(a).Error; err != nil {
		return fmt.Errorf("create agent failed: %w", err)
	}
	return nil
}

func (r *AgentRepository) Save(a *model.Agent) error {
	if err := r.db.Save(a).Error; err != nil {
		return fmt.Errorf("save agent failed: %w", err)
	}
	return nil
}

func (r *AgentRepository) GetByID(id uint) (*model.Agent, error) {
	var a model.Agent
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent failed: %w", err)
	}
	return &a, nil
}

func (r *AgentRepository) GetByRemoteID(instanceID uint, remoteID string) (*model.Agent, error) {
	var a model.Agent
	err := r.db.Where("instance_id = ? AND remote_id = ?", instanceID, remoteID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by remote id failed: %w", err)
	}
	return &a, nil
}

func (r *AgentRepository) GetByName(instanceID uint, name string) (*model.Agent, error) {
	var a model.Agent
	err := r.db.Where("instance_id = ? AND name = ?", instanceID, name).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent by name failed: %w", err)
	}
	return &a, nil
}

func (r *AgentRepository) ListByInstanceID(instanceID uint) ([]model.Agent, error) {
	var list []model.Agent
	if err := r.db.Where("instance_id = ?", instanceID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list agents failed: %w", err)
	}
	return list, nil
}
