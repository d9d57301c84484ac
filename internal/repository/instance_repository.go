package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type InstanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

func (r *InstanceRepository) Create(inst *model.Instance) error {
	if err := r.db.Create(inst).Error; err != nil {
		return fmt.Errorf("create instance failed: %w", err)
	}
	return nil
}

func (r *InstanceRepository) Save(inst *model.Instance) error {
	if err := r.db.Save(inst).Error; err != nil {
		return fmt.Errorf("save instance failed: %w", err)
	}
	return nil
}

func (r *InstanceRepository) GetByID(id uint) (*model.Instance, error) {
	var inst model.Instance
	if err := r.db.First(&inst, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get instance failed: %w", err)
	}
	return &inst, nil
}

func (r *InstanceRepository) List() ([]model.Instance, error) {
	var list []model.Instance
	if err := r.db.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list instances failed: %w", err)
	}
	return list, nil
}

func (r *InstanceRepository) SetHealthy(id uint, healthy bool) error {
	if err := r.db.Model(&model.Instance{}).Where("id = ?", id).Update("healthy", healthy).Error; err != nil {
		return fmt.Errorf("update instance health failed: %w", err)
	}
	return nil
}
