package repository

import (
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type SyncEventRepository struct {
	db *gorm.DB
}

func NewSyncEventRepository(db *gorm.DB) *SyncEventRepository {
	return &SyncEventRepository{db: db}
}

func (r *SyncEventRepository) Create(e *model.SyncEvent) error {
	if err := r.db.Create(e).Error; err != nil {
		return fmt.Errorf("create sync event failed: %w", err)
	}
	return nil
}

func (r *SyncEventRepository) ListRecent(limit int) ([]model.SyncEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []model.SyncEvent
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list sync events failed: %w", err)
	}
	return list, nil
}
