package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Create(c *model.Chunk) error {
	if err := r.db.Create(c).Error; err != nil {
		return fmt.Errorf("create chunk failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) Save(c *model.Chunk) error {
	if err := r.db.Save(c).Error; err != nil {
		return fmt.Errorf("save chunk failed: %w", err)
	}
	return nil
}

func (r *ChunkRepository) GetByRemoteID(documentID uint, remoteID string) (*model.Chunk, error) {
	var c model.Chunk
	err := r.db.Where("document_id = ? AND remote_id = ?", documentID, remoteID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chunk by remote id failed: %w", err)
	}
	return &c, nil
}

func (r *ChunkRepository) ListByDocumentID(documentID uint) ([]model.Chunk, error) {
	var list []model.Chunk
	if err := r.db.Where("document_id = ?", documentID).Order("position ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return list, nil
}

func (r *ChunkRepository) CountByDocumentID(documentID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&model.Chunk{}).Where("document_id = ?", documentID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunks failed: %w", err)
	}
	return n, nil
}

func (r *ChunkRepository) DeleteByDocumentID(documentID uint) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.Chunk{}).Error; err != nil {
		return fmt.Errorf("delete chunks by document failed: %w", err)
	}
	return nil
}
