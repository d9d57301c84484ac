package repository

import (
	"fmt"

	"gorm.io/gorm"

	"kbbridge/internal/model"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(m *model.ChatMessage) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("create chat message failed: %w", err)
	}
	return nil
}

func (r *ChatMessageRepository) ListBySessionID(assistantID uint, sessionID string) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.db.Where("assistant_id = ? AND session_id = ?", assistantID, sessionID).
		Order("created_at ASC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list chat messages failed: %w", err)
	}
	return list, nil
}
