package model

import "time"

// ChatMessage records one turn of an assistant conversation. Persisted
// asynchronously through the message queue so chat latency is not bound to
// the local store.
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssistantID uint      `gorm:"not null;index" json:"assistant_id"`
	SessionID   string    `gorm:"size:64;index" json:"session_id"`
	Role        string    `gorm:"size:16;not null" json:"role"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
