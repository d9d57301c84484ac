package model

import "time"

// Chunk is a content fragment of one document, created and updated only by
// chunk reconciliation.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index;uniqueIndex:idx_chunk_remote" json:"document_id"`
	RemoteID   string    `gorm:"size:64;not null;uniqueIndex:idx_chunk_remote" json:"remote_id"`
	Content    string    `gorm:"type:text" json:"content"`
	Size       int       `gorm:"default:0" json:"size"`
	Position   int       `gorm:"default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
