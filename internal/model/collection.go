package model

import "time"

// Collection mirrors a remote dataset. RemoteID is nil until the first
// successful outbound create or inbound sync; the unique index on
// (instance_id, remote_id) backs the upsert-by-remote-identity guarantee.
type Collection struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	InstanceID          uint       `gorm:"not null;index;uniqueIndex:idx_collection_remote" json:"instance_id"`
	RemoteID            *string    `gorm:"size:64;uniqueIndex:idx_collection_remote" json:"remote_id"`
	Name                string     `gorm:"size:256;not null" json:"name"`
	Description         string     `gorm:"type:text" json:"description"`
	ChunkMethod         string     `gorm:"size:64" json:"chunk_method"`
	ChunkSize           int        `gorm:"default:0" json:"chunk_size"`
	Language            string     `gorm:"size:32" json:"language"`
	EmbeddingModel      string     `gorm:"size:128" json:"embedding_model"`
	SimilarityThreshold float64    `gorm:"default:0" json:"similarity_threshold"`
	Status              string     `gorm:"size:32" json:"status"`
	LastSyncTime        *time.Time `json:"last_sync_time"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
