package model

import "time"

// LLMModel is a catalog entry for a model exposed by a remote instance.
type LLMModel struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	InstanceID   uint       `gorm:"not null;index;uniqueIndex:idx_model_remote" json:"instance_id"`
	RemoteID     *string    `gorm:"size:128;uniqueIndex:idx_model_remote" json:"remote_id"`
	Name         string     `gorm:"size:128;not null" json:"name"`
	Kind         string     `gorm:"size:32" json:"kind"` // chat, embedding, rerank
	Available    bool       `gorm:"default:true" json:"available"`
	LastSyncTime *time.Time `json:"last_sync_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
