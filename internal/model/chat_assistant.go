package model

import "time"

// ChatAssistant mirrors a remote chat assistant bound to an instance and
// optionally to one collection.
type ChatAssistant struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	InstanceID       uint       `gorm:"not null;index;uniqueIndex:idx_assistant_remote" json:"instance_id"`
	CollectionID     *uint      `gorm:"index" json:"collection_id"`
	RemoteID         *string    `gorm:"size:64;uniqueIndex:idx_assistant_remote" json:"remote_id"`
	Name             string     `gorm:"size:256;not null" json:"name"`
	Model            string     `gorm:"size:128" json:"model"`
	Temperature      float64    `gorm:"default:0" json:"temperature"`
	TopP             float64    `gorm:"default:0" json:"top_p"`
	PresencePenalty  float64    `gorm:"default:0" json:"presence_penalty"`
	FrequencyPenalty float64    `gorm:"default:0" json:"frequency_penalty"`
	Prompt           string     `gorm:"type:text" json:"prompt"`
	Status           string     `gorm:"size:32" json:"status"`
	LastSyncTime     *time.Time `json:"last_sync_time"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
