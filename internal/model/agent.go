package model

import "time"

// Agent mirrors a remote agent configuration. An empty RemoteID means the
// agent has never been created remotely, which selects the create path over
// the update path during batch synchronization.
type Agent struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	InstanceID   uint       `gorm:"not null;index;uniqueIndex:idx_agent_remote" json:"instance_id"`
	RemoteID     *string    `gorm:"size:64;uniqueIndex:idx_agent_remote" json:"remote_id"`
	Name         string     `gorm:"size:256;not null" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	DSL          string     `gorm:"type:text" json:"dsl"`
	Status       string     `gorm:"size:32" json:"status"`
	LastSyncTime *time.Time `json:"last_sync_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
