package model

import "time"

// Sync event outcomes.
const (
	SyncOutcomeOK     = "ok"
	SyncOutcomeFailed = "failed"
)

// SyncEvent is an audit record of one sync or lifecycle action. Events are
// published to the broker best-effort and persisted by the audit worker.
type SyncEvent struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Kind       string    `gorm:"size:64;not null;index" json:"kind"`
	EntityKind string    `gorm:"size:32;not null" json:"entity_kind"`
	EntityID   uint      `gorm:"index" json:"entity_id"`
	RemoteID   string    `gorm:"size:128" json:"remote_id"`
	Outcome    string    `gorm:"size:16;not null" json:"outcome"`
	Message    string    `gorm:"size:1024" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
