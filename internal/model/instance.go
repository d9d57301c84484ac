package model

import "time"

// Instance is a connection profile for one remote knowledge-service
// deployment. Every synced resource belongs to exactly one instance.
type Instance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	BaseURL        string    `gorm:"size:512;not null" json:"base_url"`
	APIKey         string    `gorm:"size:512;not null" json:"-"`
	TimeoutSeconds int       `gorm:"default:30" json:"timeout_seconds"`
	Enabled        bool      `gorm:"default:true" json:"enabled"`
	Healthy        bool      `gorm:"default:false" json:"healthy"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Timeout returns the per-request timeout, falling back to 30s.
func (i *Instance) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
}
