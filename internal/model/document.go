package model

import "time"

// DocumentStatus enumerates the document lifecycle states. Transitions are
// validated through CanTransition so that the table lives in one place
// instead of string comparisons scattered across services.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "PENDING"
	DocumentStatusUploading  DocumentStatus = "UPLOADING"
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusCompleted  DocumentStatus = "COMPLETED"
	DocumentStatusFailed     DocumentStatus = "FAILED"
	DocumentStatusSyncFailed DocumentStatus = "SYNC_FAILED"
	DocumentStatusDeleted    DocumentStatus = "DELETED"
)

// transitions maps each state to the states reachable from it. Deletion is
// allowed from every state and handled separately in CanTransition.
var transitions = map[DocumentStatus][]DocumentStatus{
	DocumentStatusPending:    {DocumentStatusUploading, DocumentStatusProcessing},
	DocumentStatusUploading:  {DocumentStatusUploaded, DocumentStatusSyncFailed},
	DocumentStatusUploaded:   {DocumentStatusProcessing},
	DocumentStatusProcessing: {DocumentStatusPending, DocumentStatusCompleted, DocumentStatusFailed},
	DocumentStatusFailed:     {DocumentStatusUploading, DocumentStatusProcessing},
	DocumentStatusSyncFailed: {DocumentStatusUploading},
	DocumentStatusCompleted:  {DocumentStatusProcessing},
}

// CanTransition reports whether moving from s to next is a legal step.
// DELETED is reachable from anywhere and has no outgoing transitions.
func (s DocumentStatus) CanTransition(next DocumentStatus) bool {
	if s == DocumentStatusDeleted {
		return false
	}
	if next == DocumentStatusDeleted {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RetryEligible reports whether a document in this state may be retried.
// Callers must additionally verify the local file still exists.
func (s DocumentStatus) RetryEligible() bool {
	return s == DocumentStatusSyncFailed || s == DocumentStatusFailed
}

// Terminal reports whether no further automatic transitions are expected.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusDeleted
}

// Document belongs to one collection. A document created by a local upload
// starts with no RemoteID; one ingested from a remote listing already
// carries it. ChunkCount is written only by chunk reconciliation and holds
// the count that was actually stored locally; the chunk-sync short-circuit
// compares it against the remote-reported total.
type Document struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CollectionID uint           `gorm:"not null;index;uniqueIndex:idx_document_remote" json:"collection_id"`
	RemoteID     *string        `gorm:"size:64;uniqueIndex:idx_document_remote" json:"remote_id"`
	Name         string         `gorm:"size:256;not null" json:"name"`
	Filename     string         `gorm:"size:256" json:"filename"`
	Type         string         `gorm:"size:32" json:"type"`
	Size         int64          `gorm:"default:0" json:"size"`
	Status       DocumentStatus `gorm:"size:32;not null;index" json:"status"`
	Progress     *float64       `json:"progress"`
	ProgressMsg  string         `gorm:"size:1024" json:"progress_msg"`
	ChunkCount   int            `gorm:"default:0" json:"chunk_count"`
	LocalPath    string         `gorm:"size:512" json:"local_path"`
	Preview      string         `gorm:"type:text" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
