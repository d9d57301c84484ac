package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusHappyPath(t *testing.T) {
	path := []DocumentStatus{
		DocumentStatusPending,
		DocumentStatusUploading,
		DocumentStatusUploaded,
		DocumentStatusProcessing,
		DocumentStatusCompleted,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, path[i].CanTransition(path[i+1]),
			"%s -> %s must be legal", path[i], path[i+1])
	}

	// The happy path is reachable only in order: no skipping ahead.
	assert.False(t, DocumentStatusPending.CanTransition(DocumentStatusUploaded))
	assert.False(t, DocumentStatusPending.CanTransition(DocumentStatusCompleted))
	assert.False(t, DocumentStatusUploading.CanTransition(DocumentStatusProcessing))
	assert.False(t, DocumentStatusUploaded.CanTransition(DocumentStatusCompleted))
}

func TestDocumentStatusStopAndRetry(t *testing.T) {
	assert.True(t, DocumentStatusProcessing.CanTransition(DocumentStatusPending), "stop parse")
	assert.True(t, DocumentStatusSyncFailed.CanTransition(DocumentStatusUploading), "retry upload")
	assert.True(t, DocumentStatusFailed.CanTransition(DocumentStatusUploading), "retry after parse failure")
}

func TestDocumentStatusDeleted(t *testing.T) {
	all := []DocumentStatus{
		DocumentStatusPending, DocumentStatusUploading, DocumentStatusUploaded,
		DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed,
		DocumentStatusSyncFailed,
	}
	for _, s := range all {
		assert.True(t, s.CanTransition(DocumentStatusDeleted), "delete from %s", s)
	}
	for _, s := range all {
		assert.False(t, DocumentStatusDeleted.CanTransition(s), "no way out of DELETED")
	}
}

func TestDocumentStatusRetryEligible(t *testing.T) {
	assert.True(t, DocumentStatusSyncFailed.RetryEligible())
	assert.True(t, DocumentStatusFailed.RetryEligible())
	assert.False(t, DocumentStatusPending.RetryEligible())
	assert.False(t, DocumentStatusCompleted.RetryEligible())
	assert.False(t, DocumentStatusProcessing.RetryEligible())
}
