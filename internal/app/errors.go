package app

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInstanceNotFound   = errors.New("instance not found")
	ErrInstanceDisabled   = errors.New("instance is disabled")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrAssistantNotFound  = errors.New("assistant not found")

	// ErrMissingRemoteID guards operations that need a remote identity,
	// e.g. syncing a document whose owning collection was never created
	// remotely.
	ErrMissingRemoteID = errors.New("entity has no remote id")

	// ErrRetryNotEligible rejects a retry from a non-failure state.
	ErrRetryNotEligible = errors.New("document status is not retry-eligible")

	// ErrLocalFileMissing rejects a retry or upload when the local file
	// reference no longer resolves; no remote call is issued.
	ErrLocalFileMissing = errors.New("local file is missing")

	// ErrInvalidTransition rejects a lifecycle action that the status
	// table does not allow from the current state.
	ErrInvalidTransition = errors.New("status transition not allowed")

	// ErrCooldownActive signals that a listing sync was re-triggered
	// before the cooldown elapsed and force was not set.
	ErrCooldownActive = errors.New("sync cooldown active")
)
