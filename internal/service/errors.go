package service

import "errors"

// Authentication and session lifecycle errors. Terminal for the current
// pairing attempt: the remote device has to restart the pairing flow.
var (
	ErrSessionAlreadyActive = errors.New("a pairing session is already active")
	ErrNoActiveSession      = errors.New("no active pairing session")
	ErrInvalidPin           = errors.New("invalid PIN")
	ErrSessionExpired       = errors.New("pairing session expired")
	ErrAlreadyPaired        = errors.New("session is already paired with a device")
	ErrUnauthorized         = errors.New("invalid or unknown sync token")
)

// Ingest errors.
var (
	// ErrAlreadyIngested is returned when a paired device submits a second
	// payload within the same session. A session accepts exactly one
	// submission.
	ErrAlreadyIngested = errors.New("session has already accepted a payload")

	// ErrInvalidPayload is returned when the payload fails validation
	// before any classification runs (no transactions, missing ids or
	// account references).
	ErrInvalidPayload = errors.New("invalid sync payload")
)

// Approval errors. The pending sync stays queued and the call is retriable.
var (
	ErrSyncNotFound         = errors.New("pending sync was not found")
	ErrIncompleteResolution = errors.New("resolutions do not cover every conflict")
	ErrInvalidResolution    = errors.New("invalid conflict resolution")
)
