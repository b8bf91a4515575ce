package service

import (
	"context"
	"time"

	"github.com/MKhiriev/orbit-sync/models"
)

// Endpoint is the network listener a pairing session exposes while it is
// alive. Implemented by internal/server; nil is allowed for tests and for
// hosts that mount the sync routes on an existing server.
type Endpoint interface {
	// Start begins listening on the given port. Non-blocking.
	Start(port int) error

	// Shutdown gracefully stops the listener. Idempotent.
	Shutdown(ctx context.Context)
}

// SessionService owns the lifecycle of the single pairing session:
// PIN generation, token issuance, countdown, and teardown.
//
// State machine: Idle → Listening (Start) → Paired (Authenticate) → Closed
// (Stop, expiry, or completed ingest). Every transition happens under one
// internal lock, so expiry can never fire mid-authentication and leave a
// token issued against a dead session.
type SessionService interface {
	// Start opens a new pairing session and its listening endpoint.
	// Fails with ErrSessionAlreadyActive while a non-expired session exists.
	Start(ctx context.Context, port int) (models.StartServerResult, error)

	// Authenticate exchanges the on-screen PIN for the session token and
	// moves the session to Paired. Fails with ErrInvalidPin,
	// ErrSessionExpired, or ErrAlreadyPaired.
	Authenticate(ctx context.Context, pin, deviceName string) (models.PairResponse, error)

	// ValidateToken checks a bearer token against the active session and
	// returns the paired device's name. Fails with ErrUnauthorized or
	// ErrSessionExpired.
	ValidateToken(tokenString string) (string, error)

	// BeginIngest reserves the session's single payload submission for the
	// holder of the token. Fails with ErrUnauthorized, ErrSessionExpired,
	// or ErrAlreadyIngested.
	BeginIngest(tokenString string) (string, error)

	// FinishIngest completes a reservation made by BeginIngest. On success
	// the pairing cycle is done: the session closes and the endpoint shuts
	// down. On failure the reservation is released so the device may retry.
	FinishIngest(ctx context.Context, success bool)

	// RemainingTime reports how long the active session stays valid;
	// monotonically non-increasing, 0 once expired or when no session
	// exists.
	RemainingTime() time.Duration

	// ExpireIfDue tears the session down if its countdown has elapsed.
	// Called by the expiry worker; reports whether a teardown happened.
	ExpireIfDue(ctx context.Context) bool

	// Stop closes the session and endpoint early. Idempotent.
	Stop(ctx context.Context) error

	// Current returns a copy of the session, if any.
	Current() (models.SyncSession, bool)

	// Port returns the port of the most recently started session.
	Port() int

	// AttachEndpoint late-binds the network listener. The server needs the
	// services to build its handlers, so it cannot exist yet when the
	// services are constructed. Must be called before Start.
	AttachEndpoint(endpoint Endpoint)
}

// ConflictDetector classifies one incoming transaction against a ledger
// snapshot. A nil result means the transaction is clean and eligible for
// immediate merge.
type ConflictDetector interface {
	Classify(transaction *models.Transaction, snapshot *models.LedgerSnapshot) *models.SyncConflict
}

// IngestService authenticates an uploaded payload and either merges it
// immediately or parks it for operator approval.
type IngestService interface {
	Ingest(ctx context.Context, tokenString string, payload models.SyncDataPayload) (models.SyncDataResponse, error)
}

// PendingQueue stores batches awaiting human approval, keyed by sync id.
// In-memory only; an interrupted approval is lost on restart and the remote
// device must resync.
type PendingQueue interface {
	Add(pending models.PendingSyncData)
	List() []models.PendingSyncData
	Get(id string) (models.PendingSyncData, bool)
	Remove(id string) bool
	Len() int
}

// ApprovalService applies the operator's decision to one pending sync and
// performs the final atomic merge.
type ApprovalService interface {
	Resolve(ctx context.Context, syncID string, approved bool, resolutions map[string]models.ConflictResolution) (models.MergeResult, error)
}

// ControlService is the host-side control surface called by the local
// UI/CLI, never over the network.
type ControlService interface {
	StartServer(ctx context.Context, port int) (models.StartServerResult, error)
	StopServer(ctx context.Context) error
	Status() models.SyncStatus
	RemainingTime() time.Duration
	ListPending() []models.PendingSyncData
	Approve(ctx context.Context, syncID string, approved bool, resolutions map[string]models.ConflictResolution) (models.MergeResult, error)
}
