package models

import "time"

// SessionState is the lifecycle phase of a pairing session.
//
// Transitions: Idle → Listening (Start) → Paired (Authenticate) → Closed
// (Stop, expiry, or completed ingest). Listening also closes directly on
// Stop or expiry. Nothing leaves Closed; a fresh Start creates a brand-new
// session.
type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionListening SessionState = "listening"
	SessionPaired    SessionState = "paired"
	SessionClosed    SessionState = "closed"
)

// SyncSession is one time-boxed pairing window. At most one session exists
// at a time; the PIN shown on the host screen is only valid for this session
// and the token is only issued once, to the first device that authenticates.
type SyncSession struct {
	Pin        string       `json:"pin"`
	Token      string       `json:"token,omitempty"`
	CreatedAt  int64        `json:"createdAt"`
	ExpiresAt  int64        `json:"expiresAt"`
	IsActive   bool         `json:"isActive"`
	DeviceName string       `json:"deviceName,omitempty"`
	State      SessionState `json:"state"`

	// IngestDone marks that this session has already accepted its single
	// payload submission.
	IngestDone bool `json:"-"`
}

// ExpiredAt reports whether the session is past its expiry at the given time.
func (s *SyncSession) ExpiredAt(now time.Time) bool {
	return now.UnixMilli() >= s.ExpiresAt
}

// RemainingAt returns how long the session stays valid from the given time,
// never negative.
func (s *SyncSession) RemainingAt(now time.Time) time.Duration {
	remaining := time.UnixMilli(s.ExpiresAt).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
