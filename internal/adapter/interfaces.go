// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the remote-device side of the pairing protocol:
// an HTTP client that discovers a sync host, exchanges the on-screen PIN for
// a session token, and pushes one transaction batch.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/orbit-sync/models"
)

// SyncHostAdapter defines communication with a pairing host from the remote
// device's point of view. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type SyncHostAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Called automatically after a successful Pair.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no pairing has happened yet.
	Token() string

	// Ping probes the host's discovery endpoint. Used to verify an address
	// before showing the PIN prompt to the user.
	Ping(ctx context.Context) (models.PingResponse, error)

	// Pair exchanges the PIN shown on the host's screen for this session's
	// bearer token. On success the token is stored via SetToken.
	Pair(ctx context.Context, pin, deviceName string) (models.PairResponse, error)

	// PushSync uploads the device's transaction batch. Requires a prior
	// successful Pair. The response reports either an immediate merge or
	// the conflicts awaiting operator approval on the host.
	PushSync(ctx context.Context, payload models.SyncDataPayload) (models.SyncDataResponse, error)
}
