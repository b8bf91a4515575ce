// Package utils provides general-purpose helpers used across the
// application: type-safe context keys, JSON response writing, pairing-token
// generation and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys. A dedicated type instead of
// a plain string prevents collisions with other packages' context values.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// DeviceNameCtxKey is the key under which the auth middleware stores the
// paired device's name after validating the bearer token.
var DeviceNameCtxKey = contextKey("deviceName")

// GetDeviceNameFromContext retrieves the paired device name from the context.
//
// The ok flag is false when the value is missing or has an unexpected type.
func GetDeviceNameFromContext(ctx context.Context) (string, bool) {
	deviceName, ok := ctx.Value(DeviceNameCtxKey).(string)
	return deviceName, ok
}

// SyncTokenCtxKey is the key under which the auth middleware stores the raw
// bearer token, so the ingest path can tie the submission to its session
// without re-parsing the Authorization header.
var SyncTokenCtxKey = contextKey("syncToken")

// GetSyncTokenFromContext retrieves the validated bearer token from the
// context.
func GetSyncTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SyncTokenCtxKey).(string)
	return token, ok
}
