package server

import "context"

// Server is the lifecycle contract of the pairing endpoint.
//
// Implementations must be restartable: after Shutdown a new Start opens a
// fresh listener, because every pairing session gets its own serving window.
type Server interface {
	// Start begins serving on the given TCP port and returns once the
	// listener is bound, or with the bind error. Serving continues in the
	// background.
	Start(port int) error

	// Shutdown stops accepting new connections immediately and drains
	// in-flight requests in the background. Idempotent, non-blocking.
	Shutdown(ctx context.Context)
}
