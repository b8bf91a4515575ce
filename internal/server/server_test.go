package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
)

func newTestServer(t *testing.T) *httpServer {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "pong")
	})

	srv, ok := NewServer(mux, config.Server{RequestTimeout: 5 * time.Second}, logger.Nop()).(*httpServer)
	require.True(t, ok)
	return srv
}

func TestServerStartServesAndShutsDown(t *testing.T) {
	srv := newTestServer(t)

	require.NoError(t, srv.Start(0))
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))

	srv.Shutdown(context.Background())
	assert.Empty(t, srv.Addr())

	// New connections are refused once the listener is closed.
	require.Eventually(t, func() bool {
		_, err := http.Get("http://" + addr + "/ping")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestServerStartTwice(t *testing.T) {
	srv := newTestServer(t)

	require.NoError(t, srv.Start(0))
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	assert.ErrorIs(t, srv.Start(0), errAlreadyRunning)
}

func TestServerRestartAfterShutdown(t *testing.T) {
	srv := newTestServer(t)

	require.NoError(t, srv.Start(0))
	srv.Shutdown(context.Background())

	// A new pairing session reuses the same endpoint instance.
	require.Eventually(t, func() bool {
		return srv.Start(0) == nil
	}, time.Second, 10*time.Millisecond)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerShutdownIdempotent(t *testing.T) {
	srv := newTestServer(t)

	srv.Shutdown(context.Background())

	require.NoError(t, srv.Start(0))
	srv.Shutdown(context.Background())
	srv.Shutdown(context.Background())
}
