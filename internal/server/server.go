package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
)

// drainTimeout bounds how long a stopped endpoint waits for in-flight
// requests before closing their connections.
const drainTimeout = 5 * time.Second

type httpServer struct {
	handler http.Handler
	timeout time.Duration
	logger  *logger.Logger

	mu   sync.Mutex
	srv  *http.Server
	addr string
}

// NewServer wraps the given handler in a restartable pairing endpoint.
func NewServer(handler http.Handler, cfg config.Server, logger *logger.Logger) Server {
	return &httpServer{
		handler: handler,
		timeout: cfg.RequestTimeout,
		logger:  logger.GetChildLogger("component", "server"),
	}
}

func (s *httpServer) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return errAlreadyRunning
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("binding sync endpoint to port %d: %w", port, err)
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}
	s.srv = srv
	s.addr = listener.Addr().String()

	s.logger.Info().Str("addr", s.addr).Msg("sync endpoint listening")
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("sync endpoint stopped unexpectedly")
		}
	}()

	return nil
}

// Shutdown closes the listener right away and drains connections in the
// background. It must not block: the session manager calls it while holding
// its own lock, sometimes from inside a request that is still being served.
func (s *httpServer) Shutdown(ctx context.Context) {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return
	}

	go func() {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
		defer cancel()

		if err := srv.Shutdown(drainCtx); err != nil {
			s.logger.Warn().Err(err).Msg("sync endpoint drain incomplete")
		}
		s.logger.Info().Msg("sync endpoint stopped")
	}()
}

// Addr returns the bound address of the running listener, empty when the
// endpoint is stopped. Handy with port 0 in tests.
func (s *httpServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return ""
	}
	return s.addr
}
