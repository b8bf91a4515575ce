// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

type sessionService struct {
	mu       sync.Mutex
	session  *models.SyncSession
	endpoint Endpoint
	port     int

	duration time.Duration
	signKey  string
	issuer   string

	uuid *utils.UUIDGenerator
	log  *logger.Logger

	now func() time.Time
}

// NewSessionService creates the session manager. The endpoint is attached
// later via AttachEndpoint; a nil endpoint means Start only arms the session
// and the caller is responsible for exposing the routes.
func NewSessionService(cfg config.StructuredConfig, log *logger.Logger) SessionService {
	return &sessionService{
		duration: cfg.Sync.SessionDuration,
		signKey:  cfg.App.TokenSignKey,
		issuer:   cfg.App.TokenIssuer,
		uuid:     utils.NewUUIDGenerator(),
		log:      log.GetChildLogger("service", "session"),
		now:      time.Now,
	}
}

func (s *sessionService) AttachEndpoint(endpoint Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoint = endpoint
}

func (s *sessionService) Start(ctx context.Context, port int) (models.StartServerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.session != nil && s.session.IsActive {
		if !s.session.ExpiredAt(now) {
			return models.StartServerResult{}, ErrSessionAlreadyActive
		}
		// Stale session whose expiry the worker has not collected yet.
		s.closeLocked(ctx)
	}

	pin := generatePin()
	session := &models.SyncSession{
		Pin:       pin,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(s.duration).UnixMilli(),
		IsActive:  true,
		State:     models.SessionListening,
	}

	if s.endpoint != nil {
		if err := s.endpoint.Start(port); err != nil {
			return models.StartServerResult{}, fmt.Errorf("starting sync endpoint: %w", err)
		}
	}

	s.session = session
	s.port = port

	ip := utils.GetLocalIP()
	result := models.StartServerResult{
		Pin:       pin,
		URL:       fmt.Sprintf("http://%s:%d", ip, port),
		ExpiresIn: int64(s.duration.Seconds()),
	}

	s.log.Info().Int("port", port).Str("url", result.URL).Msg("pairing session started")
	return result, nil
}

func (s *sessionService) Authenticate(ctx context.Context, pin, deviceName string) (models.PairResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	switch {
	case s.session == nil || !s.session.IsActive:
		return models.PairResponse{}, ErrNoActiveSession
	case s.session.ExpiredAt(now):
		s.closeLocked(context.Background())
		return models.PairResponse{}, ErrSessionExpired
	case s.session.State == models.SessionPaired:
		return models.PairResponse{}, ErrAlreadyPaired
	case s.session.Pin != pin:
		s.log.Warn().Str("device", deviceName).Msg("pairing attempt with wrong pin")
		return models.PairResponse{}, ErrInvalidPin
	}

	sessionID := s.uuid.Generate()
	expiresAt := time.UnixMilli(s.session.ExpiresAt)
	token, err := utils.GenerateSessionToken(s.issuer, sessionID, deviceName, expiresAt, s.signKey)
	if err != nil {
		return models.PairResponse{}, fmt.Errorf("issuing session token: %w", err)
	}

	s.session.Token = token
	s.session.DeviceName = deviceName
	s.session.State = models.SessionPaired

	s.log.Info().Str("device", deviceName).Msg("device paired")
	return models.PairResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int64(s.session.RemainingAt(now).Seconds()),
		Message:   "paired successfully",
	}, nil
}

func (s *sessionService) ValidateToken(tokenString string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked(tokenString)
}

// validateLocked checks the bearer token against the active session.
// Caller holds s.mu.
func (s *sessionService) validateLocked(tokenString string) (string, error) {
	if s.session == nil || !s.session.IsActive || s.session.State != models.SessionPaired {
		return "", ErrUnauthorized
	}
	if s.session.ExpiredAt(s.now()) {
		return "", ErrSessionExpired
	}
	if tokenString == "" || tokenString != s.session.Token {
		return "", ErrUnauthorized
	}
	claims, err := utils.ValidateSessionToken(tokenString, s.signKey, s.issuer)
	if err != nil {
		return "", errors.Join(ErrUnauthorized, err)
	}
	return claims.Subject, nil
}

func (s *sessionService) BeginIngest(tokenString string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceName, err := s.validateLocked(tokenString)
	if err != nil {
		return "", err
	}
	if s.session.IngestDone {
		return "", ErrAlreadyIngested
	}

	// Reserve the session's single submission slot; a concurrent second
	// upload sees ErrAlreadyIngested even before the first one finishes.
	s.session.IngestDone = true
	return deviceName, nil
}

func (s *sessionService) FinishIngest(ctx context.Context, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}
	if !success {
		s.session.IngestDone = false
		return
	}

	s.log.Info().Str("device", s.session.DeviceName).Msg("sync payload accepted, closing session")
	s.closeLocked(ctx)
}

func (s *sessionService) RemainingTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || !s.session.IsActive {
		return 0
	}
	return s.session.RemainingAt(s.now())
}

func (s *sessionService) ExpireIfDue(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || !s.session.IsActive || !s.session.ExpiredAt(s.now()) {
		return false
	}

	s.log.Info().Msg("pairing session expired")
	s.closeLocked(ctx)
	return true
}

func (s *sessionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stopping an already-stopped host is a no-op, not an error.
	if s.session == nil || !s.session.IsActive {
		return nil
	}
	s.closeLocked(ctx)
	return nil
}

// closeLocked deactivates the session and shuts the endpoint down.
// Caller holds s.mu.
func (s *sessionService) closeLocked(ctx context.Context) {
	s.session.IsActive = false
	s.session.State = models.SessionClosed
	if s.endpoint != nil {
		s.endpoint.Shutdown(ctx)
	}
}

func (s *sessionService) Current() (models.SyncSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return models.SyncSession{}, false
	}
	return *s.session, true
}

func (s *sessionService) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// generatePin returns a 6-digit pairing code, zero-padded.
func generatePin() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}
