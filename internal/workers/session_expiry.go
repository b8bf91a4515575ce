// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/service"
)

// DefaultExpiryCheckInterval is how often the expiry worker polls the
// session for a lapsed deadline. One second keeps the teardown close to the
// advertised countdown without measurable load.
const DefaultExpiryCheckInterval = time.Second

// sessionExpiryWorker tears down the pairing session once its countdown
// elapses, so the PIN and the listening endpoint never outlive the window
// shown to the user.
type sessionExpiryWorker struct {
	ctx      context.Context
	sessions service.SessionService
	interval time.Duration
	log      *logger.Logger
}

// NewSessionExpiryWorker creates the expiry watchdog. A non-positive
// interval falls back to DefaultExpiryCheckInterval. The worker stops when
// ctx is cancelled.
func NewSessionExpiryWorker(ctx context.Context, sessions service.SessionService, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = DefaultExpiryCheckInterval
	}

	return &sessionExpiryWorker{
		ctx:      ctx,
		sessions: sessions,
		interval: interval,
		log:      log.GetChildLogger("worker", "session-expiry"),
	}
}

func (w *sessionExpiryWorker) Run() {
	go w.loop()
}

func (w *sessionExpiryWorker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if w.sessions.ExpireIfDue(w.ctx) {
				w.log.Debug().Msg("expired pairing session collected")
			}
		}
	}
}
