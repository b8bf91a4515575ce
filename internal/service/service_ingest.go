// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/store"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/internal/validators"
	"github.com/MKhiriev/orbit-sync/models"
)

type ingestService struct {
	sessions  SessionService
	detector  ConflictDetector
	queue     PendingQueue
	ledger    store.Ledger
	validator validators.Validator

	uuid *utils.UUIDGenerator
	log  *logger.Logger

	now func() time.Time
}

// NewIngestService wires the upload path: validate, authenticate, snapshot,
// classify, then either merge the whole batch or park it for approval.
func NewIngestService(sessions SessionService, detector ConflictDetector, queue PendingQueue, ledger store.Ledger, log *logger.Logger) IngestService {
	return &ingestService{
		sessions:  sessions,
		detector:  detector,
		queue:     queue,
		ledger:    ledger,
		validator: validators.NewSyncPayloadValidator(),
		uuid:      utils.NewUUIDGenerator(),
		log:       log.GetChildLogger("service", "ingest"),
		now:       time.Now,
	}
}

// Ingest handles the one payload a paired device is allowed to submit.
// The batch is atomic both ways: a clean batch merges entirely or not at
// all, and a batch with any conflict is parked entirely, clean rows
// included, so the operator rules on it with full context.
func (s *ingestService) Ingest(ctx context.Context, tokenString string, payload models.SyncDataPayload) (models.SyncDataResponse, error) {
	if err := s.validator.Validate(ctx, payload); err != nil {
		return models.SyncDataResponse{}, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	deviceName, err := s.sessions.BeginIngest(tokenString)
	if err != nil {
		return models.SyncDataResponse{}, err
	}
	if payload.DeviceName != "" {
		deviceName = payload.DeviceName
	}

	snapshot, err := s.ledger.Snapshot(ctx)
	if err != nil {
		s.sessions.FinishIngest(ctx, false)
		return models.SyncDataResponse{}, fmt.Errorf("reading ledger snapshot: %w", err)
	}

	conflicts := s.classify(payload.Transactions, &snapshot)
	if len(conflicts) > 0 {
		pending := models.PendingSyncData{
			ID:         s.uuid.Generate(),
			Payload:    payload,
			Conflicts:  conflicts,
			ReceivedAt: s.now().UnixMilli(),
			DeviceName: deviceName,
		}
		s.queue.Add(pending)
		s.sessions.FinishIngest(ctx, true)

		s.log.Info().
			Str("syncId", pending.ID).
			Str("device", deviceName).
			Int("transactions", len(payload.Transactions)).
			Int("conflicts", len(conflicts)).
			Msg("sync parked for approval")

		return models.SyncDataResponse{
			Success:         true,
			PendingApproval: true,
			Conflicts:       conflicts,
			Message:         fmt.Sprintf("%d conflict(s) detected, awaiting approval", len(conflicts)),
		}, nil
	}

	plan := models.MergePlan{Transactions: payload.Transactions}
	if err := s.ledger.ApplyMerge(ctx, plan); err != nil {
		s.sessions.FinishIngest(ctx, false)
		return models.SyncDataResponse{}, fmt.Errorf("merging sync batch: %w", err)
	}
	s.sessions.FinishIngest(ctx, true)

	s.log.Info().
		Str("device", deviceName).
		Int("transactions", len(payload.Transactions)).
		Msg("sync merged")

	return models.SyncDataResponse{
		Success: true,
		Message: fmt.Sprintf("Synced %d transaction(s)", len(payload.Transactions)),
	}, nil
}

func (s *ingestService) classify(transactions []models.Transaction, snapshot *models.LedgerSnapshot) []models.SyncConflict {
	var conflicts []models.SyncConflict
	for i := range transactions {
		if conflict := s.detector.Classify(&transactions[i], snapshot); conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}
	return conflicts
}
