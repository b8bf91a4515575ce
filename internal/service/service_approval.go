// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/store"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

type approvalService struct {
	// mu serializes resolutions: the queue lookup, the merge, and the
	// removal must act as one step so two operators cannot resolve the
	// same pending sync twice.
	mu sync.Mutex

	queue  PendingQueue
	ledger store.Ledger

	uuid *utils.UUIDGenerator
	log  *logger.Logger

	now func() time.Time
}

// NewApprovalService wires the operator's decision path for pending syncs.
func NewApprovalService(queue PendingQueue, ledger store.Ledger, log *logger.Logger) ApprovalService {
	return &approvalService{
		queue:  queue,
		ledger: ledger,
		uuid:   utils.NewUUIDGenerator(),
		log:    log.GetChildLogger("service", "approval"),
		now:    time.Now,
	}
}

// Resolve applies the operator's verdict to one pending sync. Rejection
// discards the batch without touching the ledger. Approval requires a valid
// resolution for every conflicted transaction, then applies the rewritten
// batch as one atomic merge. The batch stays queued if the merge fails, so
// the operator can retry.
func (s *approvalService) Resolve(ctx context.Context, syncID string, approved bool, resolutions map[string]models.ConflictResolution) (models.MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.queue.Get(syncID)
	if !ok {
		return models.MergeResult{}, ErrSyncNotFound
	}

	if !approved {
		s.queue.Remove(syncID)
		s.log.Info().Str("syncId", syncID).Msg("sync rejected")
		return models.MergeResult{
			SyncID:   syncID,
			Approved: false,
			Skipped:  len(pending.Payload.Transactions),
			Message:  "Sync rejected, no changes applied",
		}, nil
	}

	if err := s.checkResolutions(&pending, resolutions); err != nil {
		return models.MergeResult{}, err
	}

	plan, skipped := s.buildPlan(&pending, resolutions)
	if err := s.ledger.ApplyMerge(ctx, plan); err != nil {
		return models.MergeResult{}, fmt.Errorf("applying approved merge: %w", err)
	}
	s.queue.Remove(syncID)

	s.log.Info().
		Str("syncId", syncID).
		Int("merged", len(plan.Transactions)).
		Int("skipped", skipped).
		Int("itemsCreated", len(plan.NewItems)).
		Msg("sync approved and merged")

	return models.MergeResult{
		SyncID:       syncID,
		Approved:     true,
		Merged:       len(plan.Transactions),
		Skipped:      skipped,
		ItemsCreated: len(plan.NewItems),
		Message:      fmt.Sprintf("Merged %d transaction(s), skipped %d", len(plan.Transactions), skipped),
	}, nil
}

// checkResolutions enforces that every conflicted transaction has a decision
// and that each decision's payload is well formed.
func (s *approvalService) checkResolutions(pending *models.PendingSyncData, resolutions map[string]models.ConflictResolution) error {
	for _, id := range pending.ConflictedIDs() {
		resolution, ok := resolutions[id]
		if !ok {
			return fmt.Errorf("%w: transaction %s has no resolution", ErrIncompleteResolution, id)
		}
		if err := resolution.Validate(); err != nil {
			return fmt.Errorf("%w: transaction %s: %s", ErrInvalidResolution, id, err)
		}
	}
	return nil
}

// buildPlan rewrites the payload according to the resolutions. Transactions
// without a resolution were clean at ingest time and pass through unchanged.
func (s *approvalService) buildPlan(pending *models.PendingSyncData, resolutions map[string]models.ConflictResolution) (models.MergePlan, int) {
	var plan models.MergePlan
	skipped := 0

	// New items created during this approval, keyed by normalized name, so
	// two transactions naming the same unknown item share one catalog entry.
	created := make(map[string]string)

	for _, t := range pending.Payload.Transactions {
		resolution, ok := resolutions[t.ID]
		if !ok {
			plan.Transactions = append(plan.Transactions, t)
			continue
		}

		switch resolution.Type {
		case models.ResolutionSkipTransaction:
			skipped++

		case models.ResolutionAdjustAmount:
			t.Amount = *resolution.NewAmount
			plan.Transactions = append(plan.Transactions, t)

		case models.ResolutionMapItem:
			s.rebindItem(&t, pending, resolution.ItemID)
			plan.Transactions = append(plan.Transactions, t)

		case models.ResolutionCreateNewItem:
			name := s.unknownItemName(&t, pending)
			if name != "" {
				key := strings.ToLower(strings.TrimSpace(name))
				id, exists := created[key]
				if !exists {
					now := s.now().UnixMilli()
					id = s.uuid.Generate()
					created[key] = id
					plan.NewItems = append(plan.NewItems, models.Item{
						ID:        id,
						Name:      name,
						CreatedAt: now,
						UpdatedAt: now,
					})
				}
				s.rebindItem(&t, pending, id)
			}
			plan.Transactions = append(plan.Transactions, t)
		}
	}

	return plan, skipped
}

// rebindItem points the transaction's item refs that carry this
// transaction's unknown item name at the given catalog id. The refs are
// cloned first: the queued batch must stay untouched in case the merge
// fails and the operator retries.
func (s *approvalService) rebindItem(t *models.Transaction, pending *models.PendingSyncData, itemID string) {
	name := s.unknownItemName(t, pending)
	if name == "" {
		return
	}

	t.Items = slices.Clone(t.Items)
	for i := range t.Items {
		if strings.EqualFold(strings.TrimSpace(t.Items[i].Name), strings.TrimSpace(name)) {
			t.Items[i].ItemID = itemID
		}
	}
}

// unknownItemName returns the item name from the transaction's unknownItem
// conflict, empty when the transaction has none.
func (s *approvalService) unknownItemName(t *models.Transaction, pending *models.PendingSyncData) string {
	for _, c := range pending.Conflicts {
		if c.TransactionID == t.ID && c.ConflictType.Type == models.ConflictUnknownItem {
			return c.ConflictType.ItemName
		}
	}
	return ""
}
