package store

import (
	"context"

	"github.com/MKhiriev/orbit-sync/models"
)

// Ledger is the external collaborator holding the user's accounts,
// transactions, and item catalog. The sync core reads a consistent snapshot
// for conflict detection and applies merge plans as atomic batches.
type Ledger interface {
	// Snapshot returns a point-in-time read model of the ledger. Every
	// transaction of a sync batch is classified against one snapshot so a
	// concurrent merge cannot skew part of the classification.
	Snapshot(ctx context.Context) (models.LedgerSnapshot, error)

	// ApplyMerge writes the plan as one atomic unit: all item creations,
	// transaction inserts, and balance adjustments succeed, or none are
	// applied.
	ApplyMerge(ctx context.Context, plan models.MergePlan) error
}
