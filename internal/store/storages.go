package store

import (
	"context"

	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
)

// Storages aggregates every persistence dependency of the application.
type Storages struct {
	Ledger Ledger
}

// NewStorages opens the ledger database, applies pending migrations, and
// wires the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return Storages{}, err
	}

	if err := db.Migrate(); err != nil {
		return Storages{}, err
	}

	return Storages{
		Ledger: NewLedgerRepository(db, log),
	}, nil
}
