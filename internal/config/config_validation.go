// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	defaultPort            = 8080
	defaultRequestTimeout  = 30 * time.Second
	defaultSessionDuration = 15 * time.Minute
	defaultMinSimilarity   = 0.5
	defaultMaxSuggestions  = 5
	defaultTokenIssuer     = "orbit-sync"
	defaultLedgerDSN       = "orbit-ledger.db"
)

// applyDefaults fills zero-valued fields of the merged configuration.
// Only fields with a sensible universal default are filled; secrets stay
// empty and are caught by validate.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.SessionDuration == 0 {
		cfg.Sync.SessionDuration = defaultSessionDuration
	}
	if cfg.Sync.MinSimilarity == 0 {
		cfg.Sync.MinSimilarity = defaultMinSimilarity
	}
	if cfg.Sync.MaxSuggestions == 0 {
		cfg.Sync.MaxSuggestions = defaultMaxSuggestions
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultLedgerDSN
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Sync.MinSimilarity < 0 || cfg.Sync.MinSimilarity > 1 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return ErrInvalidServerConfigs
	}

	return nil
}
