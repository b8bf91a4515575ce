// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for orbit-sync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: token signing parameters and
	// the application version exposed on the ping endpoint.
	App App `envPrefix:"APP_"`

	// Sync holds tunables of the pairing/conflict-detection core.
	Sync Sync `envPrefix:"SYNC_"`

	// Storage holds the ledger database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network settings for the pairing HTTP endpoint.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify pairing tokens.
	// Must be kept confidential. Required.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every pairing token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Version is the semantic version string of the running application,
	// reported on the /ping discovery endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Sync holds tunables of the pairing session and conflict detection.
type Sync struct {
	// SessionDuration is the fixed lifetime of a pairing session; the PIN,
	// the token, and the listening endpoint all die when it elapses.
	// Env: SYNC_SESSION_DURATION
	SessionDuration time.Duration `env:"SESSION_DURATION"`

	// MinSimilarity is the minimum normalized similarity score an item
	// catalog candidate needs to appear among suggested matches.
	// Env: SYNC_MIN_SIMILARITY
	MinSimilarity float64 `env:"MIN_SIMILARITY"`

	// MaxSuggestions caps how many suggested matches an unknownItem
	// conflict carries.
	// Env: SYNC_MAX_SUGGESTIONS
	MaxSuggestions int `env:"MAX_SUGGESTIONS"`
}

// Server holds network settings for the pairing endpoint.
type Server struct {
	// Port is the TCP port the pairing HTTP server listens on while a
	// session is active. The session manager may override it per Start call.
	// Env: SERVER_PORT
	Port int `env:"PORT"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds persistence settings.
type Storage struct {
	// DB holds the ledger database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the ledger database.
type DB struct {
	// DSN is the SQLite file path of the local ledger
	// (e.g. "orbit-ledger.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
