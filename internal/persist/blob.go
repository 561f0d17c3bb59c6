// Package persist stores the latest serialised model under a single key and
// keeps it up to date while the model changes.
package persist

import (
	"context"
	"fmt"
	"strings"
)

// DefaultKey is the key the autosaved model lives under.
const DefaultKey = "c4-model-autosave"

// Default locations when StoreConfig.DSN is empty.
const (
	DefaultFilePath   = ".c4model/autosave.json"
	DefaultSQLitePath = ".c4model.db"
)

// BlobStore holds one string value. Get reports false when nothing is stored.
type BlobStore interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
	Remove(ctx context.Context) error
	Close() error
}

// StoreConfig selects and configures a BlobStore.
type StoreConfig struct {
	Type string // "file", "sqlite" or "postgres"
	DSN  string // file path for file and sqlite, connection string for postgres
	Key  string
}

// NewBlobStore creates the BlobStore described by cfg.
func NewBlobStore(cfg StoreConfig) (BlobStore, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	switch strings.ToLower(cfg.Type) {
	case "", "file":
		if cfg.DSN == "" {
			cfg.DSN = DefaultFilePath
		}
		return NewFileStore(cfg.DSN), nil
	case "sqlite", "sqlite3":
		if cfg.DSN == "" {
			cfg.DSN = DefaultSQLitePath
		}
		return NewSQLiteStore(cfg.DSN, cfg.Key)
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(cfg.DSN, cfg.Key)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
