// Package postgres implements the storage.Backend interface on a shared
// PostgreSQL journal. When the server cannot be reached it falls back to a
// local in-memory SQLite journal that is dumped to the sqlite path on close.
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/database"
	gormstorage "github.com/spheroedu/bridge/internal/storage/gorm"
)

// Backend wraps the GORM backend with the Postgres connection manager.
type Backend struct {
	*gormstorage.Backend
	journal *database.Journal
}

// New connects to Postgres (or the SQLite fallback) and creates the backend.
func New(cfg config.StorageConfig, tag string, log *slog.Logger, zlog zerolog.Logger) (*Backend, error) {
	journal, err := database.Connect(cfg, zlog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:            journal.DB,
			Logger:        log,
			Tag:           tag,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
		}),
		journal: journal,
	}, nil
}

// IsLocal reports whether the backend fell back to SQLite.
func (b *Backend) IsLocal() bool {
	return b.journal.Local
}

// Close closes the GORM backend and, on the SQLite fallback, dumps the
// journal to disk.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return b.journal.Close()
}
