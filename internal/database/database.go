// Package database opens the GORM connections used by the session journal.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/model"
)

const (
	postgresBatch  = 5000
	sqliteBatch    = 2000
	postgresConns  = 10
	sqliteCacheKiB = 32000
)

var errNoSnapshotPath = errors.New("snapshot path not set")

// Journal is an open journal database. When Postgres is unreachable it
// is an in-memory SQLite database that Close snapshots to SnapshotPath.
type Journal struct {
	DB           *gorm.DB
	Local        bool
	SnapshotPath string
	log          zerolog.Logger
}

// Connect opens the Postgres journal described by cfg.Postgres and falls
// back to a local in-memory journal.
func Connect(cfg config.StorageConfig, log zerolog.Logger) (*Journal, error) {
	j := &Journal{SnapshotPath: cfg.SQLite.Path, log: log}

	db, err := OpenPostgres(cfg.Postgres)
	if err == nil {
		log.Info().Str("host", cfg.Postgres.Host).Msg("Connected to journal database")
		j.DB = db
		return j, nil
	}

	log.Error().Err(err).Msg("Postgres unreachable, journaling to local SQLite")
	if j.DB, err = OpenSQLite(""); err != nil {
		return nil, fmt.Errorf("failed to open local journal: %w", err)
	}
	j.Local = true
	return j, nil
}

// Close snapshots a local journal to disk. The connection itself is left
// open since the GORM backend may still hold it.
func (j *Journal) Close() error {
	if !j.Local || j.SnapshotPath == "" {
		return nil
	}
	start := time.Now()
	if err := Snapshot(j.DB, j.SnapshotPath); err != nil {
		return err
	}
	j.log.Debug().Str("path", j.SnapshotPath).Dur("took", time.Since(start)).Msg("Local journal written")
	return nil
}

func gormConfig(batch int) *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        batch,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// OpenPostgres connects and pings the Postgres server.
func OpenPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), gormConfig(postgresBatch))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	sqlDB.SetMaxOpenConns(postgresConns)
	return db, nil
}

var memoryJournals atomic.Int64

// OpenSQLite opens the SQLite file at path, or a fresh in-memory
// database when path is empty.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:journal%d?mode=memory&cache=shared", memoryJournals.Add(1))
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path
	}

	cfg := gormConfig(sqliteBatch)
	cfg.PrepareStmt = true
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one writer at a time
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = MEMORY",
		"PRAGMA synchronous = OFF",
		"PRAGMA temp_store = MEMORY",
		fmt.Sprintf("PRAGMA cache_size = -%d", sqliteCacheKiB),
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return db, nil
}

// Migrate creates the journal tables. Postgres gets the PostGIS extension
// first so the location columns can use geometry types.
func Migrate(db *gorm.DB) error {
	if db.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
	}
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Snapshot writes a consistent copy of a SQLite database to path. The copy
// is written next to path and renamed over it, so readers never see a
// partial file.
func Snapshot(db *gorm.DB, path string) error {
	if path == "" {
		return errNoSnapshotPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := db.Exec("VACUUM INTO ?", tmp).Error; err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}
	return os.Rename(tmp, path)
}
