package main

import (
	"fmt"
	"path/filepath"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/internal/storage/memory"
	pgstorage "github.com/spheroedu/bridge/internal/storage/postgres"
	sqlitestorage "github.com/spheroedu/bridge/internal/storage/sqlite"
)

// createStorageBackend builds the journal backend selected by storage.type.
func (a *app) createStorageBackend(storageCfg config.StorageConfig, tag string) (storage.Backend, error) {
	switch storageCfg.Type {
	case "postgres":
		if storageCfg.SQLite.Path == "" {
			storageCfg.SQLite.Path = a.sessionDBPath()
		}
		backend, err := pgstorage.New(storageCfg, tag, a.Logger, a.ZLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		if backend.IsLocal() {
			a.Logger.Warn("Postgres unreachable, journaling to local SQLite", "path", storageCfg.SQLite.Path)
		} else {
			a.Logger.Info("Postgres storage backend initialized")
		}
		return backend, nil

	case "sqlite":
		if storageCfg.SQLite.Path == "" {
			storageCfg.SQLite.Path = a.sessionDBPath()
		}
		backend, err := sqlitestorage.New(storageCfg, tag, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		a.Logger.Info("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return backend, nil

	case "none":
		a.Logger.Info("Session journal disabled")
		return storage.Nop{}, nil

	case "memory", "":
		a.Logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory, tag), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}

func (a *app) sessionDBPath() string {
	return filepath.Join(config.GetString("logsDir"), fmt.Sprintf("%s_%s.db", AppName, a.StartTime.Format("20060102_150405")))
}
