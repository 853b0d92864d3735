package sqlitestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/database"
	"github.com/spheroedu/bridge/internal/model"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func newBackend(t *testing.T, path string, dumpInterval time.Duration) *Backend {
	t.Helper()
	b, err := New(config.StorageConfig{
		FlushInterval: time.Hour,
		SQLite:        config.SQLiteConfig{Path: path, DumpInterval: dumpInterval},
	}, "Lesson", nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	return b
}

func TestEndSession_DumpsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "journal.db")
	b := newBackend(t, path, 0)

	s := &core.Session{UUID: "77777777-7777-7777-7777-777777777777", Program: "square", Robot: core.RobotBOLT, StartTime: time.Now()}
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordCommand(&core.CommandRecord{Time: time.Now(), Name: "roll"}))
	s.EndTime = time.Now()
	require.NoError(t, b.EndSession(s))
	require.NoError(t, b.Close())

	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&model.Command{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var row model.Session
	require.NoError(t, db.Where("uuid = ?", s.UUID).First(&row).Error)
	assert.True(t, row.EndTime.Valid)
}

func TestDumpLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	b := newBackend(t, path, 10*time.Millisecond)
	defer func() { require.NoError(t, b.Close()) }()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestNoPath_NoDump(t *testing.T) {
	b := newBackend(t, "", time.Millisecond)
	assert.Nil(t, b.stopChan)
	assert.NoError(t, b.Close())
}
