package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 10, 19, 9, 5, 7, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		file    string
		want    string
	}{
		{"relative", "logs", "sphero_bridge.run", filepath.Join("logs", "sphero_bridge.run.20261019_090507.log")},
		{"dot prefix", "./logs", "sphero_bridge.sim", filepath.Join(".", "logs", "sphero_bridge.sim.20261019_090507.log")},
		{"absolute", filepath.Join("/var", "log", "sphero"), "bridge", filepath.Join("/var", "log", "sphero", "bridge.20261019_090507.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, tt.file, start))
		})
	}
}

func TestRemoveOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)

	write := func(name string, mod time.Time) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(p, mod, mod))
		return p
	}
	oldLog := write("run.20261001_120000.log", old)
	oldBackup := write("run.20261001_120000.log.old", old)
	keepNew := write("run.20261019_120000.log", now)
	keepOther := write("journal.db", old)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.log"), 0o755))

	removed, err := RemoveOldLogs(dir, 7*24*time.Hour, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{oldLog, oldBackup}, removed)

	assert.FileExists(t, keepNew)
	assert.FileExists(t, keepOther)
	assert.NoFileExists(t, oldLog)
}

func TestRemoveOldLogs_Disabled(t *testing.T) {
	removed, err := RemoveOldLogs("/does/not/exist", 0, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, removed)
}

func TestRemoveOldLogs_MissingDir(t *testing.T) {
	_, err := RemoveOldLogs(filepath.Join(t.TempDir(), "missing"), time.Hour, time.Now())
	assert.Error(t, err)
}
