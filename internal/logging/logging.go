// Package logging sets up the slog outputs (file, console, OTel, Graylog)
// and the zerolog adapter used for event delivery.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const logTimeFormat = "20060102_150405"

// LogFilePath returns <logsDir>/<name>.<start>.log.
func LogFilePath(logsDir, name string, start time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", name, start.Format(logTimeFormat)))
}

// RemoveOldLogs deletes *.log and *.log.old files in logsDir last modified
// before now-maxAge and returns their paths. A non-positive maxAge keeps
// everything.
func RemoveOldLogs(logsDir string, maxAge time.Duration, now time.Time) ([]string, error) {
	if maxAge <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-maxAge)
	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.old")) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(logsDir, name)
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}
