// Package memory implements the storage.Backend interface by keeping the
// session in memory and exporting it to a JSON file when the session ends.
package memory

import (
	"sync"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/geo"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

// pathMinStep drops location samples that moved less than this (cm).
const pathMinStep = 0.5

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg config.MemoryConfig
	tag string

	session  *core.Session
	commands []core.CommandRecord
	events   []core.EventRecord
	samples  []core.SensorSample
	path     *geo.Path

	lastExportPath string
	lastExportMeta core.UploadMetadata
	mu             sync.RWMutex
}

// New creates a new memory backend. tag is copied into the upload metadata.
func New(cfg config.MemoryConfig, tag string) *Backend {
	return &Backend{
		cfg:  cfg,
		tag:  tag,
		path: geo.NewPath(pathMinStep),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.ID == 0 {
		s.ID = 1
	}
	session := *s
	b.session = &session

	b.commands = nil
	b.events = nil
	b.samples = nil
	b.path.Reset()
	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return storage.ErrNoSession
	}
	b.session.EndTime = s.EndTime
	if err := b.exportJSON(); err != nil {
		return err
	}
	b.session = nil
	return nil
}

// RecordCommand appends a command record
func (b *Backend) RecordCommand(c *core.CommandRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return storage.ErrNoSession
	}
	b.commands = append(b.commands, *c)
	return nil
}

// RecordEvent appends an event record
func (b *Backend) RecordEvent(e *core.EventRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return storage.ErrNoSession
	}
	b.events = append(b.events, *e)
	return nil
}

// RecordSample appends a sensor sample and extends the driven path
func (b *Backend) RecordSample(s *core.SensorSample) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return storage.ErrNoSession
	}
	b.samples = append(b.samples, *s)
	b.path.Add(s.Location)
	return nil
}

// GetExportedFilePath returns the path of the last exported file
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// GetExportMetadata returns metadata about the last exported session
func (b *Backend) GetExportMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportMeta
}
