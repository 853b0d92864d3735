// Package storage defines the session journal: every command, event and
// sensor sample of a session can be recorded to a pluggable backend.
package storage

import (
	"errors"

	"github.com/spheroedu/bridge/pkg/core"
)

// ErrNoSession is returned when a record arrives before StartSession.
var ErrNoSession = errors.New("no active session")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management. StartSession assigns the session ID.
	StartSession(s *core.Session) error
	EndSession(s *core.Session) error

	// Recording
	RecordCommand(c *core.CommandRecord) error
	RecordEvent(e *core.EventRecord) error
	RecordSample(s *core.SensorSample) error
}

// Uploadable is an optional interface for storage backends that produce
// files suitable for upload to the classroom server.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() core.UploadMetadata
}

// Nop discards everything. It backs the "none" storage type.
type Nop struct{}

func (Nop) Init() error                             { return nil }
func (Nop) Close() error                            { return nil }
func (Nop) StartSession(*core.Session) error        { return nil }
func (Nop) EndSession(*core.Session) error          { return nil }
func (Nop) RecordCommand(*core.CommandRecord) error { return nil }
func (Nop) RecordEvent(*core.EventRecord) error     { return nil }
func (Nop) RecordSample(*core.SensorSample) error   { return nil }
