// Package worker journals a session asynchronously: commands, events and
// sensor samples are queued by the program and written to the storage
// backend from a single goroutine, so slow storage never holds up a robot.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/spheroedu/bridge/internal/channel"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

const (
	instrumentationName = "github.com/spheroedu/bridge/internal/worker"
	defaultQueueSize    = 4096
)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger    *slog.Logger
	QueueSize int
}

// kind labels a journal record.
type kind string

const (
	kindCommand kind = "command"
	kindEvent   kind = "event"
	kindSample  kind = "sample"
	kindSync    kind = "sync"
)

type record struct {
	kind    kind
	command core.CommandRecord
	event   core.EventRecord
	sample  core.SensorSample
	synced  chan struct{}
}

// Manager manages the journal writer goroutine. It satisfies edu.Recorder.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	queue   channel.Channel[record]

	written metric.Int64Counter
	dropped metric.Int64Counter
	failed  metric.Int64Counter

	droppedTotal atomic.Int64
	failedTotal  atomic.Int64

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewManager creates a new worker manager. Call Start before recording.
func NewManager(deps Dependencies, backend storage.Backend) (*Manager, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.QueueSize <= 0 {
		deps.QueueSize = defaultQueueSize
	}
	m := &Manager{
		deps:    deps,
		backend: backend,
		queue:   channel.New[record](deps.QueueSize),
		done:    make(chan struct{}),
	}

	meter := otel.Meter(instrumentationName)
	var err error
	m.written, err = meter.Int64Counter("journal.records.written",
		metric.WithDescription("Journal records handed to the storage backend"))
	if err != nil {
		return nil, fmt.Errorf("creating written counter: %w", err)
	}
	m.dropped, err = meter.Int64Counter("journal.records.dropped",
		metric.WithDescription("Journal records dropped due to a full queue"))
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	m.failed, err = meter.Int64Counter("journal.records.failed",
		metric.WithDescription("Journal records the storage backend rejected"))
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	return m, nil
}

// Start launches the writer goroutine.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closed {
		return
	}
	m.started = true
	go m.run()
}

// RecordCommand queues a command record.
func (m *Manager) RecordCommand(c core.CommandRecord) {
	m.enqueue(record{kind: kindCommand, command: c})
}

// RecordEvent queues an event record.
func (m *Manager) RecordEvent(e core.EventRecord) {
	m.enqueue(record{kind: kindEvent, event: e})
}

// RecordSample queues a sensor sample.
func (m *Manager) RecordSample(s core.SensorSample) {
	m.enqueue(record{kind: kindSample, sample: s})
}

func (m *Manager) enqueue(r record) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	if !m.queue.TrySend(r) {
		m.droppedTotal.Add(1)
		m.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", string(r.kind))))
	}
}

// Sync blocks until every record queued before the call has been handed
// to the backend, or ctx is done.
func (m *Manager) Sync(ctx context.Context) error {
	synced := make(chan struct{})
	m.mu.RLock()
	if m.closed || !m.started {
		m.mu.RUnlock()
		return nil
	}
	select {
	case <-ctx.Done():
		m.mu.RUnlock()
		return ctx.Err()
	default:
	}
	// sync markers are never dropped
	m.queue.Send(record{kind: kindSync, synced: synced})
	m.mu.RUnlock()

	select {
	case <-synced:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of records dropped because the queue was full.
func (m *Manager) Dropped() int64 {
	return m.droppedTotal.Load()
}

// Failed returns the number of records the backend rejected.
func (m *Manager) Failed() int64 {
	return m.failedTotal.Load()
}

// Close stops accepting records, writes everything still queued and waits
// for the writer goroutine to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	started := m.started
	m.queue.Close()
	m.mu.Unlock()

	if started {
		<-m.done
	}
}

func (m *Manager) run() {
	defer close(m.done)
	for r := range m.queue.Receive() {
		m.write(r)
	}
}

func (m *Manager) write(r record) {
	var err error
	switch r.kind {
	case kindSync:
		close(r.synced)
		return
	case kindCommand:
		err = m.backend.RecordCommand(&r.command)
	case kindEvent:
		err = m.backend.RecordEvent(&r.event)
	case kindSample:
		err = m.backend.RecordSample(&r.sample)
	}

	attrs := metric.WithAttributes(attribute.String("kind", string(r.kind)))
	if err != nil {
		m.failedTotal.Add(1)
		m.failed.Add(context.Background(), 1, attrs)
		m.deps.Logger.Error("Failed to journal record", "kind", r.kind, "error", err)
		return
	}
	m.written.Add(context.Background(), 1, attrs)
}
