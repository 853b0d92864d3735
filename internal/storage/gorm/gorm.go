// Package gormstorage implements the storage.Backend interface on top of GORM
// with internal queues and a background DB writer goroutine. The sqlite and
// postgres backends wrap it.
package gormstorage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spheroedu/bridge/internal/database"
	"github.com/spheroedu/bridge/internal/geo"
	"github.com/spheroedu/bridge/internal/model"
	"github.com/spheroedu/bridge/internal/model/convert"
	"github.com/spheroedu/bridge/internal/queue"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

const (
	defaultBatchSize     = 500
	defaultFlushInterval = 2 * time.Second
	defaultQueueLimit    = 100000
	pathMinStep          = 0.5
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	Tag           string
	BatchSize     int
	FlushInterval time.Duration
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Commands *queue.Queue[model.Command]
	Events   *queue.Queue[model.Event]
	Samples  *queue.Queue[model.SensorSample]
}

func newQueues(limit int) *queues {
	return &queues{
		Commands: queue.New[model.Command](limit),
		Events:   queue.New[model.Event](limit),
		Samples:  queue.New[model.SensorSample](limit),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Uint64
	path      *geo.Path
	flushMu   sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.BatchSize <= 0 {
		deps.BatchSize = defaultBatchSize
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	return &Backend{
		deps:   deps,
		queues: newQueues(defaultQueueLimit),
		path:   geo.NewPath(pathMinStep),
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration and starts the DB writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend: no database")
	}
	b.deps.Logger.Info("Migrating schema", "dialect", b.deps.DB.Name())
	if err := database.Migrate(b.deps.DB); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writerLoop()
	return nil
}

// Close stops the DB writer goroutine and writes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.done
		b.stopChan = nil
	}
	return b.Flush()
}

// StartSession inserts the session row (or reuses the row with the same UUID)
// and assigns its ID.
func (b *Backend) StartSession(s *core.Session) error {
	row := convert.CoreToSession(*s, b.deps.Tag)
	if _, err := row.GetOrInsert(b.deps.DB); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	s.ID = row.ID
	b.sessionID.Store(uint64(row.ID))
	b.path.Reset()
	b.deps.Logger.Debug("Session row ready", "id", row.ID, "uuid", row.UUID)
	return nil
}

// EndSession flushes the queues and writes the end time, driven path and
// record counts to the session row.
func (b *Backend) EndSession(s *core.Session) error {
	id := uint(b.sessionID.Load())
	if id == 0 {
		return storage.ErrNoSession
	}
	if err := b.Flush(); err != nil {
		return err
	}

	var stats struct{ Commands, Events, Samples int64 }
	db := b.deps.DB
	if err := errors.Join(
		db.Model(&model.Command{}).Where("session_id = ?", id).Count(&stats.Commands).Error,
		db.Model(&model.Event{}).Where("session_id = ?", id).Count(&stats.Events).Error,
		db.Model(&model.SensorSample{}).Where("session_id = ?", id).Count(&stats.Samples).Error,
	); err != nil {
		return fmt.Errorf("failed to count session records: %w", err)
	}

	points := b.path.Points()
	path, err := geo.LineString(points)
	if err != nil {
		return err
	}
	update := model.Session{
		EndTime:      sql.NullTime{Time: s.EndTime, Valid: !s.EndTime.IsZero()},
		PathLengthCm: path.Length(),
		Path:         path,
		Stats: datatypes.JSONMap{
			"commands": stats.Commands,
			"events":   stats.Events,
			"samples":  stats.Samples,
		},
	}
	err = db.Model(&model.Session{}).Where("id = ?", id).
		Select("end_time", "path_length_cm", "path", "stats").
		Updates(&update).Error
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	b.sessionID.Store(0)
	return nil
}

// RecordCommand converts and queues a command.
func (b *Backend) RecordCommand(c *core.CommandRecord) error {
	if b.sessionID.Load() == 0 {
		return storage.ErrNoSession
	}
	b.queues.Commands.Push(convert.CoreToCommand(*c))
	return nil
}

// RecordEvent converts and queues an event.
func (b *Backend) RecordEvent(e *core.EventRecord) error {
	if b.sessionID.Load() == 0 {
		return storage.ErrNoSession
	}
	b.queues.Events.Push(convert.CoreToEvent(*e))
	return nil
}

// RecordSample converts and queues a sensor sample and extends the driven path.
func (b *Backend) RecordSample(s *core.SensorSample) error {
	if b.sessionID.Load() == 0 {
		return storage.ErrNoSession
	}
	row, err := convert.CoreToSensorSample(*s)
	if err != nil {
		return err
	}
	b.queues.Samples.Push(row)
	b.path.Add(s.Location)
	return nil
}

// Flush writes every queued record now.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	sessionID := uint(b.sessionID.Load())
	db := b.deps.DB
	size := b.deps.BatchSize
	log := b.deps.Logger

	return errors.Join(
		writeQueue(db, b.queues.Commands, "commands", size, log, func(items []model.Command) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
		writeQueue(db, b.queues.Events, "events", size, log, func(items []model.Event) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
		writeQueue(db, b.queues.Samples, "sensor samples", size, log, func(items []model.SensorSample) {
			for i := range items {
				items[i].SessionID = sessionID
			}
		}),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
// Failed items go back on the queue for the next cycle.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, batchSize int, log *slog.Logger, prepare func([]T)) error {
	if q.Empty() {
		return nil
	}

	items := q.Drain()
	if prepare != nil {
		prepare(items)
	}

	tx := db.Begin()
	if err := tx.CreateInBatches(&items, batchSize).Error; err != nil {
		tx.Rollback()
		requeue(q, items, name, log)
		log.Error("Error writing queue", "queue", name, "count", len(items), "error", err)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		requeue(q, items, name, log)
		return fmt.Errorf("commit %s: %w", name, err)
	}
	log.Debug("Wrote queue", "queue", name, "count", len(items))
	return nil
}

func requeue[T any](q *queue.Queue[T], items []T, name string, log *slog.Logger) {
	if dropped := q.Requeue(items); dropped > 0 {
		log.Warn("Write queue over limit, dropped oldest", "queue", name, "dropped", dropped)
	}
}

// writerLoop periodically drains the queues into the DB.
func (b *Backend) writerLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if b.sessionID.Load() == 0 {
				continue
			}
			_ = b.Flush()
		}
	}
}
