package gormstorage

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/database"
	"github.com/spheroedu/bridge/internal/model"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db, Tag: "Lesson", FlushInterval: time.Hour})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newSession(uuid string) *core.Session {
	return &core.Session{
		UUID:      uuid,
		Program:   "square",
		Robot:     core.RobotBOLT,
		Runtime:   "sim",
		StartTime: start,
		Version:   "dev",
	}
}

func TestNew_Defaults(t *testing.T) {
	b := New(Dependencies{})
	assert.Equal(t, defaultBatchSize, b.deps.BatchSize)
	assert.Equal(t, defaultFlushInterval, b.deps.FlushInterval)
	assert.NotNil(t, b.deps.Logger)
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestRecordBeforeStart(t *testing.T) {
	b := newTestBackend(t)
	assert.True(t, errors.Is(b.RecordCommand(&core.CommandRecord{}), storage.ErrNoSession))
	assert.True(t, errors.Is(b.RecordEvent(&core.EventRecord{}), storage.ErrNoSession))
	assert.True(t, errors.Is(b.RecordSample(&core.SensorSample{}), storage.ErrNoSession))
	assert.True(t, errors.Is(b.EndSession(&core.Session{}), storage.ErrNoSession))
}

func TestStartSession_AssignsID(t *testing.T) {
	b := newTestBackend(t)
	s := newSession("11111111-1111-1111-1111-111111111111")
	require.NoError(t, b.StartSession(s))
	assert.NotZero(t, s.ID)

	var row model.Session
	require.NoError(t, b.DB().First(&row, s.ID).Error)
	assert.Equal(t, "Lesson", row.Tag)
	assert.Equal(t, "BOLT", row.Robot)

	again := newSession(s.UUID)
	require.NoError(t, b.StartSession(again))
	assert.Equal(t, s.ID, again.ID, "same UUID reuses the row")
}

func TestRecordAndFlush(t *testing.T) {
	b := newTestBackend(t)
	s := newSession("22222222-2222-2222-2222-222222222222")
	require.NoError(t, b.StartSession(s))

	require.NoError(t, b.RecordCommand(&core.CommandRecord{
		Time: start, Name: "roll", Args: json.RawMessage(`{"heading":0,"speed":50,"duration":1}`),
		Duration: time.Second,
	}))
	col := core.Color{R: 1, G: 2, B: 3}
	require.NoError(t, b.RecordEvent(&core.EventRecord{Time: start, Event: core.EventColor, Color: &col}))
	require.NoError(t, b.RecordSample(&core.SensorSample{Time: start, Location: core.Vector2{X: 1, Y: 2}}))

	assert.Equal(t, 1, b.queues.Commands.Len())
	require.NoError(t, b.Flush())
	assert.True(t, b.queues.Commands.Empty())
	assert.True(t, b.queues.Events.Empty())
	assert.True(t, b.queues.Samples.Empty())

	var cmds []model.Command
	require.NoError(t, b.DB().Where("session_id = ?", s.ID).Find(&cmds).Error)
	require.Len(t, cmds, 1)
	assert.Equal(t, "roll", cmds[0].Name)
	assert.Equal(t, 1000.0, cmds[0].DurationMs)

	var events []model.Event
	require.NoError(t, b.DB().Where("session_id = ?", s.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"r":1,"g":2,"b":3}`, string(events[0].Color))

	var samples []model.SensorSample
	require.NoError(t, b.DB().Where("session_id = ?", s.ID).Find(&samples).Error)
	require.Len(t, samples, 1)
	xy, ok := samples[0].Location.XY()
	require.True(t, ok)
	assert.Equal(t, 2.0, xy.Y)
}

func TestEndSession_WritesSummary(t *testing.T) {
	b := newTestBackend(t)
	s := newSession("33333333-3333-3333-3333-333333333333")
	require.NoError(t, b.StartSession(s))

	for _, loc := range []core.Vector2{{X: 0, Y: 0}, {X: 30, Y: 40}, {X: 30, Y: 100}} {
		require.NoError(t, b.RecordSample(&core.SensorSample{Time: start, Location: loc}))
	}
	require.NoError(t, b.RecordCommand(&core.CommandRecord{Time: start, Name: "stopRoll"}))

	s.EndTime = start.Add(time.Minute)
	require.NoError(t, b.EndSession(s))

	var row model.Session
	require.NoError(t, b.DB().First(&row, s.ID).Error)
	require.True(t, row.EndTime.Valid)
	assert.True(t, row.EndTime.Time.Equal(s.EndTime))
	assert.InDelta(t, 110.0, row.PathLengthCm, 1e-9)
	assert.Equal(t, 3, row.Path.Coordinates().Length())
	assert.Equal(t, sessionStats{Commands: 1, Samples: 3}, decodeStats(t, row))

	assert.True(t, errors.Is(b.RecordCommand(&core.CommandRecord{}), storage.ErrNoSession))
}

func TestWriterLoop_FlushesPeriodically(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: 10 * time.Millisecond})
	require.NoError(t, b.Init())
	defer func() { require.NoError(t, b.Close()) }()

	s := newSession("44444444-4444-4444-4444-444444444444")
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordCommand(&core.CommandRecord{Time: start, Name: "delay"}))

	assert.Eventually(t, func() bool {
		return b.queues.Commands.Empty()
	}, time.Second, 10*time.Millisecond)
}

func TestClose_FlushesRemaining(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: time.Hour})
	require.NoError(t, b.Init())

	s := newSession("55555555-5555-5555-5555-555555555555")
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordEvent(&core.EventRecord{Time: start, Event: core.EventLanding}))
	require.NoError(t, b.Close())

	var count int64
	db.Model(&model.Event{}).Where("session_id = ?", s.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

type sessionStats struct {
	Commands int64 `json:"commands"`
	Events   int64 `json:"events"`
	Samples  int64 `json:"samples"`
}

// decodeStats reads the stats column through JSON so numeric types do not
// depend on the driver.
func decodeStats(t *testing.T, row model.Session) sessionStats {
	t.Helper()
	data, err := json.Marshal(row.Stats)
	require.NoError(t, err)
	var out sessionStats
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEndSession_CountFailure(t *testing.T) {
	b := newTestBackend(t)
	s := newSession("77777777-7777-7777-7777-777777777777")
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordCommand(&core.CommandRecord{Time: start, Name: "roll"}))
	require.NoError(t, b.DB().Migrator().DropTable(&model.Event{}))

	s.EndTime = start.Add(time.Minute)
	err := b.EndSession(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count session records")
}

func TestRecordSample_InvalidLocation(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.StartSession(newSession("88888888-8888-8888-8888-888888888888")))

	err := b.RecordSample(&core.SensorSample{Time: start, Location: core.Vector2{X: math.Inf(1)}})
	assert.Error(t, err)
	assert.Zero(t, b.queues.Samples.Len())
}
