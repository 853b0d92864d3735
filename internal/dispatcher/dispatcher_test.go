package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("%s %s %v", level, msg, kv))
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.add("DEBUG", msg, kv) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.add("INFO", msg, kv) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.add("ERROR", msg, kv) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") {
			n++
		}
	}
	return n
}

func newDispatcher(t *testing.T) (*Dispatcher, *recordingLogger) {
	t.Helper()
	log := &recordingLogger{}
	d, err := New(log)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d, log
}

func irEvent(ch int) Event {
	return Event{
		Type:      core.EventIRMessage,
		Payload:   streaming.EventPayload{Event: core.EventIRMessage, Channel: &ch},
		Timestamp: time.Now(),
	}
}

func event(typ core.EventType) Event {
	return Event{Type: typ, Payload: streaming.EventPayload{Event: typ}, Timestamp: time.Now()}
}

// gate blocks a queued handler until released and signals the first entry.
type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) handler(Event) error {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return nil
}

func TestDispatch_Inline(t *testing.T) {
	d, _ := newDispatcher(t)

	var got Event
	d.Register(core.EventIRMessage, func(e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Dispatch(irEvent(3)))
	require.NotNil(t, got.Payload.Channel)
	assert.Equal(t, 3, *got.Payload.Channel)

	d.Register(core.EventCollision, func(Event) error { return errors.New("boom") })
	assert.EqualError(t, d.Dispatch(event(core.EventCollision)), "boom")
}

func TestDispatch_NoHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	assert.ErrorIs(t, d.Dispatch(event(core.EventLanding)), ErrNoHandler)
	assert.False(t, d.HasHandler(core.EventLanding))
}

func TestRegister_Replaces(t *testing.T) {
	d, _ := newDispatcher(t)

	var first, second atomic.Int32
	d.Register(core.EventCollision, func(Event) error { first.Add(1); return nil })
	d.Register(core.EventCollision, func(Event) error { second.Add(1); return nil })

	require.NoError(t, d.Dispatch(event(core.EventCollision)))
	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestRegister_ReplacedQueueFinishes(t *testing.T) {
	d, _ := newDispatcher(t)

	var old atomic.Int32
	release := make(chan struct{})
	d.Register(core.EventFreefall, func(Event) error {
		<-release
		old.Add(1)
		return nil
	}, WithQueue(4))
	for range 3 {
		require.NoError(t, d.Dispatch(event(core.EventFreefall)))
	}

	var replacement atomic.Int32
	d.Register(core.EventFreefall, func(Event) error { replacement.Add(1); return nil })
	close(release)

	require.NoError(t, d.Dispatch(event(core.EventFreefall)))
	assert.Eventually(t, func() bool { return old.Load() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), replacement.Load())
}

func TestUnregister(t *testing.T) {
	d, _ := newDispatcher(t)
	d.Register(core.EventCharging, func(Event) error { return nil }, WithQueue(1))

	assert.True(t, d.Unregister(core.EventCharging))
	assert.False(t, d.Unregister(core.EventCharging))
	assert.ErrorIs(t, d.Dispatch(event(core.EventCharging)), ErrNoHandler)
}

func TestQueue_PreservesOrder(t *testing.T) {
	d, _ := newDispatcher(t)

	var mu sync.Mutex
	var order []int
	d.Register(core.EventIRMessage, func(e Event) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, *e.Payload.Channel)
		return nil
	}, WithQueue(16))

	for i := range 10 {
		require.NoError(t, d.Dispatch(irEvent(i)))
	}
	d.Close()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	d, _ := newDispatcher(t)
	g := newGate()
	d.Register(core.EventColor, g.handler, WithQueue(2))
	defer close(g.release)

	require.NoError(t, d.Dispatch(event(core.EventColor)))
	<-g.entered
	require.NoError(t, d.Dispatch(event(core.EventColor)))
	require.NoError(t, d.Dispatch(event(core.EventColor)))

	assert.ErrorIs(t, d.Dispatch(event(core.EventColor)), ErrQueueFull)
}

func TestQueue_Blocking(t *testing.T) {
	d, _ := newDispatcher(t)
	g := newGate()
	d.Register(core.EventNotCharging, g.handler, WithQueue(1), WithBlocking())

	require.NoError(t, d.Dispatch(event(core.EventNotCharging)))
	<-g.entered
	require.NoError(t, d.Dispatch(event(core.EventNotCharging)))

	done := make(chan error, 1)
	go func() { done <- d.Dispatch(event(core.EventNotCharging)) }()

	select {
	case <-done:
		t.Fatal("dispatch should wait for room in the queue")
	case <-time.After(50 * time.Millisecond):
	}

	close(g.release)
	assert.NoError(t, <-done)
}

func TestQueue_HandlerErrorLogged(t *testing.T) {
	d, log := newDispatcher(t)
	d.Register(core.EventLanding, func(Event) error { return errors.New("callback failed") }, WithQueue(1))

	require.NoError(t, d.Dispatch(event(core.EventLanding)))
	d.Close()

	assert.Equal(t, 1, log.count("ERROR"))
}

func TestTrace(t *testing.T) {
	tests := []struct {
		name      string
		handler   HandlerFunc
		opts      []Option
		wantDebug int
		wantError int
	}{
		{name: "inline ok", handler: func(Event) error { return nil }, wantDebug: 1},
		{name: "inline error", handler: func(Event) error { return errors.New("x") }, wantError: 1},
		{name: "queued ok", handler: func(Event) error { return nil }, opts: []Option{WithQueue(4)}, wantDebug: 1},
		{name: "queued error logged once", handler: func(Event) error { return errors.New("x") }, opts: []Option{WithQueue(4)}, wantError: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			d, err := New(log)
			require.NoError(t, err)

			d.Register(core.EventCollision, tt.handler, append(tt.opts, WithTrace())...)
			_ = d.Dispatch(event(core.EventCollision))
			d.Close()

			assert.Equal(t, tt.wantDebug, log.count("DEBUG"))
			assert.Equal(t, tt.wantError, log.count("ERROR"))
		})
	}
}

func TestClose_DrainsAndClears(t *testing.T) {
	log := &recordingLogger{}
	d, err := New(log)
	require.NoError(t, err)

	var processed atomic.Int32
	d.Register(core.EventGyroMax, func(Event) error {
		time.Sleep(time.Millisecond)
		processed.Add(1)
		return nil
	}, WithQueue(10))

	for range 5 {
		require.NoError(t, d.Dispatch(event(core.EventGyroMax)))
	}
	d.Close()
	d.Close()

	assert.Equal(t, int32(5), processed.Load())
	assert.False(t, d.HasHandler(core.EventGyroMax))
}

func TestQueueDepths(t *testing.T) {
	d, _ := newDispatcher(t)
	g := newGate()
	d.Register(core.EventColor, g.handler, WithQueue(4))
	d.Register(core.EventLanding, func(Event) error { return nil })
	defer close(g.release)

	require.NoError(t, d.Dispatch(event(core.EventColor)))
	<-g.entered
	require.NoError(t, d.Dispatch(event(core.EventColor)))

	depths := map[core.EventType]int{}
	d.queueDepths(func(typ core.EventType, n int) { depths[typ] = n })
	assert.Equal(t, map[core.EventType]int{core.EventColor: 1}, depths)
}

type countingMeter struct {
	noop.Meter
	registered   atomic.Int32
	unregistered atomic.Int32
}

func (m *countingMeter) RegisterCallback(metric.Callback, ...metric.Observable) (metric.Registration, error) {
	m.registered.Add(1)
	return countingRegistration{m}, nil
}

type countingRegistration struct {
	noop.Registration
	m *countingMeter
}

func (r countingRegistration) Unregister() error {
	r.m.unregistered.Add(1)
	return nil
}

func TestClose_UnregistersMetrics(t *testing.T) {
	meter := &countingMeter{}
	d, err := newWithMeter(&recordingLogger{}, meter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), meter.registered.Load())

	d.Close()
	d.Close()
	assert.Equal(t, int32(1), meter.unregistered.Load())
}
