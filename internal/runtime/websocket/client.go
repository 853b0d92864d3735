// Package websocket is the runtime transport that talks to a robot runtime
// over a WebSocket connection.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spheroedu/bridge/internal/channel"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Config holds WebSocket runtime configuration.
type Config struct {
	URL    string
	Secret string
	// CallTimeout bounds a call whose context has no deadline, counted from
	// the end of the command's own duration. Zero disables it.
	CallTimeout      time.Duration
	MaxReconnect     int
	ReconnectBackoff time.Duration
	EventBuffer      int
}

type callResult struct {
	res streaming.ResultPayload
	err error
}

// Client sends commands to a remote runtime and receives its results and events.
type Client struct {
	conn   *connection
	cfg    Config
	logger *slog.Logger
	nextID atomic.Uint64

	mu         sync.Mutex
	closed     bool
	pending    map[uint64]chan callResult
	hello      streaming.HelloPayload
	helloReady chan struct{}
	events     channel.Channel[streaming.EventPayload]

	droppedEvents atomic.Uint64
}

// New creates an unconnected client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 256
	}
	c := &Client{
		cfg:        cfg,
		logger:     logger,
		pending:    make(map[uint64]chan callResult),
		helloReady: make(chan struct{}),
		events:     channel.New[streaming.EventPayload](cfg.EventBuffer),
	}
	c.conn = newConnection(handlers{
		onHello:  c.handleHello,
		onResult: c.handleResult,
		onEvent:  c.handleEvent,
		onDrop:   c.failPending,
	}, cfg.MaxReconnect, cfg.ReconnectBackoff, logger)
	return c
}

// Dial connects to the runtime and waits for its hello.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	c := New(cfg, logger)
	if err := c.conn.dial(cfg.URL, cfg.Secret); err != nil {
		return nil, err
	}
	if _, err := c.Hello(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("waiting for runtime hello: %w", err)
	}
	return c, nil
}

// Hello blocks until the runtime has greeted the client.
func (c *Client) Hello(ctx context.Context) (streaming.HelloPayload, error) {
	select {
	case <-c.helloReady:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.hello, nil
	case <-c.conn.done:
		return streaming.HelloPayload{}, ErrDisconnected
	case <-ctx.Done():
		return streaming.HelloPayload{}, ctx.Err()
	}
}

// Call sends a command and waits for its result. reply, when non-nil, receives
// the decoded result value.
func (c *Client) Call(ctx context.Context, name string, args, reply any) error {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("%s: encode args: %w", name, err)
		}
		raw = b
	}

	id := c.nextID.Add(1)
	data, err := streaming.Marshal(streaming.TypeCommand, id, streaming.CommandPayload{Name: name, Args: raw})
	if err != nil {
		return err
	}

	wait := make(chan callResult, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", name, ErrDisconnected)
	}
	c.pending[id] = wait
	c.mu.Unlock()
	defer c.forget(id)

	if err := c.conn.send(data); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	limit := c.callLimit(ctx, name, args)
	var timeout <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case r := <-wait:
		if r.err != nil {
			return fmt.Errorf("%s: %w", name, r.err)
		}
		if err := r.res.Err(name); err != nil {
			return err
		}
		if reply != nil && len(r.res.Value) > 0 {
			if err := json.Unmarshal(r.res.Value, reply); err != nil {
				return fmt.Errorf("%s: decode result: %w", name, err)
			}
		}
		return nil
	case <-timeout:
		return fmt.Errorf("%s: timeout after %s", name, limit)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// callLimit is how long Call waits for a result when ctx has no deadline:
// CallTimeout on top of the command's own duration. Commands that end when
// the robot is done get no limit. Zero means wait for ctx only.
func (c *Client) callLimit(ctx context.Context, name string, args any) time.Duration {
	if _, ok := ctx.Deadline(); ok || c.cfg.CallTimeout <= 0 {
		return 0
	}
	d, bounded := streaming.Duration(name, args)
	if !bounded {
		return 0
	}
	return c.cfg.CallTimeout + d
}

// Events returns the stream of hardware events. It is closed by Close.
func (c *Client) Events() <-chan streaming.EventPayload {
	return c.events.Receive()
}

// DroppedEvents returns how many events were discarded because the event
// buffer was full.
func (c *Client) DroppedEvents() uint64 {
	return c.droppedEvents.Load()
}

// Connected reports whether the transport currently has a live connection.
func (c *Client) Connected() bool {
	return c.conn.connected()
}

// Close disconnects from the runtime and fails calls still in flight.
func (c *Client) Close() error {
	err := c.conn.close()

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.events.Close()
	}
	c.mu.Unlock()

	c.failPending()
	return err
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) handleHello(h streaming.HelloPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hello = h
	select {
	case <-c.helloReady:
	default:
		close(c.helloReady)
	}
	c.logger.Info("Runtime hello", "robot", string(h.Robot), "firmware", h.Firmware, "runtime", h.Runtime)
}

func (c *Client) handleResult(id uint64, res streaming.ResultPayload) {
	c.mu.Lock()
	wait, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("Result for unknown call", "id", id)
		return
	}
	wait <- callResult{res: res}
}

func (c *Client) handleEvent(ev streaming.EventPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !c.events.TrySend(ev) {
		c.droppedEvents.Add(1)
		c.logger.Warn("Event buffer full, dropping event", "event", ev.Event.String())
	}
}

func (c *Client) failPending() {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[uint64]chan callResult)
	c.mu.Unlock()

	for _, wait := range pending {
		wait <- callResult{err: ErrDisconnected}
	}
}
