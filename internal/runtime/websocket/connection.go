package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/spheroedu/bridge/pkg/streaming"
)

const (
	outboxSize = 1024
	maxBackoff = 30 * time.Second
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = pongWait * 9 / 10
)

var (
	// ErrDisconnected is returned for calls that were in flight when the
	// connection dropped, and for calls made after Close.
	ErrDisconnected = errors.New("runtime disconnected")
	errOutboxFull   = errors.New("send queue full")
)

// handlers receive decoded envelopes from the read loop.
type handlers struct {
	onHello  func(streaming.HelloPayload)
	onResult func(id uint64, res streaming.ResultPayload)
	onEvent  func(streaming.EventPayload)
	onDrop   func()
}

// link is one live socket. stop is closed when the socket is dropped.
type link struct {
	conn *ws.Conn
	stop chan struct{}
}

// connection keeps a socket to the runtime alive across drops. All writes
// go through one goroutine per link, fed by outbox.
type connection struct {
	endpoint     string
	maxReconnect int
	backoff      time.Duration
	h            handlers
	log          *slog.Logger

	outbox chan []byte
	done   chan struct{}

	mu        sync.Mutex
	live      *link
	closed    bool
	redialing bool
}

func newConnection(h handlers, maxReconnect int, backoff time.Duration, log *slog.Logger) *connection {
	if backoff <= 0 {
		backoff = time.Second
	}
	return &connection{
		maxReconnect: maxReconnect,
		backoff:      backoff,
		h:            h,
		log:          log,
		outbox:       make(chan []byte, outboxSize),
		done:         make(chan struct{}),
	}
}

// endpointURL adds the runtime secret to rawURL as a query parameter.
func endpointURL(rawURL, secret string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid websocket URL: %w", err)
	}
	if secret != "" {
		q := u.Query()
		q.Set("secret", secret)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// dial opens the first socket. Later sockets come from redial.
func (c *connection) dial(rawURL, secret string) error {
	endpoint, err := endpointURL(rawURL, secret)
	if err != nil {
		return err
	}
	c.endpoint = endpoint

	conn, _, err := ws.DefaultDialer.Dial(c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	c.attach(conn)
	return nil
}

// attach makes conn the live link. It reports false and closes conn when
// the connection was shut down while dialing.
func (c *connection) attach(conn *ws.Conn) bool {
	l := &link{conn: conn, stop: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return false
	}
	c.live = l
	c.mu.Unlock()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.write(l)
	go c.read(l)
	return true
}

func (c *connection) write(l *link) {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		var err error
		select {
		case <-c.done:
			return
		case <-l.stop:
			return
		case <-ping.C:
			err = l.conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait))
		case msg := <-c.outbox:
			if err = l.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				err = l.conn.WriteMessage(ws.TextMessage, msg)
			}
		}
		if err != nil {
			c.log.Warn("Runtime write failed", "error", err)
			c.lost(l)
			return
		}
	}
}

func (c *connection) read(l *link) {
	for {
		_, msg, err := l.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("Runtime read failed", "error", err)
				c.lost(l)
			}
			return
		}
		c.route(msg)
	}
}

// route decodes one envelope and hands it to the matching handler.
func (c *connection) route(msg []byte) {
	var env streaming.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		c.log.Debug("Malformed message received", "raw", string(msg))
		return
	}

	switch env.Type {
	case streaming.TypeHello:
		var hello streaming.HelloPayload
		if err := json.Unmarshal(env.Payload, &hello); err != nil {
			c.log.Warn("Malformed hello", "error", err)
			return
		}
		c.h.onHello(hello)
	case streaming.TypeResult:
		var res streaming.ResultPayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &res); err != nil {
				res = streaming.ResultPayload{Error: "malformed result: " + err.Error()}
			}
		}
		c.h.onResult(env.ID, res)
	case streaming.TypeEvent:
		var ev streaming.EventPayload
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			c.log.Warn("Malformed event", "error", err)
			return
		}
		c.h.onEvent(ev)
	default:
		c.log.Debug("Unexpected message type", "type", env.Type)
	}
}

// lost retires l, fails in-flight calls and starts redialing. Only the
// first caller for a given link does anything.
func (c *connection) lost(l *link) {
	c.mu.Lock()
	if c.closed || c.live != l || c.redialing {
		c.mu.Unlock()
		return
	}
	c.live = nil
	c.redialing = true
	close(l.stop)
	c.mu.Unlock()

	_ = l.conn.Close()
	c.h.onDrop()
	go c.redial()
}

func nextBackoff(d time.Duration) time.Duration {
	return min(2*d, maxBackoff)
}

// redial retries the endpoint with exponential backoff. The runtime
// greets every new socket with a hello.
func (c *connection) redial() {
	defer func() {
		c.mu.Lock()
		c.redialing = false
		c.mu.Unlock()
	}()

	wait := c.backoff
	for attempt := 1; attempt <= c.maxReconnect; attempt++ {
		c.log.Info("Reconnecting to runtime", "attempt", attempt, "backoff", wait)
		select {
		case <-c.done:
			return
		case <-time.After(wait):
		}

		conn, _, err := ws.DefaultDialer.Dial(c.endpoint, nil)
		if err != nil {
			c.log.Warn("Reconnect failed", "attempt", attempt, "error", err)
			wait = nextBackoff(wait)
			continue
		}
		if c.attach(conn) {
			c.log.Info("Runtime reconnected", "attempt", attempt)
		}
		return
	}
	c.log.Error("Giving up on runtime", "attempts", c.maxReconnect)
}

func (c *connection) connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live != nil
}

// send queues msg for the write goroutine without blocking.
func (c *connection) send(msg []byte) error {
	select {
	case <-c.done:
		return ErrDisconnected
	default:
	}
	select {
	case c.outbox <- msg:
		return nil
	default:
		return errOutboxFull
	}
}

// close says goodbye to the runtime and stops every goroutine.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	l := c.live
	c.live = nil
	c.mu.Unlock()

	if l == nil {
		return nil
	}
	_ = l.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return l.conn.Close()
}
