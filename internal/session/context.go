// Package session tracks the program run currently connected to a robot.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Context holds the current session.
type Context struct {
	mu      sync.RWMutex
	session *core.Session
	now     func() time.Time
}

// NewContext creates a Context with no active session.
func NewContext() *Context {
	return &Context{now: time.Now}
}

// Start begins a new session for program on the robot described by hello.
func (c *Context) Start(program, version string, hello streaming.HelloPayload) *core.Session {
	s := &core.Session{
		UUID:      uuid.NewString(),
		Program:   program,
		Robot:     hello.Robot,
		Firmware:  hello.Firmware,
		Runtime:   hello.Runtime,
		StartTime: c.now().UTC(),
		Version:   version,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	return s
}

// End stamps the end time of the current session and returns it.
// It returns nil when no session is active.
func (c *Context) End() *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := c.session
	s.EndTime = c.now().UTC()
	c.session = nil
	return s
}

// Current returns the active session, or nil.
func (c *Context) Current() *core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// LogAttrs returns the session and robot attributes for log records.
// It satisfies logging.ContextProvider.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	return []slog.Attr{
		slog.String("session", c.session.UUID),
		slog.String("robot", string(c.session.Robot)),
	}
}
