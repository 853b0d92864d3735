// Package cache holds the latest telemetry of the connected robot so that
// readers (status output, Influx writer) never wait on the runtime.
package cache

import (
	"sync"

	"github.com/spheroedu/bridge/pkg/core"
)

// TelemetryCache caches the most recent sensor sample of the session.
type TelemetryCache struct {
	m       sync.RWMutex
	latest  core.SensorSample
	present bool
	Samples SafeCounter
}

func NewTelemetryCache() *TelemetryCache {
	return &TelemetryCache{}
}

// Set stores s as the latest sample and counts it.
func (c *TelemetryCache) Set(s core.SensorSample) {
	c.m.Lock()
	defer c.m.Unlock()
	c.latest = s
	c.present = true
	c.Samples.Inc()
}

// Latest returns the most recent sample, if any.
func (c *TelemetryCache) Latest() (core.SensorSample, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.latest, c.present
}

func (c *TelemetryCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.latest = core.SensorSample{}
	c.present = false
	c.Samples.Set(0)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
