package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

func TestContext_Lifecycle(t *testing.T) {
	c := NewContext()
	assert.Nil(t, c.Current())
	assert.Nil(t, c.End())
	assert.Empty(t, c.LogAttrs())

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	s := c.Start("maze", "1.2.0", streaming.HelloPayload{Robot: core.RobotBOLT, Firmware: "5.0", Runtime: "sim"})
	_, err := uuid.Parse(s.UUID)
	require.NoError(t, err)
	assert.Equal(t, "maze", s.Program)
	assert.Equal(t, core.RobotBOLT, s.Robot)
	assert.Equal(t, "5.0", s.Firmware)
	assert.Equal(t, start, s.StartTime)
	assert.Same(t, s, c.Current())

	attrs := c.LogAttrs()
	require.Len(t, attrs, 2)
	assert.Equal(t, s.UUID, attrs[0].Value.String())
	assert.Equal(t, "BOLT", attrs[1].Value.String())

	c.now = func() time.Time { return start.Add(time.Minute) }
	ended := c.End()
	require.NotNil(t, ended)
	assert.Equal(t, time.Minute, ended.EndTime.Sub(ended.StartTime))
	assert.Nil(t, c.Current())
}

func TestContext_UniqueIDs(t *testing.T) {
	c := NewContext()
	a := c.Start("a", "", streaming.HelloPayload{Robot: core.RobotMini})
	b := c.Start("b", "", streaming.HelloPayload{Robot: core.RobotMini})
	assert.NotEqual(t, a.UUID, b.UUID)
}

func TestContext_ThreadSafe(t *testing.T) {
	c := NewContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Start("p", "", streaming.HelloPayload{Robot: core.RobotSphero})
		}()
		go func() {
			defer wg.Done()
			_ = c.LogAttrs()
			_ = c.Current()
		}()
	}
	wg.Wait()
	assert.NotNil(t, c.Current())
}
