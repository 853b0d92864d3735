package convert

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/pkg/core"
)

func TestSessionRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := core.Session{
		ID:        7,
		UUID:      "4b8f5f0e-5a7c-4a55-9a9d-5c6f1e0b2a11",
		Program:   "square",
		Robot:     core.RobotBOLT,
		Firmware:  "5.1.0",
		Runtime:   "sim",
		StartTime: start,
		Version:   "dev",
	}

	g := CoreToSession(s, "Lesson")
	assert.Equal(t, uint(7), g.ID)
	assert.Equal(t, "BOLT", g.Robot)
	assert.Equal(t, "Lesson", g.Tag)
	assert.False(t, g.EndTime.Valid)

	s.EndTime = start.Add(time.Minute)
	g = CoreToSession(s, "")
	require.True(t, g.EndTime.Valid)
	assert.Equal(t, s, SessionToCore(g))
}

func TestCommandRoundTrip(t *testing.T) {
	c := core.CommandRecord{
		Time:     time.Date(2026, 3, 2, 9, 0, 1, 0, time.UTC),
		Name:     "roll",
		Args:     json.RawMessage(`{"heading":90,"speed":100,"duration":2}`),
		Duration: 1500 * time.Millisecond,
		Error:    "speed out of range",
		Code:     "out_of_range",
	}

	g := CoreToCommand(c)
	assert.Equal(t, 1500.0, g.DurationMs)
	assert.JSONEq(t, string(c.Args), string(g.Args))
	assert.Equal(t, c, CommandToCore(g))
}

func TestCoreToCommand_NoArgs(t *testing.T) {
	g := CoreToCommand(core.CommandRecord{Name: "stopRoll"})
	assert.Equal(t, "{}", string(g.Args))
}

func TestEventRoundTrip(t *testing.T) {
	ch := 3
	e := core.EventRecord{
		Time:    time.Date(2026, 3, 2, 9, 0, 2, 0, time.UTC),
		Event:   core.EventIRMessage,
		Channel: &ch,
		Handled: true,
	}
	g := CoreToEvent(e)
	assert.Equal(t, "onIRMessage", g.Event)
	require.True(t, g.Channel.Valid)
	assert.Equal(t, int32(3), g.Channel.Int32)
	assert.Nil(t, g.Color)
	assert.Equal(t, e, EventToCore(g))

	col := core.Color{R: 255, G: 10}
	e = core.EventRecord{Event: core.EventColor, Color: &col}
	g = CoreToEvent(e)
	assert.False(t, g.Channel.Valid)
	assert.JSONEq(t, `{"r":255,"g":10,"b":0}`, string(g.Color))
	back := EventToCore(g)
	require.NotNil(t, back.Color)
	assert.Equal(t, col, *back.Color)
}

func TestSensorSampleRoundTrip(t *testing.T) {
	s := core.SensorSample{
		Time:         time.Date(2026, 3, 2, 9, 0, 3, 0, time.UTC),
		Location:     core.Vector2{X: 12.5, Y: -4},
		Velocity:     core.Vector2{X: 1, Y: 2},
		Orientation:  core.Orientation{Pitch: 1, Roll: 2, Yaw: 3},
		Acceleration: core.Vector3{X: 0.1, Y: 0.2, Z: 1},
		Gyroscope:    core.Orientation{Yaw: 45},
		Heading:      90,
		Speed:        120,
		Distance:     33,
	}

	g, err := CoreToSensorSample(s)
	require.NoError(t, err)
	xy, ok := g.Location.XY()
	require.True(t, ok)
	assert.Equal(t, 12.5, xy.X)
	assert.Equal(t, s, SensorSampleToCore(g))
}

func TestCoreToSensorSample_InvalidLocation(t *testing.T) {
	_, err := CoreToSensorSample(core.SensorSample{Location: core.Vector2{X: math.NaN(), Y: 1}})
	assert.Error(t, err)
}
