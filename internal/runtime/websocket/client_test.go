package websocket

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/runtime/sim"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

const testSecret = "classroom"

// testRuntime hosts a simulated robot behind an httptest server.
func testRuntime(t *testing.T, robot core.RobotType, scale float64) (*sim.Simulator, *sim.Server, string) {
	t.Helper()
	s, err := sim.New(sim.Options{Robot: robot, Firmware: "9.9.9", TimeScale: scale})
	require.NoError(t, err)
	srv := sim.NewServer(s, testSecret, nil)
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		_ = srv.Close()
		hs.Close()
		_ = s.Close()
	})
	return s, srv, "ws" + strings.TrimPrefix(hs.URL, "http")
}

func dial(t *testing.T, url string, cfg Config) *Client {
	t.Helper()
	cfg.URL = url
	if cfg.Secret == "" {
		cfg.Secret = testSecret
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDial_Hello(t *testing.T) {
	_, _, url := testRuntime(t, core.RobotBOLT, 0)
	c := dial(t, url, Config{})

	h, err := c.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.RobotBOLT, h.Robot)
	assert.Equal(t, "9.9.9", h.Firmware)
	assert.Equal(t, sim.RuntimeName, h.Runtime)
	assert.True(t, c.Connected())
}

func TestDial_WrongSecret(t *testing.T) {
	_, _, url := testRuntime(t, core.RobotBOLT, 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, Config{URL: url, Secret: "nope"}, nil)
	assert.Error(t, err)
}

func TestCall_RoundTrip(t *testing.T) {
	s, _, url := testRuntime(t, core.RobotBOLT, 0)
	c := dial(t, url, Config{})
	ctx := context.Background()

	want := core.Color{R: 12, G: 34, B: 56}
	require.NoError(t, c.Call(ctx, streaming.CmdSetMainLed, streaming.ColorArgs{Color: want}, nil))

	var got core.Color
	require.NoError(t, c.Call(ctx, streaming.CmdGetMainLed, nil, &got))
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Snapshot().MainLed)

	require.NoError(t, c.Call(ctx, streaming.CmdRoll, streaming.RollArgs{Degrees: 0, Speed: 100, Sec: 1}, nil))
	var loc core.Vector2
	require.NoError(t, c.Call(ctx, streaming.CmdGetLocation, nil, &loc))
	assert.InDelta(t, 100, loc.Y, 1e-6)
}

func TestCall_RuntimeErrorCodes(t *testing.T) {
	_, _, url := testRuntime(t, core.RobotRVR, 0)
	c := dial(t, url, Config{})
	ctx := context.Background()

	err := c.Call(ctx, streaming.CmdSetFrontLed, streaming.ColorArgs{}, nil)
	assert.ErrorIs(t, err, core.ErrUnsupported)

	err = c.Call(ctx, "doABarrelRoll", nil, nil)
	var re *core.RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, core.CodeUnknownCommand, re.Code)
}

func TestEvents(t *testing.T) {
	s, _, url := testRuntime(t, core.RobotBOLT, 0)
	c := dial(t, url, Config{})

	require.NoError(t, s.Trigger(streaming.EventPayload{Event: core.EventCollision}))
	ch := 2
	require.NoError(t, s.Trigger(streaming.EventPayload{Event: core.EventIRMessage, Channel: &ch}))

	for _, want := range []core.EventType{core.EventCollision, core.EventIRMessage} {
		select {
		case ev := <-c.Events():
			assert.Equal(t, want, ev.Event)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %s not received", want)
		}
	}
}

func TestCall_Timeout(t *testing.T) {
	// At time scale 10 a 0.02s roll takes 200ms, well past 20ms + 50ms.
	s, _, url := testRuntime(t, core.RobotSphero, 10)
	c := dial(t, url, Config{CallTimeout: 50 * time.Millisecond})

	err := c.Call(context.Background(), streaming.CmdRoll, streaming.RollArgs{Degrees: 0, Speed: 10, Sec: 0.02}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout after 70ms")

	// A context deadline takes precedence over CallTimeout.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.Call(ctx, streaming.CmdRoll, streaming.RollArgs{Degrees: 0, Speed: 10, Sec: 30}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, s.Close())
}

func TestCall_TimeoutCoversManeuver(t *testing.T) {
	// 3s at time scale 0.1 runs for 300ms, longer than CallTimeout alone.
	s, _, url := testRuntime(t, core.RobotBOLT, 0.1)
	c := dial(t, url, Config{CallTimeout: 100 * time.Millisecond})

	start := time.Now()
	require.NoError(t, c.Call(context.Background(), streaming.CmdRoll, streaming.RollArgs{Degrees: 0, Speed: 100, Sec: 3}, nil))
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
	require.NoError(t, s.Close())
}

func TestCallLimit(t *testing.T) {
	c := New(Config{CallTimeout: time.Second}, nil)
	bg := context.Background()

	assert.Equal(t, time.Second, c.callLimit(bg, streaming.CmdGetLocation, nil))
	assert.Equal(t, 6*time.Second, c.callLimit(bg, streaming.CmdRoll, streaming.RollArgs{Sec: 5}))
	assert.Equal(t, 5*time.Second, c.callLimit(bg, streaming.CmdStrobe, streaming.StrobeArgs{Sec: 0.5, Count: 4}))
	assert.Zero(t, c.callLimit(bg, streaming.CmdDriveToDistance, streaming.DriveToDistanceArgs{DistanceCm: 500}))
	assert.Zero(t, c.callLimit(bg, streaming.CmdSpeak, streaming.SpeakArgs{Message: "hi", Wait: true}))

	ctx, cancel := context.WithTimeout(bg, time.Minute)
	defer cancel()
	assert.Zero(t, c.callLimit(ctx, streaming.CmdRoll, streaming.RollArgs{Sec: 5}))

	assert.Zero(t, New(Config{}, nil).callLimit(bg, streaming.CmdRoll, streaming.RollArgs{Sec: 5}))
}

func TestCall_FailsOnDisconnect(t *testing.T) {
	_, srv, url := testRuntime(t, core.RobotSphero, 1)
	c := dial(t, url, Config{MaxReconnect: 0})

	done := make(chan error, 1)
	go func() {
		done <- c.Call(context.Background(), streaming.CmdRoll, streaming.RollArgs{Degrees: 0, Speed: 10, Sec: 30}, nil)
	}()

	require.Eventually(t, func() bool { return srv.Clients() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	srv.DisconnectAll()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrDisconnected)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call was not failed on disconnect")
	}
}

func TestReconnect(t *testing.T) {
	_, srv, url := testRuntime(t, core.RobotBOLT, 0)
	c := dial(t, url, Config{MaxReconnect: 5, ReconnectBackoff: 10 * time.Millisecond})

	srv.DisconnectAll()
	require.Eventually(t, func() bool { return !c.Connected() }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return c.Connected() && srv.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	var heading float64
	require.NoError(t, c.Call(context.Background(), streaming.CmdGetLocation, nil, &heading))
}

func TestClose(t *testing.T) {
	_, _, url := testRuntime(t, core.RobotBOLT, 0)
	c := dial(t, url, Config{})

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.Call(context.Background(), streaming.CmdGetLocation, nil, nil)
	assert.ErrorIs(t, err, ErrDisconnected)

	_, ok := <-c.Events()
	assert.False(t, ok)
}
