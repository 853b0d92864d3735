package streaming

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/pkg/core"
)

func TestMarshal_CommandEnvelope(t *testing.T) {
	data, err := Marshal(TypeCommand, 42, CommandPayload{
		Name: CmdRoll,
		Args: json.RawMessage(`{"degrees":90,"speed":100,"sec":2}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "command",
		"id": 42,
		"payload": {"name": "roll", "args": {"degrees": 90, "speed": 100, "sec": 2}}
	}`, string(data))
}

func TestMarshal_NilPayload(t *testing.T) {
	data, err := Marshal(TypeHello, 0, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"hello"}`, string(data))
}

func TestMarshal_BadPayload(t *testing.T) {
	_, err := Marshal(TypeEvent, 0, make(chan int))
	assert.Error(t, err)
}

func TestEventPayload_Encoding(t *testing.T) {
	ch := 5
	data, err := json.Marshal(EventPayload{Event: core.EventIRMessage, Channel: &ch})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"onIRMessage","channel":5}`, string(data))

	var ev EventPayload
	require.NoError(t, json.Unmarshal([]byte(`{"event":"onColor","color":{"r":1,"g":2,"b":3}}`), &ev))
	assert.Equal(t, core.EventColor, ev.Event)
	require.NotNil(t, ev.Color)
	assert.Equal(t, core.Color{R: 1, G: 2, B: 3}, *ev.Color)
}

func TestNewResult(t *testing.T) {
	r := NewResult(core.Vector2{X: 1, Y: 2}, nil)
	assert.JSONEq(t, `{"x":1,"y":2}`, string(r.Value))
	assert.NoError(t, r.Err("getLocation"))

	r = NewResult(nil, nil)
	assert.Empty(t, r.Value)
	assert.NoError(t, r.Err("stopRoll"))

	r = NewResult(nil, &core.UnsupportedError{Op: CmdSetFrontLed, Robot: core.RobotRVR})
	assert.Equal(t, core.CodeUnsupported, r.Code)
	err := r.Err(CmdSetFrontLed)
	assert.ErrorIs(t, err, core.ErrUnsupported)

	var re *core.RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, CmdSetFrontLed, re.Op)
}

func TestResultErr_NotCalibrated(t *testing.T) {
	r := ResultPayload{Error: "compass not calibrated", Code: core.CodeNotCalibrated}
	assert.ErrorIs(t, r.Err(CmdSetCompassDirection), core.ErrNotCalibrated)
}

func TestCheckCapability(t *testing.T) {
	assert.NoError(t, CheckCapability(core.RobotBOLT, CmdDrawMatrixPixel))
	assert.NoError(t, CheckCapability(core.RobotSphero, CmdRoll))

	err := CheckCapability(core.RobotSPRK, CmdDrawMatrixPixel)
	assert.ErrorIs(t, err, core.ErrUnsupported)

	assert.ErrorIs(t, CheckCapability(core.RobotBOLT, CmdDriveToDistance), core.ErrUnsupported)
	assert.NoError(t, CheckCapability(core.RobotRVRP, CmdDriveToDistance))
	assert.NoError(t, CheckCapability(core.RobotBB9E, CmdSetDomeLeds))
	assert.ErrorIs(t, CheckCapability(core.RobotBB8, CmdSetDomeLeds), core.ErrUnsupported)

	c, ok := Requires(CmdGetCompassDirection)
	assert.True(t, ok)
	assert.Equal(t, core.CapCompass, c)

	_, ok = Requires(CmdGetHeading)
	assert.False(t, ok)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		args    any
		want    time.Duration
		bounded bool
	}{
		{"roll", CmdRoll, RollArgs{Sec: 5}, 5 * time.Second, true},
		{"roll without duration", CmdRoll, RollArgs{Speed: 50}, 0, true},
		{"raw motor", CmdRawMotor, RawMotorArgs{Sec: 1.5}, 1500 * time.Millisecond, true},
		{"spin", CmdSpin, SpinArgs{Degrees: 360, Sec: 2}, 2 * time.Second, true},
		{"fade", CmdFade, FadeArgs{Sec: 0.5}, 500 * time.Millisecond, true},
		{"strobe", CmdStrobe, StrobeArgs{Sec: 0.25, Count: 3}, 1500 * time.Millisecond, true},
		{"negative sec", CmdRoll, RollArgs{Sec: -1}, 0, true},
		{"getter", CmdGetLocation, nil, 0, true},
		{"scroll without wait", CmdScrollMatrixText, ScrollTextArgs{Text: "hi"}, 0, true},
		{"scroll with wait", CmdScrollMatrixText, ScrollTextArgs{Text: "hi", Wait: true}, 0, false},
		{"speak with wait", CmdSpeak, SpeakArgs{Message: "hi", Wait: true}, 0, false},
		{"sound with wait", CmdPlaySound, SoundArgs{Wait: true}, 0, false},
		{"drive to distance", CmdDriveToDistance, DriveToDistanceArgs{DistanceCm: 100}, 0, false},
		{"calibrate compass", CmdCalibrateCompass, nil, 0, false},
		{"animation", CmdPlayAnimation, AnimationArgs{Droid: "R2D2"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, bounded := Duration(tt.cmd, tt.args)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.bounded, bounded)
		})
	}
}
