package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixRotation_ExactSet(t *testing.T) {
	for _, deg := range []int{0, 90, 180, 270} {
		r, err := ParseMatrixRotation(deg)
		require.NoError(t, err)
		assert.Equal(t, deg, int(r))
	}
	for _, deg := range []int{1, 2, 3, -90, 45, 360} {
		_, err := ParseMatrixRotation(deg)
		assert.Error(t, err, "rotation %d", deg)
	}
	assert.Len(t, MatrixRotations, 4)
}

func TestMatrixRotation_JSONRejectsOrdinals(t *testing.T) {
	var r MatrixRotation
	require.NoError(t, json.Unmarshal([]byte(`180`), &r))
	assert.Equal(t, Rotation180, r)

	assert.Error(t, json.Unmarshal([]byte(`2`), &r))
}

func TestMatrixAnimationTransition_Values(t *testing.T) {
	assert.Equal(t, 0, int(TransitionNone))
	assert.Equal(t, 1, int(TransitionFade))
	assert.Equal(t, "Fade", TransitionFade.String())

	b, err := json.Marshal(TransitionFade)
	require.NoError(t, err)
	assert.JSONEq(t, `"Fade"`, string(b))

	var tr MatrixAnimationTransition
	require.NoError(t, json.Unmarshal([]byte(`"None"`), &tr))
	assert.Equal(t, TransitionNone, tr)
	assert.Error(t, json.Unmarshal([]byte(`"Wipe"`), &tr))

	_, err = json.Marshal(MatrixAnimationTransition(7))
	assert.Error(t, err)
}

func TestEventType_Members(t *testing.T) {
	want := []string{"onCollision", "onFreefall", "onLanding", "onGyroMax", "onCharging", "onNotCharging", "onIRMessage", "onColor"}
	require.Len(t, EventTypes, len(want))
	for i, e := range EventTypes {
		assert.Equal(t, i, int(e))
		assert.Equal(t, want[i], e.String())

		parsed, err := ParseEventType(want[i])
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
	assert.False(t, EventType(8).Valid())
	_, err := ParseEventType("onExplode")
	assert.Error(t, err)
}

func TestEventType_Capability(t *testing.T) {
	c, ok := EventIRMessage.Capability()
	assert.True(t, ok)
	assert.Equal(t, CapIR, c)

	c, ok = EventColor.Capability()
	assert.True(t, ok)
	assert.Equal(t, CapColorSensor, c)

	_, ok = EventCollision.Capability()
	assert.False(t, ok)
}

func TestShapes_RoundTrip(t *testing.T) {
	type shapes struct {
		Color       Color       `json:"color"`
		Vector2     Vector2     `json:"vector2"`
		Vector3     Vector3     `json:"vector3"`
		Orientation Orientation `json:"orientation"`
	}
	in := shapes{
		Color:       Color{R: 90, G: 255, B: 1},
		Vector2:     Vector2{X: -12.5, Y: 3.25},
		Vector3:     Vector3{X: 0.1, Y: -0.98, Z: 1e-3},
		Orientation: Orientation{Pitch: -4, Roll: 17.5, Yaw: 359.9},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"color": {"r": 90, "g": 255, "b": 1},
		"vector2": {"x": -12.5, "y": 3.25},
		"vector3": {"x": 0.1, "y": -0.98, "z": 0.001},
		"orientation": {"pitch": -4, "roll": 17.5, "yaw": 359.9}
	}`, string(b))

	var out shapes
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestColor_RejectsOutOfRangeChannel(t *testing.T) {
	var c Color
	assert.Error(t, json.Unmarshal([]byte(`{"r": 256, "g": 0, "b": 0}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"r": -1, "g": 0, "b": 0}`), &c))
}

func TestColorChannel(t *testing.T) {
	col := Color{R: 1, G: 2, B: 3}
	for ch, want := range map[ColorChannel]uint8{ChannelRed: 1, ChannelGreen: 2, ChannelBlue: 3} {
		got, err := ch.Of(col)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ColorChannel("alpha").Of(col)
	assert.Error(t, err)

	_, err = ParseColorChannel("purple")
	assert.Error(t, err)
}

func TestIRChannel_Valid(t *testing.T) {
	for ch := IRChannel(0); ch <= 7; ch++ {
		assert.True(t, ch.Valid())
	}
	assert.False(t, IRChannel(8).Valid())
}

func solidFrame(idx int) [][]int {
	frame := make([][]int, MatrixSize)
	for y := range frame {
		frame[y] = make([]int, MatrixSize)
		for x := range frame[y] {
			frame[y][x] = idx
		}
	}
	return frame
}

func TestMatrixAnimation_Validate(t *testing.T) {
	valid := MatrixAnimation{
		Frames:     [][][]int{solidFrame(0), solidFrame(1)},
		Palette:    []Color{{R: 255}, {B: 255}},
		FPS:        6,
		Transition: TransitionNone,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(a *MatrixAnimation)
	}{
		{"no frames", func(a *MatrixAnimation) { a.Frames = nil }},
		{"empty palette", func(a *MatrixAnimation) { a.Palette = nil }},
		{"palette too large", func(a *MatrixAnimation) { a.Palette = make([]Color, 17) }},
		{"fps zero", func(a *MatrixAnimation) { a.FPS = 0 }},
		{"fps too high", func(a *MatrixAnimation) { a.FPS = 31 }},
		{"bad transition", func(a *MatrixAnimation) { a.Transition = 3 }},
		{"short frame", func(a *MatrixAnimation) { a.Frames = [][][]int{solidFrame(0)[:7]} }},
		{"short row", func(a *MatrixAnimation) {
			f := solidFrame(0)
			f[3] = f[3][:5]
			a.Frames = [][][]int{f}
		}},
		{"index outside palette", func(a *MatrixAnimation) { a.Frames = [][][]int{solidFrame(2)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			assert.Error(t, a.Validate())
		})
	}
}

func TestRobotType_Capabilities(t *testing.T) {
	assert.True(t, RobotBOLT.Supports(CapMatrix))
	assert.True(t, RobotBOLT.Supports(CapCompass))
	assert.False(t, RobotRVR.Supports(CapMatrix))
	assert.True(t, RobotRVRP.Supports(CapDriveToDistance))
	assert.False(t, RobotSphero.Supports(CapIR))
	assert.True(t, RobotBB9E.Supports(CapDomeLeds))
	assert.True(t, RobotR2Q5.IsDroid())
	assert.False(t, RobotOllie.IsDroid())

	caps := RobotBOLT.Capabilities()
	caps[0] = CapDome
	assert.True(t, RobotBOLT.Supports(CapMatrix), "Capabilities must return a copy")
}

func TestParseRobotType(t *testing.T) {
	r, err := ParseRobotType("bolt")
	require.NoError(t, err)
	assert.Equal(t, RobotBOLT, r)

	r, err = ParseRobotType("rvr+")
	require.NoError(t, err)
	assert.Equal(t, RobotRVRP, r)

	_, err = ParseRobotType("Roomba")
	assert.Error(t, err)
}

func TestErrors_Unwrap(t *testing.T) {
	var err error = &UnsupportedError{Op: "setFrontLed", Robot: RobotRVR}
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "RVR")

	err = fmt.Errorf("wrapped: %w", &RangeError{Op: "setSpeed", Param: "speed", Value: 300, Min: -255, Max: 255})
	assert.ErrorIs(t, err, ErrOutOfRange)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "speed", re.Param)

	assert.ErrorIs(t, &RuntimeError{Code: CodeNotCalibrated}, ErrNotCalibrated)
	assert.ErrorIs(t, &RuntimeError{Code: CodeUnsupported}, ErrUnsupported)
	assert.ErrorIs(t, &RuntimeError{Code: "boom"}, ErrRuntime)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, CodeUnsupported, CodeOf(&UnsupportedError{}))
	assert.Equal(t, CodeOutOfRange, CodeOf(&RangeError{}))
	assert.Equal(t, CodeNotCalibrated, CodeOf(ErrNotCalibrated))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("x")))
}

func TestCodeOf_RuntimeCodePassesThrough(t *testing.T) {
	err := fmt.Errorf("call: %w", &RuntimeError{Op: "flyAway", Code: CodeUnknownCommand})
	assert.Equal(t, CodeUnknownCommand, CodeOf(err))
}
