// pkg/core/types.go
package core

import (
	"fmt"
	"math"
)

// Color is an RGB color as used by the LEDs and the matrix.
// Each channel is 0-255.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Vector2 is a 2-D value: a matrix pixel coordinate, or a location (cm)
// and velocity (cm/s) in the world frame.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector3 is a 3-D value, used for acceleration (g).
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is an attitude in degrees, or a gyroscope reading in degrees/s.
type Orientation struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
	Yaw   float64 `json:"yaw"`
}

// BackLed is the reading returned by getBackLed. Only the blue channel exists
// on robots with a single-color tail light.
type BackLed struct {
	B uint8 `json:"b"`
}

// RawMotor is the last raw motor power sent to the left and right motors.
type RawMotor struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// RVRLeds holds the colors of the RVR/RVR+ light groups.
type RVRLeds struct {
	Left           Color `json:"left"`
	Right          Color `json:"right"`
	LeftHeadlight  Color `json:"leftHeadlight"`
	RightHeadlight Color `json:"rightHeadlight"`
	Back           Color `json:"back"`
}

// Point returns the pixel coordinate of v, truncating toward zero.
func (v Vector2) Point() (x, y int) {
	return int(v.X), int(v.Y)
}

// Magnitude returns the euclidean length of v.
func (v Vector2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Magnitude returns the euclidean length of v.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ColorChannel selects one channel of a color sensor reading.
type ColorChannel string

const (
	ChannelRed   ColorChannel = "red"
	ChannelGreen ColorChannel = "green"
	ChannelBlue  ColorChannel = "blue"
)

// Valid reports whether c is one of red, green or blue.
func (c ColorChannel) Valid() bool {
	switch c {
	case ChannelRed, ChannelGreen, ChannelBlue:
		return true
	}
	return false
}

// Of returns the channel value of col.
func (c ColorChannel) Of(col Color) (uint8, error) {
	switch c {
	case ChannelRed:
		return col.R, nil
	case ChannelGreen:
		return col.G, nil
	case ChannelBlue:
		return col.B, nil
	}
	return 0, fmt.Errorf("invalid color channel %q", string(c))
}

// ParseColorChannel parses "red", "green" or "blue".
func ParseColorChannel(s string) (ColorChannel, error) {
	c := ColorChannel(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid color channel %q", s)
	}
	return c, nil
}

// IRChannel identifies one of the eight infrared channels.
type IRChannel uint8

// MaxIRChannel is the highest IR channel.
const MaxIRChannel IRChannel = 7

// Valid reports whether ch is in 0-7.
func (ch IRChannel) Valid() bool {
	return ch <= MaxIRChannel
}
