package edu

import (
	"math"

	"github.com/spheroedu/bridge/pkg/core"
)

// Documented argument ranges.
const (
	MinSpeed          = -255
	MaxSpeed          = 255
	MaxIntensity      = 255
	MaxDomeLeds       = 15
	MinIRMessage      = 0
	MaxIRMessage      = 7
	MinIRIntensity    = 1
	MaxIRIntensity    = 64
	MinDomePosition   = -160
	MaxDomePosition   = 180
	MaxHeadingDegrees = 360
)

type number interface {
	~int | ~float64
}

func checkRange[T number](op, param string, v, lo, hi T) error {
	if f := float64(v); math.IsNaN(f) || v < lo || v > hi {
		return &core.RangeError{Op: op, Param: param, Value: v, Min: lo, Max: hi}
	}
	return nil
}

func checkDegrees(op, param string, deg float64) error {
	return checkRange(op, param, deg, 0, MaxHeadingDegrees)
}

func checkSpeed(op, param string, speed int) error {
	return checkRange(op, param, speed, MinSpeed, MaxSpeed)
}

func checkIntensity(op, param string, v int) error {
	return checkRange(op, param, v, 0, MaxIntensity)
}

func checkDuration(op string, sec float64) error {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return &core.RangeError{Op: op, Param: "sec", Value: sec, Min: 0, Max: math.Inf(1)}
	}
	return nil
}

func checkPixel(op, param string, p core.Vector2) error {
	if err := checkRange(op, param+".x", p.X, 0, core.MatrixSize-1); err != nil {
		return err
	}
	if err := checkRange(op, param+".y", p.Y, 0, core.MatrixSize-1); err != nil {
		return err
	}
	if p.X != math.Trunc(p.X) || p.Y != math.Trunc(p.Y) {
		return &core.RangeError{Op: op, Param: param, Value: p, Min: 0, Max: core.MatrixSize - 1}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
