package edu

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Delay pauses the program for sec seconds, or until ctx is done.
func (r *Robot) Delay(ctx context.Context, sec float64) error {
	if err := checkDuration("delay", sec); err != nil {
		return err
	}
	t := time.NewTimer(time.Duration(sec * float64(time.Second)))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetCurrentTime returns the runtime's wall clock.
func (r *Robot) GetCurrentTime(ctx context.Context) (time.Time, error) {
	return get[time.Time](ctx, r, streaming.CmdGetCurrentTime)
}

// GetElapsedTime returns the seconds since Connect.
func (r *Robot) GetElapsedTime() float64 {
	return time.Since(r.start).Seconds()
}

// GetConnectedRobotType returns the model reported by the runtime.
func (r *Robot) GetConnectedRobotType() core.RobotType {
	return r.hello.Robot
}

// GetRandomInt returns an integer in [min, max].
func (r *Robot) GetRandomInt(lo, hi int) (int, error) {
	if lo > hi {
		return 0, &core.RangeError{Op: "getRandomInt", Param: "min", Value: lo, Min: math.MinInt, Max: hi}
	}
	// span wraps to 0 when [lo, hi] covers every uint64
	span := uint64(hi) - uint64(lo) + 1
	r.randMu.Lock()
	defer r.randMu.Unlock()
	if span == 0 {
		return int(r.rand.Uint64()), nil
	}
	return int(uint64(lo) + r.rand.Uint64N(span)), nil
}

// GetRandomFloat returns a float in [min, max).
func (r *Robot) GetRandomFloat(lo, hi float64) (float64, error) {
	if !(lo <= hi) {
		return 0, &core.RangeError{Op: "getRandomFloat", Param: "min", Value: lo, Min: math.Inf(-1), Max: hi}
	}
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return lo + r.rand.Float64()*(hi-lo), nil
}

// GetRandomColor returns a uniformly random color.
func (r *Robot) GetRandomColor() core.Color {
	r.randMu.Lock()
	defer r.randMu.Unlock()
	v := r.rand.Uint32()
	return core.Color{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16)}
}

func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// BuildString concatenates the default formatting of each part.
func BuildString(parts ...any) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Speak says message through the app. With wait set it returns once the
// message has been spoken.
func (r *Robot) Speak(ctx context.Context, message string, wait bool) error {
	return r.call(ctx, streaming.CmdSpeak, streaming.SpeakArgs{Message: message, Wait: wait}, nil)
}

// ExitProgram stops the robot and ends the program. Later commands fail.
func (r *Robot) ExitProgram(ctx context.Context) error {
	return r.call(ctx, streaming.CmdExitProgram, nil, nil)
}
