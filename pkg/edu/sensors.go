package edu

import (
	"context"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// get calls a no-argument getter and decodes its value into T.
func get[T any](ctx context.Context, r *Robot, name string) (T, error) {
	var out T
	err := r.call(ctx, name, nil, &out)
	return out, err
}

// GetLocation returns the position in cm relative to where the program started.
func (r *Robot) GetLocation(ctx context.Context) (core.Vector2, error) {
	return get[core.Vector2](ctx, r, streaming.CmdGetLocation)
}

// GetVelocity returns the velocity in cm/s.
func (r *Robot) GetVelocity(ctx context.Context) (core.Vector2, error) {
	return get[core.Vector2](ctx, r, streaming.CmdGetVelocity)
}

func (r *Robot) GetOrientation(ctx context.Context) (core.Orientation, error) {
	return get[core.Orientation](ctx, r, streaming.CmdGetOrientation)
}

// GetAcceleration returns acceleration in g.
func (r *Robot) GetAcceleration(ctx context.Context) (core.Vector3, error) {
	return get[core.Vector3](ctx, r, streaming.CmdGetAcceleration)
}

func (r *Robot) GetVerticalAcceleration(ctx context.Context) (float64, error) {
	return get[float64](ctx, r, streaming.CmdGetVerticalAcceleration)
}

// GetGyroscope returns rotation rates in degrees per second.
func (r *Robot) GetGyroscope(ctx context.Context) (core.Orientation, error) {
	return get[core.Orientation](ctx, r, streaming.CmdGetGyroscope)
}

// GetDistance returns the total distance driven in cm.
func (r *Robot) GetDistance(ctx context.Context) (float64, error) {
	return get[float64](ctx, r, streaming.CmdGetDistance)
}

func (r *Robot) GetSpeed(ctx context.Context) (int, error) {
	return get[int](ctx, r, streaming.CmdGetSpeed)
}

func (r *Robot) GetHeading(ctx context.Context) (float64, error) {
	return get[float64](ctx, r, streaming.CmdGetHeading)
}

func (r *Robot) GetRawMotor(ctx context.Context) (core.RawMotor, error) {
	return get[core.RawMotor](ctx, r, streaming.CmdGetRawMotor)
}

func (r *Robot) GetStabilization(ctx context.Context) (bool, error) {
	return get[bool](ctx, r, streaming.CmdGetStabilization)
}

// GetColor returns the color under the RVR color sensor.
func (r *Robot) GetColor(ctx context.Context) (core.Color, error) {
	var out core.Color
	err := r.call(ctx, streaming.CmdGetColor, streaming.ColorChannelArgs{}, &out)
	return out, err
}

// GetColorChannel returns one channel of the color sensor reading.
func (r *Robot) GetColorChannel(ctx context.Context, ch core.ColorChannel) (uint8, error) {
	args := streaming.ColorChannelArgs{Channel: ch}
	if !ch.Valid() {
		return 0, r.reject(streaming.CmdGetColor, args,
			&core.RangeError{Op: streaming.CmdGetColor, Param: "channel", Value: string(ch), Min: core.ChannelRed, Max: core.ChannelBlue})
	}
	var out uint8
	err := r.call(ctx, streaming.CmdGetColor, args, &out)
	return out, err
}

// ListenForColorSensor starts color sensing; readings arrive as OnColor events.
func (r *Robot) ListenForColorSensor(ctx context.Context) error {
	return r.call(ctx, streaming.CmdListenForColor, nil, nil)
}

// GetLuminosity returns the ambient light level in lux (BOLT).
func (r *Robot) GetLuminosity(ctx context.Context) (float64, error) {
	return get[float64](ctx, r, streaming.CmdGetLuminosity)
}

// CalibrateCompass spins the robot to find magnetic north (BOLT). It must
// succeed before SetCompassDirection or GetCompassDirection.
func (r *Robot) CalibrateCompass(ctx context.Context) error {
	if err := r.call(ctx, streaming.CmdCalibrateCompass, nil, nil); err != nil {
		return err
	}
	r.calibrated.Store(true)
	return nil
}

// SetCompassDirection turns the robot to face a compass bearing.
func (r *Robot) SetCompassDirection(ctx context.Context, degrees float64) error {
	args := streaming.DegreesArgs{Degrees: degrees}
	if err := r.checkCompass(streaming.CmdSetCompassDirection); err != nil {
		return r.reject(streaming.CmdSetCompassDirection, args, err)
	}
	if err := checkDegrees(streaming.CmdSetCompassDirection, "degrees", degrees); err != nil {
		return r.reject(streaming.CmdSetCompassDirection, args, err)
	}
	return r.call(ctx, streaming.CmdSetCompassDirection, args, nil)
}

// GetCompassDirection returns the compass bearing in degrees.
func (r *Robot) GetCompassDirection(ctx context.Context) (float64, error) {
	if err := r.checkCompass(streaming.CmdGetCompassDirection); err != nil {
		return 0, r.reject(streaming.CmdGetCompassDirection, nil, err)
	}
	return get[float64](ctx, r, streaming.CmdGetCompassDirection)
}

func (r *Robot) checkCompass(op string) error {
	if err := r.requireCapability(op, core.CapCompass); err != nil {
		return err
	}
	if !r.calibrated.Load() {
		return &core.RuntimeError{Op: op, Code: core.CodeNotCalibrated, Message: core.ErrNotCalibrated.Error()}
	}
	return nil
}
