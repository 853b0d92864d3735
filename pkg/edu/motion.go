package edu

import (
	"context"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Roll drives at speed toward heading degrees. With sec > 0 it returns once
// the robot has rolled for sec seconds and stopped; with sec == 0 the robot
// keeps rolling.
func (r *Robot) Roll(ctx context.Context, degrees float64, speed int, sec float64) error {
	args := streaming.RollArgs{Degrees: degrees, Speed: speed, Sec: sec}
	if err := firstErr(
		checkDegrees(streaming.CmdRoll, "degrees", degrees),
		checkSpeed(streaming.CmdRoll, "speed", speed),
		checkDuration(streaming.CmdRoll, sec),
	); err != nil {
		return r.reject(streaming.CmdRoll, args, err)
	}
	return r.call(ctx, streaming.CmdRoll, args, nil)
}

// RawMotor powers the left and right motors directly for sec seconds.
func (r *Robot) RawMotor(ctx context.Context, left, right int, sec float64) error {
	args := streaming.RawMotorArgs{Left: left, Right: right, Sec: sec}
	if err := firstErr(
		checkSpeed(streaming.CmdRawMotor, "left", left),
		checkSpeed(streaming.CmdRawMotor, "right", right),
		checkDuration(streaming.CmdRawMotor, sec),
	); err != nil {
		return r.reject(streaming.CmdRawMotor, args, err)
	}
	return r.call(ctx, streaming.CmdRawMotor, args, nil)
}

// SetSpeed sets the speed without changing the heading.
func (r *Robot) SetSpeed(ctx context.Context, speed int) error {
	args := streaming.SpeedArgs{Speed: speed}
	if err := checkSpeed(streaming.CmdSetSpeed, "speed", speed); err != nil {
		return r.reject(streaming.CmdSetSpeed, args, err)
	}
	return r.call(ctx, streaming.CmdSetSpeed, args, nil)
}

// SetHeading turns the robot to degrees.
func (r *Robot) SetHeading(ctx context.Context, degrees float64) error {
	args := streaming.DegreesArgs{Degrees: degrees}
	if err := checkDegrees(streaming.CmdSetHeading, "degrees", degrees); err != nil {
		return r.reject(streaming.CmdSetHeading, args, err)
	}
	return r.call(ctx, streaming.CmdSetHeading, args, nil)
}

// Spin rotates by degrees over sec seconds. Negative degrees spin counterclockwise.
func (r *Robot) Spin(ctx context.Context, degrees, sec float64) error {
	args := streaming.SpinArgs{Degrees: degrees, Sec: sec}
	if err := checkDuration(streaming.CmdSpin, sec); err != nil {
		return r.reject(streaming.CmdSpin, args, err)
	}
	return r.call(ctx, streaming.CmdSpin, args, nil)
}

// DriveToDistance drives distanceCm toward headingDeg and returns on arrival.
// RVR and RVR+ only.
func (r *Robot) DriveToDistance(ctx context.Context, headingDeg float64, speed int, distanceCm float64) error {
	args := streaming.DriveToDistanceArgs{HeadingDeg: headingDeg, Speed: speed, DistanceCm: distanceCm}
	if err := r.requireCapability(streaming.CmdDriveToDistance, core.CapDriveToDistance); err != nil {
		return r.reject(streaming.CmdDriveToDistance, args, err)
	}
	if err := firstErr(
		checkDegrees(streaming.CmdDriveToDistance, "headingDeg", headingDeg),
		checkRange(streaming.CmdDriveToDistance, "speed", speed, 1, MaxSpeed),
	); err != nil {
		return r.reject(streaming.CmdDriveToDistance, args, err)
	}
	if !(distanceCm > 0) {
		return r.reject(streaming.CmdDriveToDistance, args,
			&core.RangeError{Op: streaming.CmdDriveToDistance, Param: "distanceCm", Value: distanceCm, Min: "> 0", Max: "+Inf"})
	}
	return r.call(ctx, streaming.CmdDriveToDistance, args, nil)
}

// ResetAim makes the current direction read as baseDegrees.
func (r *Robot) ResetAim(ctx context.Context, baseDegrees float64) error {
	args := streaming.DegreesArgs{Degrees: baseDegrees}
	if err := checkDegrees(streaming.CmdResetAim, "baseDegrees", baseDegrees); err != nil {
		return r.reject(streaming.CmdResetAim, args, err)
	}
	return r.call(ctx, streaming.CmdResetAim, args, nil)
}

// SetStabilization turns the self-balancing control on or off.
func (r *Robot) SetStabilization(ctx context.Context, value bool) error {
	return r.call(ctx, streaming.CmdSetStabilization, streaming.BoolArgs{Value: value}, nil)
}

// StopRoll stops the robot. It supersedes any timed maneuver in progress.
func (r *Robot) StopRoll(ctx context.Context) error {
	return r.call(ctx, streaming.CmdStopRoll, nil, nil)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
