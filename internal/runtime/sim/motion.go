package sim

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// velocityLocked is the current velocity in cm/s. Heading 0 drives along +Y,
// heading 90 along +X.
func (s *Simulator) velocityLocked() core.Vector2 {
	if s.speed == 0 {
		return core.Vector2{}
	}
	rad := s.heading * math.Pi / 180
	v := float64(s.speed) * CmPerSpeedUnit
	return core.Vector2{X: v * math.Sin(rad), Y: v * math.Cos(rad)}
}

// advance moves the simulated clock to now.
func (s *Simulator) advance() {
	now := time.Now()
	dt := now.Sub(s.last).Seconds()
	s.last = now
	if s.opts.TimeScale > 0 {
		s.advanceBy(dt / s.opts.TimeScale)
	}
}

// advanceBy integrates motion over sec simulated seconds.
func (s *Simulator) advanceBy(sec float64) {
	v := s.velocityLocked()
	s.location.X += v.X * sec
	s.location.Y += v.Y * sec
	s.distance += v.Magnitude() * sec
	s.elapsed += sec
	if s.yawRate != 0 {
		s.heading = normalizeDegrees(s.heading + s.yawRate*sec)
	}
	s.tickPlayerLocked(sec)
}

// beginManeuver supersedes the running timed maneuver.
func (s *Simulator) beginManeuver() (context.Context, uint64) {
	if s.cancelMove != nil {
		s.cancelMove()
	}
	ctx, cancel := context.WithCancel(s.life)
	s.maneuver++
	s.cancelMove = cancel
	return ctx, s.maneuver
}

// finishManeuver stops the robot unless another maneuver took over.
func (s *Simulator) finishManeuver(id uint64) bool {
	s.advance()
	if s.maneuver != id {
		return false
	}
	s.speed = 0
	s.yawRate = 0
	s.rawMotor = core.RawMotor{}
	if s.cancelMove != nil {
		s.cancelMove()
		s.cancelMove = nil
	}
	return true
}

// timed runs a maneuver for sec seconds. A superseded maneuver resolves
// without error.
func (s *Simulator) timed(sec float64, start func(), done func()) error {
	s.mu.Lock()
	s.advance()
	ctx, id := s.beginManeuver()
	start()
	s.mu.Unlock()

	err := s.wait(ctx, sec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishManeuver(id) && done != nil {
		done()
	}
	if errors.Is(err, context.Canceled) && s.life.Err() == nil {
		return nil
	}
	return err
}

func (s *Simulator) roll(a streaming.RollArgs) (any, error) {
	if a.Sec <= 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.advance()
		s.heading = normalizeDegrees(a.Degrees)
		s.speed = a.Speed
		return nil, nil
	}
	return nil, s.timed(a.Sec, func() {
		s.heading = normalizeDegrees(a.Degrees)
		s.speed = a.Speed
	}, nil)
}

func (s *Simulator) rawMotorCmd(a streaming.RawMotorArgs) (any, error) {
	start := func() {
		s.rawMotor = core.RawMotor{Left: a.Left, Right: a.Right}
		s.speed = (a.Left + a.Right) / 2
		s.yawRate = float64(a.Left-a.Right) * CmPerSpeedUnit
	}
	if a.Sec <= 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.advance()
		start()
		return nil, nil
	}
	return nil, s.timed(a.Sec, start, nil)
}

func (s *Simulator) spin(a streaming.SpinArgs) (any, error) {
	if a.Sec <= 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.advance()
		s.heading = normalizeDegrees(s.heading + a.Degrees)
		return nil, nil
	}
	var target float64
	return nil, s.timed(a.Sec, func() {
		target = normalizeDegrees(s.heading + a.Degrees)
		s.yawRate = a.Degrees / a.Sec
	}, func() {
		s.heading = target
	})
}

func (s *Simulator) driveToDistance(a streaming.DriveToDistanceArgs) (any, error) {
	if a.Speed == 0 || a.DistanceCm <= 0 {
		return nil, &core.RangeError{Op: streaming.CmdDriveToDistance, Param: "distanceCm", Value: a.DistanceCm, Min: 0, Max: math.Inf(1)}
	}
	sec := a.DistanceCm / (math.Abs(float64(a.Speed)) * CmPerSpeedUnit)
	return nil, s.timed(sec, func() {
		s.heading = normalizeDegrees(a.HeadingDeg)
		s.speed = a.Speed
	}, nil)
}

func (s *Simulator) stopRoll() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.beginManeuver()
	s.finishManeuver(s.maneuver)
	return nil, nil
}

func (s *Simulator) setSpeed(a streaming.SpeedArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.speed = a.Speed
	return nil, nil
}

func (s *Simulator) setHeading(a streaming.DegreesArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.heading = normalizeDegrees(a.Degrees)
	return nil, nil
}

// resetAim makes the current direction read as the given base heading.
func (s *Simulator) resetAim(a streaming.DegreesArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.opts.MagneticNorth = normalizeDegrees(s.opts.MagneticNorth + s.heading - a.Degrees)
	s.heading = normalizeDegrees(a.Degrees)
	return nil, nil
}

func (s *Simulator) setStabilization(a streaming.BoolArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stabilization = a.Value
	return nil, nil
}

func (s *Simulator) getLocation() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.location, nil
}

func (s *Simulator) getVelocity() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.velocityLocked(), nil
}

func (s *Simulator) getOrientation() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return core.Orientation{Yaw: s.heading}, nil
}

// getAcceleration reports gravity only; the robot never tilts.
func (s *Simulator) getAcceleration() (any, error) {
	return core.Vector3{Z: 1}, nil
}

func (s *Simulator) getVerticalAcceleration() (any, error) {
	return 1.0, nil
}

func (s *Simulator) getGyroscope() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Orientation{Yaw: s.yawRate}, nil
}

func (s *Simulator) getDistance() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.distance, nil
}

func (s *Simulator) getSpeed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed, nil
}

func (s *Simulator) getHeading() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	return s.heading, nil
}

func (s *Simulator) getRawMotor() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawMotor, nil
}

func (s *Simulator) getStabilization() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stabilization, nil
}

func (s *Simulator) calibrateCompass() (any, error) {
	// Calibration spins the robot in place.
	if err := s.wait(s.life, 2); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compassCalibrated = true
	return nil, nil
}

// setCompassDirection turns the robot to face a compass bearing.
func (s *Simulator) setCompassDirection(a streaming.DegreesArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.compassCalibrated {
		return nil, core.ErrNotCalibrated
	}
	s.advance()
	s.heading = normalizeDegrees(a.Degrees - s.opts.MagneticNorth)
	return nil, nil
}

func (s *Simulator) getCompassDirection() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.compassCalibrated {
		return nil, core.ErrNotCalibrated
	}
	s.advance()
	return normalizeDegrees(s.heading + s.opts.MagneticNorth), nil
}

func (s *Simulator) getLuminosity() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.luminosity, nil
}

func (s *Simulator) getColor(a streaming.ColorChannelArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Channel == "" {
		return s.color, nil
	}
	return a.Channel.Of(s.color)
}

func (s *Simulator) listenForColorSensor() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorListening = true
	return nil, nil
}

func (s *Simulator) getCurrentTime() (any, error) {
	return time.Now(), nil
}
