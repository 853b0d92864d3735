package sim

import (
	"strings"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Dome travel limits in degrees.
const (
	MinDomePosition = -160
	MaxDomePosition = 180
)

// Playback durations in simulated seconds.
const (
	animationSec   = 1.0
	soundSec       = 0.5
	secondsPerWord = 0.4
)

func (s *Simulator) setDomePosition(a streaming.DegreesArgs) (any, error) {
	if a.Degrees < MinDomePosition || a.Degrees > MaxDomePosition {
		return nil, &core.RangeError{Op: streaming.CmdSetDomePosition, Param: "degrees", Value: a.Degrees, Min: MinDomePosition, Max: MaxDomePosition}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domePosition = a.Degrees
	return nil, nil
}

func (s *Simulator) setStance(a streaming.StanceArgs) (any, error) {
	if a.Stance != streaming.StanceBipod && a.Stance != streaming.StanceTripod {
		return nil, &core.RuntimeError{Op: streaming.CmdSetStance, Code: core.CodeOutOfRange, Message: "unknown stance " + a.Stance}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stance = a.Stance
	return nil, nil
}

func (s *Simulator) setWaddle(a streaming.BoolArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waddle = a.Value
	return nil, nil
}

func (s *Simulator) setHoloProjectorLed(a streaming.IntensityArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holoProjector = a.Intensity
	return nil, nil
}

func (s *Simulator) setLogicDisplayLeds(a streaming.IntensityArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logicDisplay = a.Intensity
	return nil, nil
}

func (s *Simulator) setDomeLeds(a streaming.IntensityArgs) (any, error) {
	if a.Intensity < 0 || a.Intensity > 15 {
		return nil, &core.RangeError{Op: streaming.CmdSetDomeLeds, Param: "intensity", Value: a.Intensity, Min: 0, Max: 15}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domeLeds = a.Intensity
	return nil, nil
}

func (s *Simulator) getDomeLeds() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domeLeds, nil
}

func (s *Simulator) getHoloProjectorLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holoProjector, nil
}

func (s *Simulator) getLogicDisplayLeds() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logicDisplay, nil
}

// playAnimation plays a droid animation. Empty category or name picks one.
func (s *Simulator) playAnimation(a streaming.AnimationArgs) (any, error) {
	key := strings.Trim(strings.Join([]string{a.Droid, a.Category, a.Name}, "/"), "/")
	s.mu.Lock()
	s.lastAnimation = key
	s.mu.Unlock()
	return nil, s.wait(s.life, animationSec)
}

func (s *Simulator) playSound(a streaming.SoundArgs) (any, error) {
	s.mu.Lock()
	s.lastSound = strings.Join(a.Path, ".")
	s.mu.Unlock()
	if !a.Wait {
		return nil, nil
	}
	return nil, s.wait(s.life, soundSec)
}

func (s *Simulator) speak(a streaming.SpeakArgs) (any, error) {
	s.mu.Lock()
	s.speaking = a.Message
	s.mu.Unlock()

	sec := float64(len(strings.Fields(a.Message))) * secondsPerWord
	finish := func() error {
		err := s.wait(s.life, sec)
		s.mu.Lock()
		if s.speaking == a.Message {
			s.speaking = ""
		}
		s.mu.Unlock()
		return err
	}
	if !a.Wait {
		s.background(func() { _ = finish() })
		return nil, nil
	}
	return nil, finish()
}

func (s *Simulator) exitProgram() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.beginManeuver()
	s.finishManeuver(s.maneuver)
	s.stopPlayerLocked()
	s.exited = true
	return nil, nil
}
