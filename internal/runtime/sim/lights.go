package sim

import (
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

func (s *Simulator) setMainLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainLed = a.Color
	return nil, nil
}

func maxChannel(c core.Color) uint8 {
	return max(c.R, c.G, c.B)
}

// setBackLed takes either an intensity or, on robots with an RGB tail light, a color.
func (s *Simulator) setBackLed(a streaming.BackLedArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case a.Color != nil:
		if !s.opts.Robot.Supports(core.CapBackLedColor) {
			return nil, &core.UnsupportedError{Op: streaming.CmdSetBackLed, Robot: s.opts.Robot}
		}
		s.backLedColor = *a.Color
		s.backLed = core.BackLed{B: maxChannel(*a.Color)}
		if s.opts.Robot.Supports(core.CapRVRLeds) {
			s.rvr.Back = *a.Color
		}
	case a.Intensity != nil:
		if *a.Intensity < 0 || *a.Intensity > 255 {
			return nil, &core.RangeError{Op: streaming.CmdSetBackLed, Param: "intensity", Value: *a.Intensity, Min: 0, Max: 255}
		}
		s.backLed = core.BackLed{B: uint8(*a.Intensity)}
		s.backLedColor = core.Color{B: uint8(*a.Intensity)}
	}
	return nil, nil
}

func (s *Simulator) setFrontLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frontLed = a.Color
	return nil, nil
}

// strobe flashes the main LED count times, each flash lasting sec.
func (s *Simulator) strobe(a streaming.StrobeArgs) (any, error) {
	s.mu.Lock()
	previous := s.mainLed
	s.mainLed = a.Color
	s.mu.Unlock()

	err := s.wait(s.life, a.Sec*float64(a.Count))

	s.mu.Lock()
	s.mainLed = previous
	s.mu.Unlock()
	return nil, err
}

func (s *Simulator) fade(a streaming.FadeArgs) (any, error) {
	s.mu.Lock()
	s.mainLed = a.From
	s.mu.Unlock()

	err := s.wait(s.life, a.Sec)

	s.mu.Lock()
	s.mainLed = a.To
	s.mu.Unlock()
	return nil, err
}

func (s *Simulator) setRightLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rvr.Right = a.Color
	return nil, nil
}

func (s *Simulator) setLeftLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rvr.Left = a.Color
	return nil, nil
}

func (s *Simulator) setRightHeadlightLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rvr.RightHeadlight = a.Color
	return nil, nil
}

func (s *Simulator) setLeftHeadlightLed(a streaming.ColorArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rvr.LeftHeadlight = a.Color
	return nil, nil
}

func (s *Simulator) getMainLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainLed, nil
}

func (s *Simulator) getBackLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backLed, nil
}

func (s *Simulator) getFrontLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frontLed, nil
}

func (s *Simulator) getRVRLeds() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rvr, nil
}

func (s *Simulator) getLeftHeadlightLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rvr.LeftHeadlight, nil
}

func (s *Simulator) getRightHeadlightLed() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rvr.RightHeadlight, nil
}

func (s *Simulator) getSideLed1() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sideLed1, nil
}

func (s *Simulator) getSideLed2() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sideLed2, nil
}

func (s *Simulator) getDoorLed1() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doorLed1, nil
}

func (s *Simulator) getDoorLed2() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doorLed2, nil
}
