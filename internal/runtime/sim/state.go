package sim

import (
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// State is a snapshot of the simulated robot.
type State struct {
	Robot         core.RobotType
	Heading       float64
	Speed         int
	Stabilization bool
	Location      core.Vector2
	Distance      float64
	Elapsed       float64

	MainLed      core.Color
	BackLed      core.BackLed
	BackLedColor core.Color
	FrontLed     core.Color
	RVR          core.RVRLeds

	Matrix             [core.MatrixSize][core.MatrixSize]core.Color
	Rotation           core.MatrixRotation
	Character          string
	Scrolling          string
	Animations         int
	Player             PlayerState
	PlayerIndex        int
	PlayerFrame        int
	FPSOverride        int
	TransitionOverride *core.MatrixAnimationTransition

	CompassCalibrated bool
	Charging          bool

	IRMode      string
	IRNear      core.IRChannel
	IRFar       core.IRChannel
	IRListening bool
	IRSent      []streaming.IRMessageArgs
	LastIR      int

	DomePosition  float64
	Stance        string
	Waddle        bool
	HoloProjector int
	LogicDisplay  int
	DomeLeds      int
	Speaking      string
	LastAnimation string
	LastSound     string
	Exited        bool
}

// Snapshot returns the current state.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()

	st := State{
		Robot:              s.opts.Robot,
		Heading:            s.heading,
		Speed:              s.speed,
		Stabilization:      s.stabilization,
		Location:           s.location,
		Distance:           s.distance,
		Elapsed:            s.elapsed,
		MainLed:            s.mainLed,
		BackLed:            s.backLed,
		BackLedColor:       s.backLedColor,
		FrontLed:           s.frontLed,
		RVR:                s.rvr,
		Matrix:             s.matrix,
		Rotation:           s.rotation,
		Character:          s.character,
		Scrolling:          s.scrolling,
		Animations:         len(s.animations),
		PlayerIndex:        -1,
		FPSOverride:        s.fpsOverride,
		TransitionOverride: s.transitionOverride,
		CompassCalibrated:  s.compassCalibrated,
		Charging:           s.charging,
		IRMode:             s.irMode,
		IRNear:             s.irNear,
		IRFar:              s.irFar,
		IRListening:        s.irListening,
		IRSent:             append([]streaming.IRMessageArgs(nil), s.irSent...),
		LastIR:             s.lastIR,
		DomePosition:       s.domePosition,
		Stance:             s.stance,
		Waddle:             s.waddle,
		HoloProjector:      s.holoProjector,
		LogicDisplay:       s.logicDisplay,
		DomeLeds:           s.domeLeds,
		Speaking:           s.speaking,
		LastAnimation:      s.lastAnimation,
		LastSound:          s.lastSound,
		Exited:             s.exited,
	}
	if s.player != nil {
		st.Player = s.player.State
		st.PlayerIndex = s.player.index
		st.PlayerFrame = s.player.frame
	}
	return st
}
