package sim

import "github.com/spheroedu/bridge/pkg/core"

// PlayerState is the state of the matrix animation player.
type PlayerState int

const (
	Idle PlayerState = iota
	Running
	Paused
)

func (s PlayerState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "idle"
}

// player steps through the frames of one registered animation on the
// simulated clock.
type player struct {
	State   PlayerState
	index   int
	anim    core.MatrixAnimation
	forever bool
	nowS    float64
	frame   int
}

func newPlayer(index int, anim core.MatrixAnimation, forever bool) *player {
	return &player{State: Running, index: index, anim: anim, forever: forever}
}

// Pause pauses playback.
func (p *player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Resume resumes playback.
func (p *player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Tick advances playback by dt seconds at fps and reports whether the frame changed.
// A non-looping animation stops on its last frame.
func (p *player) Tick(dt float64, fps int) bool {
	if p.State != Running || dt <= 0 || fps <= 0 {
		return false
	}
	p.nowS += dt

	n := len(p.anim.Frames)
	frame := int(p.nowS * float64(fps))
	if frame >= n {
		if p.forever {
			frame %= n
		} else {
			frame = n - 1
			p.State = Idle
		}
	}
	if frame == p.frame {
		return false
	}
	p.frame = frame
	return true
}
