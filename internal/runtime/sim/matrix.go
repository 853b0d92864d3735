package sim

import (
	"fmt"
	"math"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

func (s *Simulator) clearPixelsLocked() {
	s.matrix = [core.MatrixSize][core.MatrixSize]core.Color{}
}

// stopPlayerLocked stops animation playback. Drawing replaces any animation.
func (s *Simulator) stopPlayerLocked() {
	s.player = nil
	s.scrolling = ""
	s.character = ""
}

func (s *Simulator) renderFrameLocked() {
	p := s.player
	if p == nil {
		return
	}
	for y, row := range p.anim.Frames[p.frame] {
		for x, idx := range row {
			s.matrix[y][x] = p.anim.Palette[idx]
		}
	}
}

func (s *Simulator) animationFPSLocked() int {
	if s.fpsOverride > 0 {
		return s.fpsOverride
	}
	if s.player == nil {
		return 0
	}
	return s.player.anim.FPS
}

// tickPlayerLocked is driven by the simulated clock.
func (s *Simulator) tickPlayerLocked(sec float64) {
	if s.player != nil && s.player.Tick(sec, s.animationFPSLocked()) {
		s.renderFrameLocked()
	}
}

func inMatrix(p core.Vector2) (int, int, bool) {
	x, y := p.Point()
	return x, y, x >= 0 && x < core.MatrixSize && y >= 0 && y < core.MatrixSize
}

func pixelError(op string, p core.Vector2) error {
	v := p.X
	if x, _ := p.Point(); x >= 0 && x < core.MatrixSize {
		v = p.Y
	}
	return &core.RangeError{Op: op, Param: "position", Value: v, Min: 0, Max: core.MatrixSize - 1}
}

func (s *Simulator) registerMatrixAnimation(a streaming.RegisterMatrixAnimationArgs) (any, error) {
	if err := a.Animation.Validate(); err != nil {
		return nil, &core.RuntimeError{Op: streaming.CmdRegisterMatrixAnimation, Code: core.CodeOutOfRange, Message: err.Error()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animations = append(s.animations, a.Animation)
	return len(s.animations) - 1, nil
}

func (s *Simulator) playMatrixAnimation(a streaming.PlayMatrixAnimationArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Index < 0 || a.Index >= len(s.animations) {
		return nil, &core.RangeError{Op: streaming.CmdPlayMatrixAnimation, Param: "i", Value: a.Index, Min: 0, Max: len(s.animations) - 1}
	}
	s.advance()
	s.stopPlayerLocked()
	s.player = newPlayer(a.Index, s.animations[a.Index], a.Forever)
	s.renderFrameLocked()
	return nil, nil
}

func (s *Simulator) pauseMatrixAnimation() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	if s.player != nil {
		s.player.Pause()
	}
	return nil, nil
}

func (s *Simulator) resumeMatrixAnimation() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	if s.player != nil {
		s.player.Resume()
	}
	return nil, nil
}

func (s *Simulator) clearMatrix() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.stopPlayerLocked()
	s.clearPixelsLocked()
	return nil, nil
}

func (s *Simulator) overrideMatrixAnimationFramerate(a streaming.FramerateArgs) (any, error) {
	if a.FPS < 0 || a.FPS > core.MaxMatrixFPS {
		return nil, &core.RangeError{Op: streaming.CmdOverrideMatrixAnimationFramerate, Param: "fps", Value: a.FPS, Min: 0, Max: core.MaxMatrixFPS}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.fpsOverride = a.FPS
	return nil, nil
}

func (s *Simulator) overrideMatrixAnimationTransition(a streaming.TransitionArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitionOverride = a.Transition
	return nil, nil
}

func (s *Simulator) setMatrixRotation(a streaming.RotationArgs) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotation = a.Rotation
	return nil, nil
}

func (s *Simulator) setMatrixCharacter(a streaming.CharacterArgs) (any, error) {
	if len(a.Character) != 1 {
		return nil, fmt.Errorf("%s: want exactly one character, got %q", streaming.CmdSetMatrixCharacter, a.Character)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.stopPlayerLocked()
	s.clearPixelsLocked()
	s.character = a.Character
	return nil, nil
}

// scrollMatrixText scrolls text across the matrix, one column per frame.
func (s *Simulator) scrollMatrixText(a streaming.ScrollTextArgs) (any, error) {
	if a.FPS < core.MinMatrixFPS || a.FPS > core.MaxMatrixFPS {
		return nil, &core.RangeError{Op: streaming.CmdScrollMatrixText, Param: "fps", Value: a.FPS, Min: core.MinMatrixFPS, Max: core.MaxMatrixFPS}
	}
	s.mu.Lock()
	s.advance()
	s.stopPlayerLocked()
	s.clearPixelsLocked()
	s.scrolling = a.Text
	s.mu.Unlock()

	columns := (len(a.Text) + 1) * core.MatrixSize
	sec := float64(columns) / float64(a.FPS)
	finish := func() error {
		err := s.wait(s.life, sec)
		s.mu.Lock()
		if s.scrolling == a.Text {
			s.scrolling = ""
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

func (s *Simulator) drawMatrixPixel(a streaming.PixelArgs) (any, error) {
	x, y, ok := inMatrix(a.Position)
	if !ok {
		return nil, pixelError(streaming.CmdDrawMatrixPixel, a.Position)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.stopPlayerLocked()
	s.matrix[y][x] = a.Color
	return nil, nil
}

// drawMatrixLine draws a straight line with Bresenham's algorithm.
func (s *Simulator) drawMatrixLine(a streaming.SegmentArgs) (any, error) {
	x0, y0, ok := inMatrix(a.From)
	if !ok {
		return nil, pixelError(streaming.CmdDrawMatrixLine, a.From)
	}
	x1, y1, ok := inMatrix(a.To)
	if !ok {
		return nil, pixelError(streaming.CmdDrawMatrixLine, a.To)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.stopPlayerLocked()

	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		s.matrix[y0][x0] = a.Color
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
	return nil, nil
}

func (s *Simulator) drawMatrixFill(a streaming.SegmentArgs) (any, error) {
	x0, y0, ok := inMatrix(a.From)
	if !ok {
		return nil, pixelError(streaming.CmdDrawMatrixFill, a.From)
	}
	x1, y1, ok := inMatrix(a.To)
	if !ok {
		return nil, pixelError(streaming.CmdDrawMatrixFill, a.To)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
	s.stopPlayerLocked()
	for y := min(y0, y1); y <= max(y0, y1); y++ {
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			s.matrix[y][x] = a.Color
		}
	}
	return nil, nil
}
