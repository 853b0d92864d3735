package edu

import (
	"context"
	"fmt"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// RegisterMatrixAnimation stores an animation on the robot and returns the
// index to pass to PlayMatrixAnimation. Indices are assigned in registration
// order starting at zero.
func (r *Robot) RegisterMatrixAnimation(ctx context.Context, a core.MatrixAnimation) (int, error) {
	args := streaming.RegisterMatrixAnimationArgs{Animation: a}
	if err := r.requireCapability(streaming.CmdRegisterMatrixAnimation, core.CapMatrix); err != nil {
		return 0, r.reject(streaming.CmdRegisterMatrixAnimation, args, err)
	}
	if err := a.Validate(); err != nil {
		return 0, r.reject(streaming.CmdRegisterMatrixAnimation, args,
			fmt.Errorf("%s: %w: %v", streaming.CmdRegisterMatrixAnimation, core.ErrOutOfRange, err))
	}
	var index int
	if err := r.call(ctx, streaming.CmdRegisterMatrixAnimation, args, &index); err != nil {
		return 0, err
	}
	r.animations.Add(1)
	return index, nil
}

// PlayMatrixAnimation plays a registered animation once, or until another
// matrix command replaces it when forever is set.
func (r *Robot) PlayMatrixAnimation(ctx context.Context, index int, forever bool) error {
	args := streaming.PlayMatrixAnimationArgs{Index: index, Forever: forever}
	if err := r.requireCapability(streaming.CmdPlayMatrixAnimation, core.CapMatrix); err != nil {
		return r.reject(streaming.CmdPlayMatrixAnimation, args, err)
	}
	if n := int(r.animations.Load()); index < 0 || index >= n {
		return r.reject(streaming.CmdPlayMatrixAnimation, args,
			&core.RangeError{Op: streaming.CmdPlayMatrixAnimation, Param: "i", Value: index, Min: 0, Max: n - 1})
	}
	return r.call(ctx, streaming.CmdPlayMatrixAnimation, args, nil)
}

func (r *Robot) PauseMatrixAnimation(ctx context.Context) error {
	return r.call(ctx, streaming.CmdPauseMatrixAnimation, nil, nil)
}

func (r *Robot) ResumeMatrixAnimation(ctx context.Context) error {
	return r.call(ctx, streaming.CmdResumeMatrixAnimation, nil, nil)
}

// ClearMatrix stops any animation and turns every pixel off.
func (r *Robot) ClearMatrix(ctx context.Context) error {
	return r.call(ctx, streaming.CmdClearMatrix, nil, nil)
}

// OverrideMatrixAnimationFramerate plays animations at fps instead of their
// own rate. Zero removes the override.
func (r *Robot) OverrideMatrixAnimationFramerate(ctx context.Context, fps int) error {
	args := streaming.FramerateArgs{FPS: fps}
	if err := checkRange(streaming.CmdOverrideMatrixAnimationFramerate, "fps", fps, 0, core.MaxMatrixFPS); err != nil {
		return r.reject(streaming.CmdOverrideMatrixAnimationFramerate, args, err)
	}
	return r.call(ctx, streaming.CmdOverrideMatrixAnimationFramerate, args, nil)
}

// OverrideMatrixAnimationTransition plays animations with t instead of their own transition.
func (r *Robot) OverrideMatrixAnimationTransition(ctx context.Context, t core.MatrixAnimationTransition) error {
	args := streaming.TransitionArgs{Transition: &t}
	if !t.Valid() {
		return r.reject(streaming.CmdOverrideMatrixAnimationTransition, args,
			&core.RangeError{Op: streaming.CmdOverrideMatrixAnimationTransition, Param: "transition", Value: int(t), Min: core.TransitionNone, Max: core.TransitionFade})
	}
	return r.call(ctx, streaming.CmdOverrideMatrixAnimationTransition, args, nil)
}

// ClearMatrixAnimationTransitionOverride restores each animation's own transition.
func (r *Robot) ClearMatrixAnimationTransitionOverride(ctx context.Context) error {
	return r.call(ctx, streaming.CmdOverrideMatrixAnimationTransition, streaming.TransitionArgs{}, nil)
}

// SetMatrixRotation rotates the matrix display. Only 0, 90, 180 and 270 are accepted.
func (r *Robot) SetMatrixRotation(ctx context.Context, rot core.MatrixRotation) error {
	args := streaming.RotationArgs{Rotation: rot}
	if _, err := core.ParseMatrixRotation(int(rot)); err != nil {
		return r.reject(streaming.CmdSetMatrixRotation, args,
			&core.RangeError{Op: streaming.CmdSetMatrixRotation, Param: "rotation", Value: int(rot), Min: core.Rotation0, Max: core.Rotation270})
	}
	return r.call(ctx, streaming.CmdSetMatrixRotation, args, nil)
}

// SetMatrixCharacter shows a single ASCII character.
func (r *Robot) SetMatrixCharacter(ctx context.Context, char string, c core.Color) error {
	args := streaming.CharacterArgs{Character: char, Color: c}
	if len(char) != 1 || !isASCII(char) {
		return r.reject(streaming.CmdSetMatrixCharacter, args,
			fmt.Errorf("%s: %w: want exactly one ASCII character, got %q", streaming.CmdSetMatrixCharacter, core.ErrOutOfRange, char))
	}
	return r.call(ctx, streaming.CmdSetMatrixCharacter, args, nil)
}

// ScrollMatrixText scrolls up to 25 ASCII characters across the matrix. With
// wait set it returns once the text has scrolled off.
func (r *Robot) ScrollMatrixText(ctx context.Context, text string, c core.Color, fps int, wait bool) error {
	args := streaming.ScrollTextArgs{Text: text, Color: c, FPS: fps, Wait: wait}
	if len(text) > core.MaxScrollText || !isASCII(text) {
		return r.reject(streaming.CmdScrollMatrixText, args,
			fmt.Errorf("%s: %w: want at most %d ASCII characters, got %q", streaming.CmdScrollMatrixText, core.ErrOutOfRange, core.MaxScrollText, text))
	}
	if err := checkRange(streaming.CmdScrollMatrixText, "fps", fps, core.MinMatrixFPS, core.MaxMatrixFPS); err != nil {
		return r.reject(streaming.CmdScrollMatrixText, args, err)
	}
	return r.call(ctx, streaming.CmdScrollMatrixText, args, nil)
}

func (r *Robot) DrawMatrixPixel(ctx context.Context, c core.Color, p core.Vector2) error {
	args := streaming.PixelArgs{Color: c, Position: p}
	if err := checkPixel(streaming.CmdDrawMatrixPixel, "position", p); err != nil {
		return r.reject(streaming.CmdDrawMatrixPixel, args, err)
	}
	return r.call(ctx, streaming.CmdDrawMatrixPixel, args, nil)
}

// DrawMatrixLine draws a straight line between two pixels, inclusive.
func (r *Robot) DrawMatrixLine(ctx context.Context, c core.Color, from, to core.Vector2) error {
	return r.segment(ctx, streaming.CmdDrawMatrixLine, c, from, to)
}

// DrawMatrixFill fills the rectangle spanned by two corner pixels.
func (r *Robot) DrawMatrixFill(ctx context.Context, c core.Color, from, to core.Vector2) error {
	return r.segment(ctx, streaming.CmdDrawMatrixFill, c, from, to)
}

func (r *Robot) segment(ctx context.Context, name string, c core.Color, from, to core.Vector2) error {
	args := streaming.SegmentArgs{Color: c, From: from, To: to}
	if err := firstErr(checkPixel(name, "from", from), checkPixel(name, "to", to)); err != nil {
		return r.reject(name, args, err)
	}
	return r.call(ctx, name, args, nil)
}
