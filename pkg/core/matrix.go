// pkg/core/matrix.go
package core

import (
	"encoding/json"
	"fmt"
)

// MatrixSize is the edge length of the BOLT LED matrix.
const MatrixSize = 8

// Matrix animation limits.
const (
	MaxPaletteColors = 16
	MinMatrixFPS     = 1
	MaxMatrixFPS     = 30
	MaxScrollText    = 25
)

// MatrixAnimationTransition is the transition between animation frames.
type MatrixAnimationTransition int

const (
	TransitionNone MatrixAnimationTransition = iota
	TransitionFade
)

var transitionNames = map[MatrixAnimationTransition]string{
	TransitionNone: "None",
	TransitionFade: "Fade",
}

func (t MatrixAnimationTransition) String() string {
	if s, ok := transitionNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MatrixAnimationTransition(%d)", int(t))
}

// Valid reports whether t is None or Fade.
func (t MatrixAnimationTransition) Valid() bool {
	_, ok := transitionNames[t]
	return ok
}

// MarshalText encodes the transition by name.
func (t MatrixAnimationTransition) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid matrix animation transition %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a transition name.
func (t *MatrixAnimationTransition) UnmarshalText(b []byte) error {
	for k, v := range transitionNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("invalid matrix animation transition %q", string(b))
}

// MatrixRotation is the display rotation of the matrix in degrees.
// The value is the angle itself, not an ordinal.
type MatrixRotation int

const (
	Rotation0   MatrixRotation = 0
	Rotation90  MatrixRotation = 90
	Rotation180 MatrixRotation = 180
	Rotation270 MatrixRotation = 270
)

// MatrixRotations lists every valid rotation.
var MatrixRotations = []MatrixRotation{Rotation0, Rotation90, Rotation180, Rotation270}

// Valid reports whether r is exactly 0, 90, 180 or 270.
func (r MatrixRotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

// ParseMatrixRotation accepts only 0, 90, 180 and 270.
func ParseMatrixRotation(deg int) (MatrixRotation, error) {
	r := MatrixRotation(deg)
	if !r.Valid() {
		return 0, fmt.Errorf("invalid matrix rotation %d: must be 0, 90, 180 or 270", deg)
	}
	return r, nil
}

// UnmarshalJSON rejects numbers outside the rotation set.
func (r *MatrixRotation) UnmarshalJSON(b []byte) error {
	var deg int
	if err := json.Unmarshal(b, &deg); err != nil {
		return err
	}
	v, err := ParseMatrixRotation(deg)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MatrixAnimation is an animation registered with registerMatrixAnimation.
// Frames index into Palette; every frame is 8x8.
type MatrixAnimation struct {
	Frames     [][][]int                 `json:"frames"`
	Palette    []Color                   `json:"palette"`
	FPS        int                       `json:"fps"`
	Transition MatrixAnimationTransition `json:"transition"`
}

// Validate checks frame geometry, palette size, palette indices and fps.
func (a MatrixAnimation) Validate() error {
	if len(a.Frames) == 0 {
		return fmt.Errorf("animation has no frames")
	}
	if len(a.Palette) == 0 || len(a.Palette) > MaxPaletteColors {
		return fmt.Errorf("animation palette must have 1-%d colors, got %d", MaxPaletteColors, len(a.Palette))
	}
	if a.FPS < MinMatrixFPS || a.FPS > MaxMatrixFPS {
		return fmt.Errorf("animation fps must be %d-%d, got %d", MinMatrixFPS, MaxMatrixFPS, a.FPS)
	}
	if !a.Transition.Valid() {
		return fmt.Errorf("invalid matrix animation transition %d", int(a.Transition))
	}
	for i, frame := range a.Frames {
		if len(frame) != MatrixSize {
			return fmt.Errorf("frame %d has %d rows, want %d", i, len(frame), MatrixSize)
		}
		for y, row := range frame {
			if len(row) != MatrixSize {
				return fmt.Errorf("frame %d row %d has %d pixels, want %d", i, y, len(row), MatrixSize)
			}
			for x, idx := range row {
				if idx < 0 || idx >= len(a.Palette) {
					return fmt.Errorf("frame %d pixel (%d,%d) references palette index %d of %d", i, x, y, idx, len(a.Palette))
				}
			}
		}
	}
	return nil
}
