package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/edu"
)

// program is a built-in Sphero Edu program.
type program func(ctx context.Context, r *edu.Robot) error

var programs = map[string]program{
	"square":    squareProgram,
	"lightshow": lightshowProgram,
}

func programNames() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupProgram(name string) (program, error) {
	p, ok := programs[name]
	if !ok {
		return nil, fmt.Errorf("unknown program %q, want one of %v", name, programNames())
	}
	return p, nil
}

var (
	green = core.Color{R: 0, G: 255, B: 0}
	red   = core.Color{R: 255, G: 0, B: 0}
	blue  = core.Color{R: 0, G: 0, B: 255}
	white = core.Color{R: 255, G: 255, B: 255}
)

// squareProgram drives a square and turns red on collision.
func squareProgram(ctx context.Context, r *edu.Robot) error {
	if err := edu.RegisterEvent(r, edu.OnCollision, func() {
		_ = r.SetMainLed(ctx, red)
	}); err != nil {
		return err
	}

	if err := r.SetMainLed(ctx, green); err != nil {
		return err
	}
	if r.GetConnectedRobotType().Supports(core.CapMatrix) {
		if err := r.SetMatrixCharacter(ctx, "S", green); err != nil {
			return err
		}
	}

	for side := 0; side < 4; side++ {
		if err := r.Roll(ctx, float64(side*90), 60, 1.5); err != nil {
			return fmt.Errorf("side %d: %w", side+1, err)
		}
		if err := r.Delay(ctx, 0.25); err != nil {
			return err
		}
	}

	dist, err := r.GetDistance(ctx)
	if err != nil {
		return err
	}
	return r.Speak(ctx, edu.BuildString("Square done after ", int(dist), " cm"), false)
}

// lightshowProgram cycles the lights the robot has.
func lightshowProgram(ctx context.Context, r *edu.Robot) error {
	robot := r.GetConnectedRobotType()

	if err := r.Fade(ctx, blue, white, 1); err != nil {
		return err
	}
	if err := r.Strobe(ctx, r.GetRandomColor(), 0.2, 5); err != nil {
		return err
	}
	if err := r.SetBackLed(ctx, 255); err != nil && !errors.Is(err, core.ErrUnsupported) {
		return err
	}
	if robot.Supports(core.CapMatrix) {
		if err := r.ScrollMatrixText(ctx, "HELLO", blue, 15, true); err != nil {
			return err
		}
	}
	if robot.Supports(core.CapHeadlights) {
		if err := r.SetLeftHeadlightLed(ctx, white); err != nil {
			return err
		}
		if err := r.SetRightHeadlightLed(ctx, white); err != nil {
			return err
		}
	}
	return r.SetMainLed(ctx, core.Color{})
}
