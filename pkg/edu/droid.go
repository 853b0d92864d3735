package edu

import (
	"context"
	"fmt"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// Stance is the leg configuration of R2-D2 and R2-Q5.
type Stance string

const (
	StanceBipod  Stance = streaming.StanceBipod
	StanceTripod Stance = streaming.StanceTripod
)

// SetDomePosition turns the dome to degrees in [-160, 180].
func (r *Robot) SetDomePosition(ctx context.Context, degrees float64) error {
	args := streaming.DegreesArgs{Degrees: degrees}
	if err := checkRange(streaming.CmdSetDomePosition, "degrees", degrees, MinDomePosition, MaxDomePosition); err != nil {
		return r.reject(streaming.CmdSetDomePosition, args, err)
	}
	return r.call(ctx, streaming.CmdSetDomePosition, args, nil)
}

func (r *Robot) SetStance(ctx context.Context, s Stance) error {
	args := streaming.StanceArgs{Stance: string(s)}
	if s != StanceBipod && s != StanceTripod {
		return r.reject(streaming.CmdSetStance, args,
			fmt.Errorf("%s: unknown stance %q: %w", streaming.CmdSetStance, s, core.ErrOutOfRange))
	}
	return r.call(ctx, streaming.CmdSetStance, args, nil)
}

func (r *Robot) SetWaddle(ctx context.Context, on bool) error {
	return r.call(ctx, streaming.CmdSetWaddle, streaming.BoolArgs{Value: on}, nil)
}

func (r *Robot) SetHoloProjectorLed(ctx context.Context, intensity int) error {
	return r.intensity(ctx, streaming.CmdSetHoloProjectorLed, intensity, MaxIntensity)
}

func (r *Robot) SetLogicDisplayLeds(ctx context.Context, intensity int) error {
	return r.intensity(ctx, streaming.CmdSetLogicDisplayLeds, intensity, MaxIntensity)
}

// SetDomeLeds sets the BB-9E dome light brightness in [0, 15].
func (r *Robot) SetDomeLeds(ctx context.Context, intensity int) error {
	return r.intensity(ctx, streaming.CmdSetDomeLeds, intensity, MaxDomeLeds)
}

func (r *Robot) GetDomeLeds(ctx context.Context) (int, error) {
	return get[int](ctx, r, streaming.CmdGetDomeLeds)
}

func (r *Robot) GetHoloProjectorLed(ctx context.Context) (int, error) {
	return get[int](ctx, r, streaming.CmdGetHoloProjectorLed)
}

func (r *Robot) GetLogicDisplayLeds(ctx context.Context) (int, error) {
	return get[int](ctx, r, streaming.CmdGetLogicDisplayLeds)
}

func (r *Robot) intensity(ctx context.Context, name string, v, hi int) error {
	args := streaming.IntensityArgs{Intensity: v}
	if err := checkRange(name, "intensity", v, 0, hi); err != nil {
		return r.reject(name, args, err)
	}
	return r.call(ctx, name, args, nil)
}
