package edu

import (
	"context"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// SetMainLed sets the main LED color.
func (r *Robot) SetMainLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetMainLed, streaming.ColorArgs{Color: c}, nil)
}

// SetBackLed sets the brightness of the back (aiming) LED.
func (r *Robot) SetBackLed(ctx context.Context, intensity int) error {
	args := streaming.BackLedArgs{Intensity: &intensity}
	if err := checkIntensity(streaming.CmdSetBackLed, "intensity", intensity); err != nil {
		return r.reject(streaming.CmdSetBackLed, args, err)
	}
	return r.call(ctx, streaming.CmdSetBackLed, args, nil)
}

// SetBackLedColor sets the color of an RGB tail light (BOLT, RVR and RVR+).
func (r *Robot) SetBackLedColor(ctx context.Context, c core.Color) error {
	args := streaming.BackLedArgs{Color: &c}
	if err := r.requireCapability(streaming.CmdSetBackLed, core.CapBackLedColor); err != nil {
		return r.reject(streaming.CmdSetBackLed, args, err)
	}
	return r.call(ctx, streaming.CmdSetBackLed, args, nil)
}

// SetFrontLed sets the front LED color (BOLT).
func (r *Robot) SetFrontLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetFrontLed, streaming.ColorArgs{Color: c}, nil)
}

// Strobe flashes the main LED count times, sec seconds per flash.
func (r *Robot) Strobe(ctx context.Context, c core.Color, sec float64, count int) error {
	args := streaming.StrobeArgs{Color: c, Sec: sec, Count: count}
	if err := firstErr(
		checkDuration(streaming.CmdStrobe, sec),
		checkRange(streaming.CmdStrobe, "count", count, 1, int(^uint(0)>>1)),
	); err != nil {
		return r.reject(streaming.CmdStrobe, args, err)
	}
	return r.call(ctx, streaming.CmdStrobe, args, nil)
}

// Fade blends the main LED from one color to another over sec seconds.
func (r *Robot) Fade(ctx context.Context, from, to core.Color, sec float64) error {
	args := streaming.FadeArgs{From: from, To: to, Sec: sec}
	if err := checkDuration(streaming.CmdFade, sec); err != nil {
		return r.reject(streaming.CmdFade, args, err)
	}
	return r.call(ctx, streaming.CmdFade, args, nil)
}

// SetRightLed sets the right side light group (RVR and RVR+).
func (r *Robot) SetRightLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetRightLed, streaming.ColorArgs{Color: c}, nil)
}

// SetLeftLed sets the left side light group (RVR and RVR+).
func (r *Robot) SetLeftLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetLeftLed, streaming.ColorArgs{Color: c}, nil)
}

func (r *Robot) SetRightHeadlightLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetRightHeadlightLed, streaming.ColorArgs{Color: c}, nil)
}

func (r *Robot) SetLeftHeadlightLed(ctx context.Context, c core.Color) error {
	return r.call(ctx, streaming.CmdSetLeftHeadlightLed, streaming.ColorArgs{Color: c}, nil)
}

// GetRVRLeds returns every RVR light group.
func (r *Robot) GetRVRLeds(ctx context.Context) (core.RVRLeds, error) {
	var out core.RVRLeds
	err := r.call(ctx, streaming.CmdGetRVRLeds, nil, &out)
	return out, err
}

func (r *Robot) GetMainLed(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetMainLed)
}

func (r *Robot) GetBackLed(ctx context.Context) (core.BackLed, error) {
	var out core.BackLed
	err := r.call(ctx, streaming.CmdGetBackLed, nil, &out)
	return out, err
}

func (r *Robot) GetFrontLed(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetFrontLed)
}

// GetSideLed1, GetSideLed2, GetDoorLed1 and GetDoorLed2 read the R2-Q5 body lights.
func (r *Robot) GetSideLed1(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetSideLed1)
}

func (r *Robot) GetSideLed2(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetSideLed2)
}

func (r *Robot) GetDoorLed1(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetDoorLed1)
}

func (r *Robot) GetDoorLed2(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetDoorLed2)
}

func (r *Robot) GetLeftHeadlightLed(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetLeftHeadlightLed)
}

func (r *Robot) GetRightHeadlightLed(ctx context.Context) (core.Color, error) {
	return r.getColor(ctx, streaming.CmdGetRightHeadlightLed)
}

func (r *Robot) getColor(ctx context.Context, name string) (core.Color, error) {
	var out core.Color
	err := r.call(ctx, name, nil, &out)
	return out, err
}
