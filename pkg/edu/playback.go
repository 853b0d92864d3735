package edu

import (
	"context"

	"github.com/spheroedu/bridge/pkg/catalog"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// PlayHandle plays a resolved droid animation.
type PlayHandle struct {
	r   *Robot
	key catalog.AnimationKey
}

// Key returns the catalog key the handle plays.
func (h PlayHandle) Key() catalog.AnimationKey {
	return h.key
}

// Play plays the animation and returns when it has finished. A category or
// droid handle lets the robot pick an animation within that level.
func (h PlayHandle) Play(ctx context.Context) error {
	args := streaming.AnimationArgs{Droid: h.key.Droid, Category: h.key.Category, Name: h.key.Name}
	if h.key.Robot != h.r.hello.Robot {
		return h.r.reject(streaming.CmdPlayAnimation, args, &core.UnsupportedError{Op: streaming.CmdPlayAnimation + " " + h.key.String(), Robot: h.r.hello.Robot})
	}
	return h.r.call(ctx, streaming.CmdPlayAnimation, args, nil)
}

// Animation resolves a droid animation such as ("R2D2", "Positive", "Excited").
func (r *Robot) Animation(droid, category, name string) (PlayHandle, error) {
	key, err := r.catalog.Animation(droid, category, name)
	if err != nil {
		return PlayHandle{}, err
	}
	return PlayHandle{r: r, key: key}, nil
}

// AnimationCategory resolves a whole animation category of a droid.
func (r *Robot) AnimationCategory(droid, category string) (PlayHandle, error) {
	key, err := r.catalog.Category(droid, category)
	if err != nil {
		return PlayHandle{}, err
	}
	return PlayHandle{r: r, key: key}, nil
}

// DroidAnimations resolves every animation of a droid.
func (r *Robot) DroidAnimations(droid string) (PlayHandle, error) {
	key, err := r.catalog.Droid(droid)
	if err != nil {
		return PlayHandle{}, err
	}
	return PlayHandle{r: r, key: key}, nil
}

// SoundHandle plays a resolved sound.
type SoundHandle struct {
	r   *Robot
	key catalog.SoundKey
}

func (h SoundHandle) Key() catalog.SoundKey {
	return h.key
}

// Play plays the sound. With wait set it returns once the sound has finished.
func (h SoundHandle) Play(ctx context.Context, wait bool) error {
	return h.r.call(ctx, streaming.CmdPlaySound, streaming.SoundArgs{Path: h.key.Path, Wait: wait}, nil)
}

// Sound resolves a sound path such as ("Game", "Coin"). An empty path is the
// default sound.
func (r *Robot) Sound(path ...string) (SoundHandle, error) {
	key, err := r.catalog.Sound(path...)
	if err != nil {
		return SoundHandle{}, err
	}
	return SoundHandle{r: r, key: key}, nil
}
