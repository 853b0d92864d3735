package edu

import (
	"context"

	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// StartIRBroadcast broadcasts on a near and a far channel so other robots
// can follow or evade this one.
func (r *Robot) StartIRBroadcast(ctx context.Context, near, far core.IRChannel) error {
	return r.irChannels(ctx, streaming.CmdStartIRBroadcast, near, far)
}

// StartIRFollow follows a robot broadcasting on the given channels.
func (r *Robot) StartIRFollow(ctx context.Context, near, far core.IRChannel) error {
	return r.irChannels(ctx, streaming.CmdStartIRFollow, near, far)
}

// StartIREvade drives away from a robot broadcasting on the given channels.
func (r *Robot) StartIREvade(ctx context.Context, near, far core.IRChannel) error {
	return r.irChannels(ctx, streaming.CmdStartIREvade, near, far)
}

func (r *Robot) StopIRBroadcast(ctx context.Context) error {
	return r.call(ctx, streaming.CmdStopIRBroadcast, nil, nil)
}

func (r *Robot) StopIRFollow(ctx context.Context) error {
	return r.call(ctx, streaming.CmdStopIRFollow, nil, nil)
}

func (r *Robot) StopIREvade(ctx context.Context) error {
	return r.call(ctx, streaming.CmdStopIREvade, nil, nil)
}

// SendIRMessage sends message (0-7) at intensity (1-64).
func (r *Robot) SendIRMessage(ctx context.Context, message, intensity int) error {
	args := streaming.IRMessageArgs{Message: message, Intensity: intensity}
	if err := firstErr(
		checkRange(streaming.CmdSendIRMessage, "message", message, MinIRMessage, MaxIRMessage),
		checkRange(streaming.CmdSendIRMessage, "intensity", intensity, MinIRIntensity, MaxIRIntensity),
	); err != nil {
		return r.reject(streaming.CmdSendIRMessage, args, err)
	}
	return r.call(ctx, streaming.CmdSendIRMessage, args, nil)
}

// ListenForIRMessage starts IR reception; messages arrive as OnIRMessage events.
func (r *Robot) ListenForIRMessage(ctx context.Context) error {
	return r.call(ctx, streaming.CmdListenForIR, nil, nil)
}

// GetLastIRMessage returns the last received channel, or -1 if none has arrived.
func (r *Robot) GetLastIRMessage(ctx context.Context) (int, error) {
	return get[int](ctx, r, streaming.CmdGetLastIRMessage)
}

func (r *Robot) irChannels(ctx context.Context, name string, near, far core.IRChannel) error {
	args := streaming.IRChannelsArgs{Near: near, Far: far}
	for _, ch := range []struct {
		param string
		v     core.IRChannel
	}{{"nearChannel", near}, {"farChannel", far}} {
		if !ch.v.Valid() {
			return r.reject(name, args, &core.RangeError{Op: name, Param: ch.param, Value: int(ch.v), Min: 0, Max: int(core.MaxIRChannel)})
		}
	}
	return r.call(ctx, name, args, nil)
}
