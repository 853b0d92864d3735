package sim

import (
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/streaming"
)

// IR messages share the channel numbering.
const maxIRMessage = int(core.MaxIRChannel)

// IR modes.
const (
	IRBroadcast = "broadcast"
	IRFollow    = "follow"
	IREvade     = "evade"
)

func startIR(mode, op string) func(*Simulator, streaming.IRChannelsArgs) (any, error) {
	return func(s *Simulator, a streaming.IRChannelsArgs) (any, error) {
		if !a.Near.Valid() || !a.Far.Valid() {
			return nil, &core.RangeError{Op: op, Param: "channel", Value: max(a.Near, a.Far), Min: 0, Max: core.MaxIRChannel}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.irMode = mode
		s.irNear, s.irFar = a.Near, a.Far
		return nil, nil
	}
}

func stopIR(mode string) func(*Simulator) (any, error) {
	return func(s *Simulator) (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.irMode == mode {
			s.irMode = ""
		}
		return nil, nil
	}
}

func (s *Simulator) sendIRMessage(a streaming.IRMessageArgs) (any, error) {
	if a.Message < 0 || a.Message > maxIRMessage {
		return nil, &core.RangeError{Op: streaming.CmdSendIRMessage, Param: "message", Value: a.Message, Min: 0, Max: maxIRMessage}
	}
	if a.Intensity < 1 || a.Intensity > 64 {
		return nil, &core.RangeError{Op: streaming.CmdSendIRMessage, Param: "intensity", Value: a.Intensity, Min: 1, Max: 64}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.irSent = append(s.irSent, a)
	return nil, nil
}

func (s *Simulator) listenForIRMessage() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.irListening = true
	return nil, nil
}

// getLastIRMessage returns -1 when no message has arrived yet.
func (s *Simulator) getLastIRMessage() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIR, nil
}
