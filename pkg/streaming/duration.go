package streaming

import "time"

// Duration reports how long the runtime needs to complete a command with
// the given arguments. bounded is false for commands that finish when the
// robot does, such as driveToDistance or a speak that waits; callers must
// not put a fixed deadline on those.
func Duration(name string, args any) (d time.Duration, bounded bool) {
	switch name {
	case CmdDriveToDistance, CmdCalibrateCompass, CmdPlayAnimation:
		return 0, false
	}

	switch a := args.(type) {
	case RollArgs:
		return seconds(a.Sec), true
	case RawMotorArgs:
		return seconds(a.Sec), true
	case SpinArgs:
		return seconds(a.Sec), true
	case FadeArgs:
		return seconds(a.Sec), true
	case StrobeArgs:
		// each flash is on for sec and off for sec
		return seconds(2 * a.Sec * float64(a.Count)), true
	case ScrollTextArgs:
		return 0, !a.Wait
	case SpeakArgs:
		return 0, !a.Wait
	case SoundArgs:
		return 0, !a.Wait
	}
	return 0, true
}

func seconds(sec float64) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec * float64(time.Second))
}
