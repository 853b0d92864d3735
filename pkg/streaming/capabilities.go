package streaming

import "github.com/spheroedu/bridge/pkg/core"

// required maps model-specific commands to the capability they need.
// setBackLed needs CapBackLedColor only when called with a color.
var required = map[string]core.Capability{
	CmdDriveToDistance: core.CapDriveToDistance,

	CmdSetFrontLed: core.CapFrontLed,
	CmdGetFrontLed: core.CapFrontLed,

	CmdSetRightLed: core.CapRVRLeds,
	CmdSetLeftLed:  core.CapRVRLeds,
	CmdGetRVRLeds:  core.CapRVRLeds,

	CmdSetRightHeadlightLed: core.CapHeadlights,
	CmdSetLeftHeadlightLed:  core.CapHeadlights,
	CmdGetRightHeadlightLed: core.CapHeadlights,
	CmdGetLeftHeadlightLed:  core.CapHeadlights,

	CmdRegisterMatrixAnimation:           core.CapMatrix,
	CmdPlayMatrixAnimation:               core.CapMatrix,
	CmdPauseMatrixAnimation:              core.CapMatrix,
	CmdResumeMatrixAnimation:             core.CapMatrix,
	CmdClearMatrix:                       core.CapMatrix,
	CmdOverrideMatrixAnimationFramerate:  core.CapMatrix,
	CmdOverrideMatrixAnimationTransition: core.CapMatrix,
	CmdSetMatrixRotation:                 core.CapMatrix,
	CmdSetMatrixCharacter:                core.CapMatrix,
	CmdScrollMatrixText:                  core.CapMatrix,
	CmdDrawMatrixPixel:                   core.CapMatrix,
	CmdDrawMatrixLine:                    core.CapMatrix,
	CmdDrawMatrixFill:                    core.CapMatrix,

	CmdCalibrateCompass:    core.CapCompass,
	CmdSetCompassDirection: core.CapCompass,
	CmdGetCompassDirection: core.CapCompass,

	CmdGetLuminosity: core.CapLuminosity,

	CmdStartIRBroadcast: core.CapIR,
	CmdStartIRFollow:    core.CapIR,
	CmdStartIREvade:     core.CapIR,
	CmdStopIRBroadcast:  core.CapIR,
	CmdStopIRFollow:     core.CapIR,
	CmdStopIREvade:      core.CapIR,
	CmdSendIRMessage:    core.CapIR,
	CmdListenForIR:      core.CapIR,
	CmdGetLastIRMessage: core.CapIR,

	CmdGetColor:       core.CapColorSensor,
	CmdListenForColor: core.CapColorSensor,

	CmdPlayAnimation: core.CapDroidAnimations,

	CmdSetDomePosition:     core.CapDome,
	CmdSetStance:           core.CapDome,
	CmdSetWaddle:           core.CapDome,
	CmdSetHoloProjectorLed: core.CapDome,
	CmdSetLogicDisplayLeds: core.CapDome,
	CmdGetHoloProjectorLed: core.CapDome,
	CmdGetLogicDisplayLeds: core.CapDome,

	CmdSetDomeLeds: core.CapDomeLeds,
	CmdGetDomeLeds: core.CapDomeLeds,

	CmdGetSideLed1: core.CapSideLeds,
	CmdGetSideLed2: core.CapSideLeds,
	CmdGetDoorLed1: core.CapSideLeds,
	CmdGetDoorLed2: core.CapSideLeds,
}

// Requires returns the capability a command needs, if it is model-specific.
func Requires(name string) (core.Capability, bool) {
	c, ok := required[name]
	return c, ok
}

// CheckCapability returns an *core.UnsupportedError when robot lacks what name needs.
func CheckCapability(robot core.RobotType, name string) error {
	if c, ok := required[name]; ok && !robot.Supports(c) {
		return &core.UnsupportedError{Op: name, Robot: robot}
	}
	return nil
}
