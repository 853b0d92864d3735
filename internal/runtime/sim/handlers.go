package sim

import (
	"encoding/json"
	"fmt"

	"github.com/spheroedu/bridge/pkg/streaming"
)

type handlerFunc func(s *Simulator, args json.RawMessage) (any, error)

// with decodes the command arguments into T before calling fn.
func with[T any](fn func(*Simulator, T) (any, error)) handlerFunc {
	return func(s *Simulator, raw json.RawMessage) (any, error) {
		var args T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("decode args: %w", err)
			}
		}
		return fn(s, args)
	}
}

func noArgs(fn func(*Simulator) (any, error)) handlerFunc {
	return func(s *Simulator, _ json.RawMessage) (any, error) {
		return fn(s)
	}
}

var handlers map[string]handlerFunc

func init() {
	handlers = map[string]handlerFunc{
		// motion
		streaming.CmdRoll:             with((*Simulator).roll),
		streaming.CmdRawMotor:         with((*Simulator).rawMotorCmd),
		streaming.CmdResetAim:         with((*Simulator).resetAim),
		streaming.CmdStopRoll:         noArgs((*Simulator).stopRoll),
		streaming.CmdSetSpeed:         with((*Simulator).setSpeed),
		streaming.CmdSetHeading:       with((*Simulator).setHeading),
		streaming.CmdSpin:             with((*Simulator).spin),
		streaming.CmdSetStabilization: with((*Simulator).setStabilization),
		streaming.CmdDriveToDistance:  with((*Simulator).driveToDistance),

		// lights
		streaming.CmdSetMainLed:           with((*Simulator).setMainLed),
		streaming.CmdSetBackLed:           with((*Simulator).setBackLed),
		streaming.CmdSetFrontLed:          with((*Simulator).setFrontLed),
		streaming.CmdStrobe:               with((*Simulator).strobe),
		streaming.CmdFade:                 with((*Simulator).fade),
		streaming.CmdSetRightLed:          with((*Simulator).setRightLed),
		streaming.CmdSetLeftLed:           with((*Simulator).setLeftLed),
		streaming.CmdSetRightHeadlightLed: with((*Simulator).setRightHeadlightLed),
		streaming.CmdSetLeftHeadlightLed:  with((*Simulator).setLeftHeadlightLed),

		// matrix
		streaming.CmdRegisterMatrixAnimation:           with((*Simulator).registerMatrixAnimation),
		streaming.CmdPlayMatrixAnimation:               with((*Simulator).playMatrixAnimation),
		streaming.CmdPauseMatrixAnimation:              noArgs((*Simulator).pauseMatrixAnimation),
		streaming.CmdResumeMatrixAnimation:             noArgs((*Simulator).resumeMatrixAnimation),
		streaming.CmdClearMatrix:                       noArgs((*Simulator).clearMatrix),
		streaming.CmdOverrideMatrixAnimationFramerate:  with((*Simulator).overrideMatrixAnimationFramerate),
		streaming.CmdOverrideMatrixAnimationTransition: with((*Simulator).overrideMatrixAnimationTransition),
		streaming.CmdSetMatrixRotation:                 with((*Simulator).setMatrixRotation),
		streaming.CmdSetMatrixCharacter:                with((*Simulator).setMatrixCharacter),
		streaming.CmdScrollMatrixText:                  with((*Simulator).scrollMatrixText),
		streaming.CmdDrawMatrixPixel:                   with((*Simulator).drawMatrixPixel),
		streaming.CmdDrawMatrixLine:                    with((*Simulator).drawMatrixLine),
		streaming.CmdDrawMatrixFill:                    with((*Simulator).drawMatrixFill),

		// compass
		streaming.CmdCalibrateCompass:    noArgs((*Simulator).calibrateCompass),
		streaming.CmdSetCompassDirection: with((*Simulator).setCompassDirection),
		streaming.CmdGetCompassDirection: noArgs((*Simulator).getCompassDirection),

		// ir
		streaming.CmdStartIRBroadcast: with(startIR(IRBroadcast, streaming.CmdStartIRBroadcast)),
		streaming.CmdStartIRFollow:    with(startIR(IRFollow, streaming.CmdStartIRFollow)),
		streaming.CmdStartIREvade:     with(startIR(IREvade, streaming.CmdStartIREvade)),
		streaming.CmdStopIRBroadcast:  noArgs(stopIR(IRBroadcast)),
		streaming.CmdStopIRFollow:     noArgs(stopIR(IRFollow)),
		streaming.CmdStopIREvade:      noArgs(stopIR(IREvade)),
		streaming.CmdSendIRMessage:    with((*Simulator).sendIRMessage),
		streaming.CmdListenForIR:      noArgs((*Simulator).listenForIRMessage),
		streaming.CmdGetLastIRMessage: noArgs((*Simulator).getLastIRMessage),

		// droid
		streaming.CmdSetDomePosition:     with((*Simulator).setDomePosition),
		streaming.CmdSetStance:           with((*Simulator).setStance),
		streaming.CmdSetWaddle:           with((*Simulator).setWaddle),
		streaming.CmdSetHoloProjectorLed: with((*Simulator).setHoloProjectorLed),
		streaming.CmdSetLogicDisplayLeds: with((*Simulator).setLogicDisplayLeds),
		streaming.CmdSetDomeLeds:         with((*Simulator).setDomeLeds),
		streaming.CmdGetDomeLeds:         noArgs((*Simulator).getDomeLeds),
		streaming.CmdGetHoloProjectorLed: noArgs((*Simulator).getHoloProjectorLed),
		streaming.CmdGetLogicDisplayLeds: noArgs((*Simulator).getLogicDisplayLeds),
		streaming.CmdPlayAnimation:       with((*Simulator).playAnimation),
		streaming.CmdPlaySound:           with((*Simulator).playSound),

		// utility
		streaming.CmdSpeak:          with((*Simulator).speak),
		streaming.CmdExitProgram:    noArgs((*Simulator).exitProgram),
		streaming.CmdGetCurrentTime: noArgs((*Simulator).getCurrentTime),

		// sensors
		streaming.CmdGetLocation:             noArgs((*Simulator).getLocation),
		streaming.CmdGetVelocity:             noArgs((*Simulator).getVelocity),
		streaming.CmdGetOrientation:          noArgs((*Simulator).getOrientation),
		streaming.CmdGetAcceleration:         noArgs((*Simulator).getAcceleration),
		streaming.CmdGetVerticalAcceleration: noArgs((*Simulator).getVerticalAcceleration),
		streaming.CmdGetGyroscope:            noArgs((*Simulator).getGyroscope),
		streaming.CmdGetDistance:             noArgs((*Simulator).getDistance),
		streaming.CmdGetSpeed:                noArgs((*Simulator).getSpeed),
		streaming.CmdGetHeading:              noArgs((*Simulator).getHeading),
		streaming.CmdGetColor:                with((*Simulator).getColor),
		streaming.CmdListenForColor:          noArgs((*Simulator).listenForColorSensor),
		streaming.CmdGetLuminosity:           noArgs((*Simulator).getLuminosity),
		streaming.CmdGetRawMotor:             noArgs((*Simulator).getRawMotor),
		streaming.CmdGetStabilization:        noArgs((*Simulator).getStabilization),
		streaming.CmdGetMainLed:              noArgs((*Simulator).getMainLed),
		streaming.CmdGetBackLed:              noArgs((*Simulator).getBackLed),
		streaming.CmdGetFrontLed:             noArgs((*Simulator).getFrontLed),
		streaming.CmdGetSideLed1:             noArgs((*Simulator).getSideLed1),
		streaming.CmdGetSideLed2:             noArgs((*Simulator).getSideLed2),
		streaming.CmdGetDoorLed1:             noArgs((*Simulator).getDoorLed1),
		streaming.CmdGetDoorLed2:             noArgs((*Simulator).getDoorLed2),
		streaming.CmdGetLeftHeadlightLed:     noArgs((*Simulator).getLeftHeadlightLed),
		streaming.CmdGetRightHeadlightLed:    noArgs((*Simulator).getRightHeadlightLed),
		streaming.CmdGetRVRLeds:              noArgs((*Simulator).getRVRLeds),
	}
}
