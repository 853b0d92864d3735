package streaming

import "github.com/spheroedu/bridge/pkg/core"

// Command names. They are the function names of the scripting API.
const (
	CmdRoll             = "roll"
	CmdRawMotor         = "rawMotor"
	CmdResetAim         = "resetAim"
	CmdStopRoll         = "stopRoll"
	CmdSetSpeed         = "setSpeed"
	CmdSetHeading       = "setHeading"
	CmdSpin             = "spin"
	CmdSetStabilization = "setStabilization"
	CmdDriveToDistance  = "driveToDistance"

	CmdSetMainLed           = "setMainLed"
	CmdSetBackLed           = "setBackLed"
	CmdSetFrontLed          = "setFrontLed"
	CmdStrobe               = "strobe"
	CmdFade                 = "fade"
	CmdSetRightLed          = "setRightLed"
	CmdSetLeftLed           = "setLeftLed"
	CmdSetRightHeadlightLed = "setRightHeadlightLed"
	CmdSetLeftHeadlightLed  = "setLeftHeadlightLed"

	CmdRegisterMatrixAnimation           = "registerMatrixAnimation"
	CmdPlayMatrixAnimation               = "playMatrixAnimation"
	CmdPauseMatrixAnimation              = "pauseMatrixAnimation"
	CmdResumeMatrixAnimation             = "resumeMatrixAnimation"
	CmdClearMatrix                       = "clearMatrix"
	CmdOverrideMatrixAnimationFramerate  = "overrideMatrixAnimationFramerate"
	CmdOverrideMatrixAnimationTransition = "overrideMatrixAnimationTransition"
	CmdSetMatrixRotation                 = "setMatrixRotation"
	CmdSetMatrixCharacter                = "setMatrixCharacter"
	CmdScrollMatrixText                  = "scrollMatrixText"
	CmdDrawMatrixPixel                   = "drawMatrixPixel"
	CmdDrawMatrixLine                    = "drawMatrixLine"
	CmdDrawMatrixFill                    = "drawMatrixFill"

	CmdCalibrateCompass    = "calibrateCompass"
	CmdSetCompassDirection = "setCompassDirection"

	CmdStartIRBroadcast = "startIRBroadcast"
	CmdStartIRFollow    = "startIRFollow"
	CmdStartIREvade     = "startIREvade"
	CmdStopIRBroadcast  = "stopIRBroadcast"
	CmdStopIRFollow     = "stopIRFollow"
	CmdStopIREvade      = "stopIREvade"
	CmdSendIRMessage    = "sendIRMessage"
	CmdListenForIR      = "listenForIRMessage"
	CmdListenForColor   = "listenForColorSensor"

	CmdSetDomePosition     = "setDomePosition"
	CmdSetStance           = "setStance"
	CmdSetWaddle           = "setWaddle"
	CmdSetHoloProjectorLed = "setHoloProjectorLed"
	CmdSetLogicDisplayLeds = "setLogicDisplayLeds"
	CmdSetDomeLeds         = "setDomeLeds"

	CmdSpeak          = "speak"
	CmdPlayAnimation  = "playAnimation"
	CmdPlaySound      = "playSound"
	CmdExitProgram    = "exitProgram"
	CmdGetCurrentTime = "getCurrentTime"

	CmdGetLocation             = "getLocation"
	CmdGetVelocity             = "getVelocity"
	CmdGetOrientation          = "getOrientation"
	CmdGetAcceleration         = "getAcceleration"
	CmdGetVerticalAcceleration = "getVerticalAcceleration"
	CmdGetGyroscope            = "getGyroscope"
	CmdGetDistance             = "getDistance"
	CmdGetSpeed                = "getSpeed"
	CmdGetHeading              = "getHeading"
	CmdGetColor                = "getColor"
	CmdGetLuminosity           = "getLuminosity"
	CmdGetCompassDirection     = "getCompassDirection"
	CmdGetRawMotor             = "getRawMotor"
	CmdGetStabilization        = "getStabilization"
	CmdGetMainLed              = "getMainLed"
	CmdGetBackLed              = "getBackLed"
	CmdGetFrontLed             = "getFrontLed"
	CmdGetSideLed1             = "getSideLed1"
	CmdGetSideLed2             = "getSideLed2"
	CmdGetDoorLed1             = "getDoorLed1"
	CmdGetDoorLed2             = "getDoorLed2"
	CmdGetLeftHeadlightLed     = "getLeftHeadlightLed"
	CmdGetRightHeadlightLed    = "getRightHeadlightLed"
	CmdGetRVRLeds              = "getRVRLeds"
	CmdGetDomeLeds             = "getDomeLeds"
	CmdGetHoloProjectorLed     = "getHoloProjectorLed"
	CmdGetLogicDisplayLeds     = "getLogicDisplayLeds"
	CmdGetLastIRMessage        = "getLastIRMessage"
)

// RollArgs are the arguments of roll.
type RollArgs struct {
	Degrees float64 `json:"degrees"`
	Speed   int     `json:"speed"`
	Sec     float64 `json:"sec"`
}

// RawMotorArgs are the arguments of rawMotor.
type RawMotorArgs struct {
	Left  int     `json:"left"`
	Right int     `json:"right"`
	Sec   float64 `json:"sec"`
}

// DegreesArgs carries a single angle (resetAim, setHeading, setCompassDirection, setDomePosition).
type DegreesArgs struct {
	Degrees float64 `json:"degrees"`
}

// SpeedArgs are the arguments of setSpeed.
type SpeedArgs struct {
	Speed int `json:"speed"`
}

// SpinArgs are the arguments of spin.
type SpinArgs struct {
	Degrees float64 `json:"degrees"`
	Sec     float64 `json:"sec"`
}

// BoolArgs carries a single flag (setStabilization, setWaddle).
type BoolArgs struct {
	Value bool `json:"value"`
}

// DriveToDistanceArgs are the arguments of driveToDistance.
type DriveToDistanceArgs struct {
	HeadingDeg float64 `json:"headingDeg"`
	Speed      int     `json:"speed"`
	DistanceCm float64 `json:"distanceCm"`
}

// ColorArgs carries a single color.
type ColorArgs struct {
	Color core.Color `json:"color"`
}

// BackLedArgs sets the back LED either by intensity or, on RGB tail lights, by color.
type BackLedArgs struct {
	Intensity *int        `json:"intensity,omitempty"`
	Color     *core.Color `json:"color,omitempty"`
}

// IntensityArgs carries a single brightness value.
type IntensityArgs struct {
	Intensity int `json:"intensity"`
}

// StrobeArgs are the arguments of strobe.
type StrobeArgs struct {
	Color core.Color `json:"color"`
	Sec   float64    `json:"sec"`
	Count int        `json:"count"`
}

// FadeArgs are the arguments of fade.
type FadeArgs struct {
	From core.Color `json:"colorFrom"`
	To   core.Color `json:"colorTo"`
	Sec  float64    `json:"sec"`
}

// RegisterMatrixAnimationArgs are the arguments of registerMatrixAnimation.
type RegisterMatrixAnimationArgs struct {
	Animation core.MatrixAnimation `json:"animation"`
}

// PlayMatrixAnimationArgs are the arguments of playMatrixAnimation.
type PlayMatrixAnimationArgs struct {
	Index   int  `json:"i"`
	Forever bool `json:"forever"`
}

// FramerateArgs are the arguments of overrideMatrixAnimationFramerate. Zero disables the override.
type FramerateArgs struct {
	FPS int `json:"fps"`
}

// TransitionArgs are the arguments of overrideMatrixAnimationTransition.
// A nil transition disables the override.
type TransitionArgs struct {
	Transition *core.MatrixAnimationTransition `json:"transition,omitempty"`
}

// RotationArgs are the arguments of setMatrixRotation.
type RotationArgs struct {
	Rotation core.MatrixRotation `json:"rotation"`
}

// CharacterArgs are the arguments of setMatrixCharacter.
type CharacterArgs struct {
	Character string     `json:"character"`
	Color     core.Color `json:"color"`
}

// ScrollTextArgs are the arguments of scrollMatrixText.
type ScrollTextArgs struct {
	Text  string     `json:"text"`
	Color core.Color `json:"color"`
	FPS   int        `json:"fps"`
	Wait  bool       `json:"wait"`
}

// PixelArgs are the arguments of drawMatrixPixel.
type PixelArgs struct {
	Color    core.Color   `json:"color"`
	Position core.Vector2 `json:"position"`
}

// SegmentArgs are the arguments of drawMatrixLine and drawMatrixFill.
type SegmentArgs struct {
	Color core.Color   `json:"color"`
	From  core.Vector2 `json:"from"`
	To    core.Vector2 `json:"to"`
}

// IRChannelsArgs are the arguments of startIRBroadcast, startIRFollow and startIREvade.
type IRChannelsArgs struct {
	Near core.IRChannel `json:"nearChannel"`
	Far  core.IRChannel `json:"farChannel"`
}

// IRMessageArgs are the arguments of sendIRMessage.
type IRMessageArgs struct {
	Message   int `json:"message"`
	Intensity int `json:"intensity"`
}

// Droid stances accepted by setStance.
const (
	StanceBipod  = "bipod"
	StanceTripod = "tripod"
)

// StanceArgs are the arguments of setStance.
type StanceArgs struct {
	Stance string `json:"stance"`
}

// SpeakArgs are the arguments of speak.
type SpeakArgs struct {
	Message string `json:"message"`
	Wait    bool   `json:"wait"`
}

// ColorChannelArgs selects a color sensor channel for getColor.
// An empty channel returns the full color.
type ColorChannelArgs struct {
	Channel core.ColorChannel `json:"channel,omitempty"`
}

// AnimationArgs plays a catalog animation. Empty Category or Name lets the
// runtime choose within the enclosing level.
type AnimationArgs struct {
	Droid    string `json:"droid"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SoundArgs plays a catalog sound.
type SoundArgs struct {
	Path []string `json:"path,omitempty"`
	Wait bool     `json:"wait"`
}
