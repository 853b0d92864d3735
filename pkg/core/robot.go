// pkg/core/robot.go
package core

import (
	"fmt"
	"strings"
)

// RobotType is the model of the connected robot, as reported by the runtime.
type RobotType string

const (
	RobotSphero RobotType = "Sphero"
	RobotSPRK   RobotType = "SPRK+"
	RobotMini   RobotType = "Mini"
	RobotOllie  RobotType = "Ollie"
	RobotBB8    RobotType = "BB-8"
	RobotBB9E   RobotType = "BB-9E"
	RobotR2D2   RobotType = "R2-D2"
	RobotR2Q5   RobotType = "R2-Q5"
	RobotBOLT   RobotType = "BOLT"
	RobotRVR    RobotType = "RVR"
	RobotRVRP   RobotType = "RVR+"
)

// RobotTypes lists every known model.
var RobotTypes = []RobotType{
	RobotSphero, RobotSPRK, RobotMini, RobotOllie,
	RobotBB8, RobotBB9E, RobotR2D2, RobotR2Q5,
	RobotBOLT, RobotRVR, RobotRVRP,
}

// Capability is a model-specific feature.
type Capability int

const (
	CapMatrix Capability = iota
	CapCompass
	CapFrontLed
	CapLuminosity
	CapIR
	CapBackLedColor
	CapRVRLeds
	CapHeadlights
	CapDriveToDistance
	CapColorSensor
	CapDroidAnimations
	CapDome
	CapDomeLeds
	CapSideLeds
)

var capabilityNames = map[Capability]string{
	CapMatrix:          "matrix",
	CapCompass:         "compass",
	CapFrontLed:        "frontLed",
	CapLuminosity:      "luminosity",
	CapIR:              "ir",
	CapBackLedColor:    "backLedColor",
	CapRVRLeds:         "rvrLeds",
	CapHeadlights:      "headlights",
	CapDriveToDistance: "driveToDistance",
	CapColorSensor:     "colorSensor",
	CapDroidAnimations: "droidAnimations",
	CapDome:            "dome",
	CapDomeLeds:        "domeLeds",
	CapSideLeds:        "sideLeds",
}

func (c Capability) String() string {
	if s, ok := capabilityNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

var capabilities = map[RobotType][]Capability{
	RobotBOLT: {CapMatrix, CapCompass, CapFrontLed, CapLuminosity, CapIR, CapBackLedColor},
	RobotRVR:  {CapIR, CapBackLedColor, CapRVRLeds, CapHeadlights, CapDriveToDistance, CapColorSensor},
	RobotRVRP: {CapIR, CapBackLedColor, CapRVRLeds, CapHeadlights, CapDriveToDistance, CapColorSensor},
	RobotBB8:  {CapDroidAnimations},
	RobotBB9E: {CapDroidAnimations, CapDomeLeds},
	RobotR2D2: {CapDroidAnimations, CapDome},
	RobotR2Q5: {CapDroidAnimations, CapDome, CapSideLeds},
}

// Valid reports whether r is a known model.
func (r RobotType) Valid() bool {
	for _, t := range RobotTypes {
		if t == r {
			return true
		}
	}
	return false
}

// Supports reports whether the model has capability c.
func (r RobotType) Supports(c Capability) bool {
	for _, have := range capabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// Capabilities returns the model-specific features of r.
func (r RobotType) Capabilities() []Capability {
	out := make([]Capability, len(capabilities[r]))
	copy(out, capabilities[r])
	return out
}

// IsDroid reports whether r is one of the Star Wars droids.
func (r RobotType) IsDroid() bool {
	return r.Supports(CapDroidAnimations)
}

// ParseRobotType matches a model name case-insensitively.
func ParseRobotType(s string) (RobotType, error) {
	for _, t := range RobotTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown robot type %q", s)
}
