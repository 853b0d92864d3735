// pkg/core/session.go
package core

import (
	"encoding/json"
	"time"
)

// Session is one connection of a program to a robot.
type Session struct {
	ID        uint
	UUID      string
	Program   string
	Robot     RobotType
	Firmware  string
	Runtime   string
	StartTime time.Time
	EndTime   time.Time
	Version   string
}

// CommandRecord is one command sent to the runtime.
type CommandRecord struct {
	Time     time.Time
	Name     string
	Args     json.RawMessage
	Duration time.Duration
	Error    string
	Code     string
}

// EventRecord is one event received from the runtime.
type EventRecord struct {
	Time    time.Time
	Event   EventType
	Channel *int
	Color   *Color
	Handled bool
}

// SensorSample is a snapshot of the sensor readings at one instant.
type SensorSample struct {
	Time         time.Time
	Location     Vector2
	Velocity     Vector2
	Orientation  Orientation
	Acceleration Vector3
	Gyroscope    Orientation
	Heading      float64
	Speed        float64
	Distance     float64
}

// UploadMetadata describes an exported session file.
type UploadMetadata struct {
	SessionUUID string
	Program     string
	Robot       string
	DurationSec float64
	Tag         string
}
