package convert

import (
	"encoding/json"
	"time"

	"github.com/spheroedu/bridge/internal/geo"
	"github.com/spheroedu/bridge/internal/model"
	"github.com/spheroedu/bridge/pkg/core"
)

// SessionToCore converts a GORM Session to a core.Session.
// Unknown robot names are kept as-is.
func SessionToCore(s model.Session) core.Session {
	var end time.Time
	if s.EndTime.Valid {
		end = s.EndTime.Time
	}
	return core.Session{
		ID:        s.ID,
		UUID:      s.UUID,
		Program:   s.Program,
		Robot:     core.RobotType(s.Robot),
		Firmware:  s.Firmware,
		Runtime:   s.Runtime,
		StartTime: s.StartTime,
		EndTime:   end,
		Version:   s.Version,
	}
}

// CommandToCore converts a GORM Command to a core.CommandRecord.
func CommandToCore(c model.Command) core.CommandRecord {
	return core.CommandRecord{
		Time:     c.Time,
		Name:     c.Name,
		Args:     json.RawMessage(c.Args),
		Duration: time.Duration(c.DurationMs * float64(time.Millisecond)),
		Error:    c.Error,
		Code:     c.Code,
	}
}

// EventToCore converts a GORM Event to a core.EventRecord.
// Events with an unknown name keep the zero EventType.
func EventToCore(e model.Event) core.EventRecord {
	typ, _ := core.ParseEventType(e.Event)
	out := core.EventRecord{
		Time:    e.Time,
		Event:   typ,
		Handled: e.Handled,
	}
	if e.Channel.Valid {
		ch := int(e.Channel.Int32)
		out.Channel = &ch
	}
	if len(e.Color) > 0 {
		var c core.Color
		if err := json.Unmarshal(e.Color, &c); err == nil {
			out.Color = &c
		}
	}
	return out
}

// SensorSampleToCore converts a GORM SensorSample to a core.SensorSample.
func SensorSampleToCore(s model.SensorSample) core.SensorSample {
	return core.SensorSample{
		Time:         s.Time,
		Location:     geo.Vector(s.Location),
		Velocity:     s.Velocity,
		Orientation:  s.Orientation,
		Acceleration: s.Acceleration,
		Gyroscope:    s.Gyroscope,
		Heading:      s.Heading,
		Speed:        s.Speed,
		Distance:     s.Distance,
	}
}
