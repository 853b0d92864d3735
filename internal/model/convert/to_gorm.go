// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/spheroedu/bridge/internal/geo"
	"github.com/spheroedu/bridge/internal/model"
	"github.com/spheroedu/bridge/pkg/core"
)

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// CoreToSession converts a core.Session to a GORM model.Session.
func CoreToSession(s core.Session, tag string) model.Session {
	out := model.Session{
		UUID:      s.UUID,
		Program:   s.Program,
		Tag:       tag,
		Robot:     string(s.Robot),
		Firmware:  s.Firmware,
		Runtime:   s.Runtime,
		StartTime: s.StartTime,
		EndTime:   nullTime(s.EndTime),
		Version:   s.Version,
	}
	out.ID = s.ID
	return out
}

// CoreToCommand converts a core.CommandRecord to a GORM model.Command.
func CoreToCommand(c core.CommandRecord) model.Command {
	args := datatypes.JSON("{}")
	if len(c.Args) > 0 {
		args = datatypes.JSON(c.Args)
	}
	return model.Command{
		Time:       c.Time,
		Name:       c.Name,
		Args:       args,
		DurationMs: float64(c.Duration.Microseconds()) / 1000,
		Error:      c.Error,
		Code:       c.Code,
	}
}

// CoreToEvent converts a core.EventRecord to a GORM model.Event.
func CoreToEvent(e core.EventRecord) model.Event {
	out := model.Event{
		Time:    e.Time,
		Event:   e.Event.String(),
		Handled: e.Handled,
	}
	if e.Channel != nil {
		out.Channel = sql.NullInt32{Int32: int32(*e.Channel), Valid: true}
	}
	if e.Color != nil {
		data, _ := json.Marshal(e.Color)
		out.Color = datatypes.JSON(data)
	}
	return out
}

// CoreToSensorSample converts a core.SensorSample to a GORM model.SensorSample.
// A sample whose location is not a valid point is rejected.
func CoreToSensorSample(s core.SensorSample) (model.SensorSample, error) {
	loc, err := geo.Point(s.Location)
	if err != nil {
		return model.SensorSample{}, err
	}
	return model.SensorSample{
		Time:         s.Time,
		Location:     loc,
		Velocity:     s.Velocity,
		Orientation:  s.Orientation,
		Acceleration: s.Acceleration,
		Gyroscope:    s.Gyroscope,
		Heading:      s.Heading,
		Speed:        s.Speed,
		Distance:     s.Distance,
	}, nil
}
