package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spheroedu/bridge/pkg/core"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&Command{},
	&Event{},
	&SensorSample{},
}

// Session is one program run against one robot.
type Session struct {
	gorm.Model
	UUID         string            `json:"uuid" gorm:"size:36;uniqueIndex"`
	Program      string            `json:"program" gorm:"size:127"`
	Tag          string            `json:"tag" gorm:"size:64"`
	Robot        string            `json:"robot" gorm:"size:16;index:idx_session_robot"`
	Firmware     string            `json:"firmware" gorm:"size:32"`
	Runtime      string            `json:"runtime" gorm:"size:32"`
	StartTime    time.Time         `json:"startTime" gorm:"index:idx_session_start_time"`
	EndTime      sql.NullTime      `json:"endTime"`
	Version      string            `json:"version" gorm:"size:32"`
	PathLengthCm float64           `json:"pathLengthCm"`
	Path         geom.LineString   `json:"-"` // driven path, XY in cm
	Stats        datatypes.JSONMap `json:"stats"`
}

func (*Session) TableName() string {
	return "sessions"
}

// GetOrInsert loads the session with the same UUID, creating it when absent.
func (s *Session) GetOrInsert(db *gorm.DB) (created bool, err error) {
	var existing Session
	err = db.Where("uuid = ?", s.UUID).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			if err = db.Create(s).Error; err != nil {
				return false, err
			}
			return true, nil
		}
		return false, err
	}
	*s = existing
	return false, nil
}

// Command is one command sent to the runtime.
type Command struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID  uint           `json:"sessionId" gorm:"index:idx_command_session_id"`
	Session    Session        `json:"-" gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Time       time.Time      `json:"time" gorm:"index:idx_command_time"`
	Name       string         `json:"name" gorm:"size:64;index:idx_command_name"`
	Args       datatypes.JSON `json:"args"`
	DurationMs float64        `json:"durationMs"`
	Error      string         `json:"error,omitempty" gorm:"size:255"`
	Code       string         `json:"code,omitempty" gorm:"size:32"`
}

func (*Command) TableName() string {
	return "commands"
}

// Event is one hardware event received from the runtime.
type Event struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID uint           `json:"sessionId" gorm:"index:idx_event_session_id"`
	Session   Session        `json:"-" gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Time      time.Time      `json:"time" gorm:"index:idx_event_time"`
	Event     string         `json:"event" gorm:"size:32"`
	Channel   sql.NullInt32  `json:"channel" gorm:"default:NULL"` // onIRMessage only
	Color     datatypes.JSON `json:"color" gorm:"default:NULL"`
	Handled   bool           `json:"handled"`
}

func (*Event) TableName() string {
	return "events"
}

// SensorSample is one sensor poll.
type SensorSample struct {
	ID           uint             `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID    uint             `json:"sessionId" gorm:"index:idx_sample_session_id"`
	Session      Session          `json:"-" gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Time         time.Time        `json:"time" gorm:"index:idx_sample_time"`
	Location     geom.Point       `json:"location"`
	Velocity     core.Vector2     `json:"velocity" gorm:"embedded;embeddedPrefix:velocity_"`
	Orientation  core.Orientation `json:"orientation" gorm:"embedded;embeddedPrefix:orientation_"`
	Acceleration core.Vector3     `json:"acceleration" gorm:"embedded;embeddedPrefix:acceleration_"`
	Gyroscope    core.Orientation `json:"gyroscope" gorm:"embedded;embeddedPrefix:gyroscope_"`
	Heading      float64          `json:"heading"`
	Speed        float64          `json:"speed"`
	Distance     float64          `json:"distance"`
}

func (*SensorSample) TableName() string {
	return "sensor_samples"
}
