package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spheroedu/bridge/pkg/core"
)

// SessionExport is the root JSON structure of an exported session
type SessionExport struct {
	Version      string        `json:"version"`
	UUID         string        `json:"uuid"`
	Program      string        `json:"program"`
	Tag          string        `json:"tag,omitempty"`
	Robot        string        `json:"robot"`
	Firmware     string        `json:"firmware,omitempty"`
	Runtime      string        `json:"runtime"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      time.Time     `json:"endTime"`
	DurationSec  float64       `json:"durationSec"`
	PathLengthCm float64       `json:"pathLengthCm"`
	Path         [][2]float64  `json:"path"`
	Commands     []CommandJSON `json:"commands"`
	Events       []EventJSON   `json:"events"`
	Samples      []SampleJSON  `json:"samples"`
}

// CommandJSON is one command, timed relative to the session start
type CommandJSON struct {
	T          float64         `json:"t"`
	Name       string          `json:"name"`
	Args       json.RawMessage `json:"args,omitempty"`
	DurationMs float64         `json:"durationMs"`
	Error      string          `json:"error,omitempty"`
	Code       string          `json:"code,omitempty"`
}

// EventJSON is one event, timed relative to the session start
type EventJSON struct {
	T       float64     `json:"t"`
	Event   string      `json:"event"`
	Channel *int        `json:"channel,omitempty"`
	Color   *core.Color `json:"color,omitempty"`
	Handled bool        `json:"handled"`
}

// SampleJSON is one sensor sample, timed relative to the session start
type SampleJSON struct {
	T            float64          `json:"t"`
	Location     core.Vector2     `json:"location"`
	Velocity     core.Vector2     `json:"velocity"`
	Orientation  core.Orientation `json:"orientation"`
	Acceleration core.Vector3     `json:"acceleration"`
	Gyroscope    core.Orientation `json:"gyroscope"`
	Heading      float64          `json:"heading"`
	Speed        float64          `json:"speed"`
	Distance     float64          `json:"distance"`
}

// sanitize makes a program name safe for use in a file name.
func sanitize(name string) string {
	if name == "" {
		return "session"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '/', '\\', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// exportJSON writes the session data to a (gzipped) JSON file. Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := b.session.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.json", sanitize(b.session.Program), timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}

	outputDir := b.cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(outputDir, filename)

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	b.lastExportMeta = core.UploadMetadata{
		SessionUUID: export.UUID,
		Program:     export.Program,
		Robot:       export.Robot,
		DurationSec: export.DurationSec,
		Tag:         export.Tag,
	}
	return nil
}

func (b *Backend) buildExport() SessionExport {
	s := b.session
	start := s.StartTime
	rel := func(t time.Time) float64 {
		if t.IsZero() {
			return 0
		}
		return t.Sub(start).Seconds()
	}

	export := SessionExport{
		Version:     s.Version,
		UUID:        s.UUID,
		Program:     s.Program,
		Tag:         b.tag,
		Robot:       string(s.Robot),
		Firmware:    s.Firmware,
		Runtime:     s.Runtime,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		DurationSec: rel(s.EndTime),
		Path:        make([][2]float64, 0),
		Commands:    make([]CommandJSON, 0, len(b.commands)),
		Events:      make([]EventJSON, 0, len(b.events)),
		Samples:     make([]SampleJSON, 0, len(b.samples)),
	}

	for _, c := range b.commands {
		export.Commands = append(export.Commands, CommandJSON{
			T:          rel(c.Time),
			Name:       c.Name,
			Args:       c.Args,
			DurationMs: float64(c.Duration.Microseconds()) / 1000,
			Error:      c.Error,
			Code:       c.Code,
		})
	}

	for _, e := range b.events {
		export.Events = append(export.Events, EventJSON{
			T:       rel(e.Time),
			Event:   e.Event.String(),
			Channel: e.Channel,
			Color:   e.Color,
			Handled: e.Handled,
		})
	}

	for _, smp := range b.samples {
		export.Samples = append(export.Samples, SampleJSON{
			T:            rel(smp.Time),
			Location:     smp.Location,
			Velocity:     smp.Velocity,
			Orientation:  smp.Orientation,
			Acceleration: smp.Acceleration,
			Gyroscope:    smp.Gyroscope,
			Heading:      smp.Heading,
			Speed:        smp.Speed,
			Distance:     smp.Distance,
		})
	}

	for _, p := range b.path.Points() {
		export.Path = append(export.Path, [2]float64{p.X, p.Y})
	}
	export.PathLengthCm = b.path.Length()

	return export
}

func writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(data)
}

func writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
