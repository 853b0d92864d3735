// Package monitor polls the robot's sensors while a program runs and fans
// each sample out to the journal, the Influx time series and the telemetry
// cache. A JSON status file is rewritten after every poll.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spheroedu/bridge/internal/cache"
	"github.com/spheroedu/bridge/internal/geo"
	"github.com/spheroedu/bridge/internal/session"
	"github.com/spheroedu/bridge/pkg/core"
)

const (
	defaultInterval = 500 * time.Millisecond
	pathMinStep     = 0.5
)

// SensorSource is the part of a connected robot the monitor reads.
// *edu.Robot satisfies it.
type SensorSource interface {
	GetLocation(ctx context.Context) (core.Vector2, error)
	GetVelocity(ctx context.Context) (core.Vector2, error)
	GetOrientation(ctx context.Context) (core.Orientation, error)
	GetAcceleration(ctx context.Context) (core.Vector3, error)
	GetGyroscope(ctx context.Context) (core.Orientation, error)
	GetHeading(ctx context.Context) (float64, error)
	GetSpeed(ctx context.Context) (int, error)
	GetDistance(ctx context.Context) (float64, error)
}

// SampleJournal receives every sample. *worker.Manager satisfies it.
type SampleJournal interface {
	RecordSample(core.SensorSample)
}

// PointWriter writes samples to a time series. *influx.Manager satisfies it.
type PointWriter interface {
	WriteSample(session core.Session, s core.SensorSample) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Source     SensorSource
	Journal    SampleJournal
	Influx     PointWriter
	Cache      *cache.TelemetryCache
	Session    *session.Context
	Logger     *slog.Logger
	Interval   time.Duration
	StatusPath string
}

// Status is the content of the status file.
type Status struct {
	Time         time.Time          `json:"time"`
	Session      string             `json:"session,omitempty"`
	Robot        string             `json:"robot,omitempty"`
	Samples      int                `json:"samples"`
	Errors       int                `json:"errors"`
	PathLengthCm float64            `json:"pathLengthCm"`
	Latest       *core.SensorSample `json:"latest,omitempty"`
}

// Service manages sensor polling
type Service struct {
	deps   Dependencies
	path   *geo.Path
	errors cache.SafeCounter

	isRunning bool
	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      chan struct{}
	now       func() time.Time
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = defaultInterval
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewTelemetryCache()
	}
	return &Service{
		deps: deps,
		path: geo.NewPath(pathMinStep),
		now:  time.Now,
	}
}

// IsRunning returns whether the monitor goroutine is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Poll reads every sensor once. A failed read is returned together with
// the readings that succeeded.
func (s *Service) Poll(ctx context.Context) (core.SensorSample, error) {
	src := s.deps.Source
	sample := core.SensorSample{Time: s.now().UTC()}

	var errs []error
	read := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	sample.Location, err = src.GetLocation(ctx)
	read(err)
	sample.Velocity, err = src.GetVelocity(ctx)
	read(err)
	sample.Orientation, err = src.GetOrientation(ctx)
	read(err)
	sample.Acceleration, err = src.GetAcceleration(ctx)
	read(err)
	sample.Gyroscope, err = src.GetGyroscope(ctx)
	read(err)
	sample.Heading, err = src.GetHeading(ctx)
	read(err)
	speed, err := src.GetSpeed(ctx)
	read(err)
	sample.Speed = float64(speed)
	sample.Distance, err = src.GetDistance(ctx)
	read(err)

	return sample, errors.Join(errs...)
}

// Tick polls once and distributes the sample.
func (s *Service) Tick(ctx context.Context) error {
	sample, err := s.Poll(ctx)
	if err != nil {
		s.errors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.deps.Logger.Warn("Sensor poll incomplete", "error", err)
	}

	s.deps.Cache.Set(sample)
	s.path.Add(sample.Location)
	if s.deps.Journal != nil {
		s.deps.Journal.RecordSample(sample)
	}
	if s.deps.Influx != nil && s.deps.Session != nil {
		if sess := s.deps.Session.Current(); sess != nil {
			if werr := s.deps.Influx.WriteSample(*sess, sample); werr != nil {
				s.deps.Logger.Debug("Influx write failed", "error", werr)
			}
		}
	}
	if s.deps.StatusPath != "" {
		if werr := s.writeStatus(); werr != nil {
			s.deps.Logger.Error("Error writing status file", "path", s.deps.StatusPath, "error", werr)
		}
	}
	return nil
}

// GetStatus returns the current monitor status
func (s *Service) GetStatus() Status {
	st := Status{
		Time:         s.now().UTC(),
		Samples:      s.deps.Cache.Samples.Value(),
		Errors:       s.errors.Value(),
		PathLengthCm: s.path.Length(),
	}
	if latest, ok := s.deps.Cache.Latest(); ok {
		st.Latest = &latest
	}
	if s.deps.Session != nil {
		if sess := s.deps.Session.Current(); sess != nil {
			st.Session = sess.UUID
			st.Robot = string(sess.Robot)
		}
	}
	return st
}

// PathLength returns the driven path length in cm since Start.
func (s *Service) PathLength() float64 {
	return s.path.Length()
}

func (s *Service) writeStatus() error {
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.deps.StatusPath, data, 0o644)
}

// Start starts the monitor goroutine. It stops on Stop or when ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if s.deps.Source == nil {
		return errors.New("monitor: no sensor source")
	}
	s.isRunning = true
	s.path.Reset()
	s.deps.Cache.Reset()

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(s.done)
		}()

		s.deps.Logger.Debug("Starting sensor monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Tick(ctx); err != nil {
					return
				}
			}
		}
	}()
	return nil
}

// Stop stops the monitor and waits for the goroutine to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
