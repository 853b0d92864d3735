package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spheroedu/bridge/internal/api"
	"github.com/spheroedu/bridge/internal/cache"
	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/influx"
	"github.com/spheroedu/bridge/internal/logging"
	"github.com/spheroedu/bridge/internal/monitor"
	"github.com/spheroedu/bridge/internal/runtime/sim"
	"github.com/spheroedu/bridge/internal/runtime/websocket"
	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/internal/worker"
	"github.com/spheroedu/bridge/pkg/catalog"
	"github.com/spheroedu/bridge/pkg/core"
	"github.com/spheroedu/bridge/pkg/edu"
)

var runOpts struct {
	program     string
	runtime     string
	robot       string
	tag         string
	catalogPath string
	upload      bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a built-in program against the configured runtime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := lookupProgram(runOpts.program)
		if err != nil {
			return err
		}

		a, err := newApp("run")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.runProgram(ctx, runOpts.program, prog)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOpts.program, "program", "p", "square", fmt.Sprintf("program to run %v", programNames()))
	f.StringVar(&runOpts.runtime, "runtime", "", `override runtime.type ("sim" or "websocket")`)
	f.StringVar(&runOpts.robot, "robot", "", "override runtime.robot for the simulator")
	f.StringVar(&runOpts.tag, "tag", "", "session tag, defaults to defaultTag")
	f.StringVar(&runOpts.catalogPath, "catalog", "", "animation and sound catalog file")
	f.BoolVar(&runOpts.upload, "upload", false, "upload the exported session when it ends")
}

// connectRuntime opens the runtime selected by runtime.type.
func (a *app) connectRuntime(ctx context.Context, cfg config.RuntimeConfig) (edu.Runtime, error) {
	switch cfg.Type {
	case "sim", "":
		s, err := sim.New(sim.Options{
			Robot:       core.RobotType(cfg.Robot),
			Firmware:    CurrentVersion,
			TimeScale:   cfg.TimeScale,
			EventBuffer: cfg.EventBuffer,
			Logger:      a.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("starting simulator: %w", err)
		}
		a.Logger.Info("Using in-process simulator", "robot", cfg.Robot, "timeScale", cfg.TimeScale)
		return s, nil

	case "websocket":
		c, err := websocket.Dial(ctx, websocket.Config{
			URL:              cfg.URL,
			Secret:           cfg.Secret,
			CallTimeout:      cfg.CallTimeout,
			MaxReconnect:     cfg.MaxReconnect,
			ReconnectBackoff: cfg.ReconnectBackoff,
			EventBuffer:      cfg.EventBuffer,
		}, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to runtime at %s: %w", cfg.URL, err)
		}
		a.Logger.Info("Connected to runtime", "url", cfg.URL)
		return c, nil

	default:
		return nil, fmt.Errorf("unknown runtime type %q", cfg.Type)
	}
}

func (a *app) runProgram(ctx context.Context, name string, prog program) error {
	rtCfg := config.GetRuntimeConfig()
	if runOpts.runtime != "" {
		rtCfg.Type = runOpts.runtime
	}
	if runOpts.robot != "" {
		rtCfg.Robot = runOpts.robot
	}
	tag := runOpts.tag
	if tag == "" {
		tag = config.GetString("defaultTag")
	}

	// journal
	backend, err := a.createStorageBackend(config.GetStorageConfig(), tag)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			a.Logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	journal, err := worker.NewManager(worker.Dependencies{Logger: a.Logger}, backend)
	if err != nil {
		return err
	}
	journal.Start()
	defer journal.Close()

	// robot
	rt, err := a.connectRuntime(ctx, rtCfg)
	if err != nil {
		return err
	}
	opts := []edu.Option{
		edu.WithRecorder(journal),
		edu.WithLogger(a.Logger),
		edu.WithEventLogger(logging.NewEventLogger(a.ZLogger)),
		edu.WithEventBuffer(rtCfg.EventBuffer),
	}
	if runOpts.catalogPath != "" {
		c, err := catalog.Load(runOpts.catalogPath)
		if err != nil {
			_ = rt.Close()
			return err
		}
		opts = append(opts, edu.WithCatalog(c))
	}
	robot, err := edu.Connect(ctx, rt, opts...)
	if err != nil {
		_ = rt.Close()
		return err
	}
	defer robot.Close()

	sess := a.Session.Start(name, CurrentVersion, robot.Hello())
	if err := backend.StartSession(sess); err != nil {
		return fmt.Errorf("starting session journal: %w", err)
	}
	a.Logger.Info("Session started", "program", name, "tag", tag)

	// telemetry
	var points monitor.PointWriter
	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		backup := filepath.Join(config.GetString("logsDir"), fmt.Sprintf("influx_%s.lp.gz", a.StartTime.Format("20060102_150405")))
		im := influx.NewManager(influxCfg, a.ZLogger, backup)
		if err := im.Connect(ctx); err != nil {
			a.Logger.Warn("InfluxDB unavailable, sensor samples not exported", "error", err)
		} else {
			points = im
		}
		defer func() {
			if err := im.Close(); err != nil {
				a.Logger.Warn("Failed to close InfluxDB output", "error", err)
			}
		}()
	}

	var mon *monitor.Service
	if monCfg := config.GetMonitorConfig(); monCfg.Enabled {
		mon = monitor.NewService(monitor.Dependencies{
			Source:     robot,
			Journal:    journal,
			Influx:     points,
			Cache:      cache.NewTelemetryCache(),
			Session:    a.Session,
			Logger:     a.Logger,
			Interval:   monCfg.Interval,
			StatusPath: filepath.Join(config.GetString("logsDir"), "status.json"),
		})
		if err := mon.Start(ctx); err != nil {
			return err
		}
	}

	// program
	start := time.Now()
	progErr := prog(ctx, robot)
	switch {
	case progErr == nil:
		a.Logger.Info("Program finished", "duration", time.Since(start))
	case errors.Is(progErr, context.Canceled):
		a.Logger.Warn("Program interrupted", "duration", time.Since(start))
	default:
		a.Logger.Error("Program failed", "duration", time.Since(start), "error", progErr)
	}

	if mon != nil {
		mon.Stop()
		a.Logger.Info("Sensor monitor stopped", "pathLengthCm", mon.PathLength())
	}
	_ = robot.Close()

	syncCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := journal.Sync(syncCtx); err != nil {
		a.Logger.Warn("Journal did not drain", "error", err)
	}
	ended := a.Session.End()
	if err := backend.EndSession(ended); err != nil {
		a.Logger.Error("Failed to end session journal", "error", err)
	}
	a.Logger.Info("Session ended",
		"session", ended.UUID,
		"dropped", journal.Dropped(),
		"failed", journal.Failed(),
	)

	if runOpts.upload {
		if err := a.uploadSession(context.Background(), backend); err != nil {
			a.Logger.Error("Upload failed", "error", err)
		}
	}
	return progErr
}

// uploadSession posts the exported session file of backend.
func (a *app) uploadSession(ctx context.Context, backend storage.Backend) error {
	up, ok := backend.(storage.Uploadable)
	if !ok {
		return fmt.Errorf("storage backend %T does not export session files", backend)
	}
	path := up.GetExportedFilePath()
	if path == "" {
		return errors.New("no exported session file")
	}
	apiCfg := config.GetAPIConfig()
	client := api.New(apiCfg.ServerURL, apiCfg.APIKey, apiCfg.Timeout)
	if err := client.Upload(ctx, path, up.GetExportMetadata()); err != nil {
		return err
	}
	a.Logger.Info("Uploaded session", "file", path, "server", apiCfg.ServerURL)
	return nil
}
