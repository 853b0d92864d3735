package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/internal/logging"
	intOtel "github.com/spheroedu/bridge/internal/otel"
	"github.com/spheroedu/bridge/internal/session"
)

func configFileName() string {
	return config.FileName
}

// app holds the ambient services shared by every command.
type app struct {
	Session      *session.Context
	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	ZLogger      zerolog.Logger
	OTelProvider *intOtel.Provider

	LogFile     *os.File
	LogFilePath string
	StartTime   time.Time

	closers []io.Closer
}

// newApp loads the config and sets up logging for the named command.
func newApp(command string) (*app, error) {
	a := &app{
		Session:     session.NewContext(),
		SlogManager: logging.NewSlogManager(),
		StartTime:   time.Now(),
	}
	a.SlogManager.SetContextProvider(a.Session.LogAttrs)

	// Initial console logging until the config is known
	a.SlogManager.Setup(logging.Options{Level: "info"})
	a.Logger = a.SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		a.Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		a.Logger.Debug("Loaded config", "dir", configDir)
	}

	level := config.GetString("logLevel")
	if logLevel != "" {
		level = logLevel
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	a.LogFilePath = logging.LogFilePath(logsDir, AppName+"."+command, a.StartTime)
	if _, err := os.Stat(a.LogFilePath); err == nil {
		_ = os.Rename(a.LogFilePath, a.LogFilePath+".old")
	}
	f, err := os.OpenFile(a.LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	a.LogFile = f
	a.closers = append(a.closers, f)

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		intOtel.Version = CurrentVersion
		a.OTelProvider, err = intOtel.New(intOtel.FromSettings(otelCfg, f))
		if err != nil {
			a.Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			a.Logger.Info("OTel provider initialized", "file", a.LogFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			a.Logger.Info("OTel provider initialized", "file", a.LogFilePath)
		}
	}

	var extra []slog.Handler
	if gl := config.GetGraylogConfig(); gl.Enabled {
		h, w, err := logging.NewGraylogHandler(gl.Address, level)
		if err != nil {
			a.Logger.Error("Failed to connect to Graylog", "address", gl.Address, "error", err)
		} else {
			extra = append(extra, h)
			a.closers = append(a.closers, w)
		}
	}

	a.SlogManager.Setup(logging.Options{
		File:     f,
		Console:  true,
		Level:    level,
		Provider: a.otelLogProvider(),
		Extra:    extra,
	})
	a.Logger = a.SlogManager.Logger().With("command", command)
	a.ZLogger = newZerolog(f, level, a.Session)

	a.Logger.Info("Starting", "version", CurrentVersion, "build", BuildDate, "log", a.LogFilePath)

	removed, err := logging.RemoveOldLogs(logsDir, config.GetDuration("logRetention"), a.StartTime)
	if err != nil {
		a.Logger.Warn("Failed to remove old logs", "error", err)
	} else if len(removed) > 0 {
		a.Logger.Debug("Removed old logs", "count", len(removed))
	}
	return a, nil
}

// newZerolog builds the console and file zerolog logger used by the
// database and Influx managers and by event delivery.
func newZerolog(file io.Writer, level string, sess *session.Context) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	mlw := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
		zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		},
	)

	return zerolog.New(mlw).Level(lvl).With().Timestamp().Logger().
		Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
			if s := sess.Current(); s != nil {
				e.Str("session", s.UUID).Str("robot", string(s.Robot))
			}
		}))
}

func (a *app) otelLogProvider() *sdklog.LoggerProvider {
	if a.OTelProvider == nil {
		return nil
	}
	return a.OTelProvider.LoggerProvider()
}

// Close flushes telemetry and closes log outputs.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.SlogManager.Flush(ctx); err != nil {
		a.Logger.Warn("Failed to flush logs", "error", err)
	}
	if a.OTelProvider != nil {
		if err := a.OTelProvider.Shutdown(ctx); err != nil {
			a.Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
