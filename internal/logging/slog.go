package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Replaced in tests.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

// InstrumentationName names the OTel logger.
const InstrumentationName = "sphero-bridge"

// Options selects the outputs of a SlogManager.
type Options struct {
	// File receives text records. Nil logs to stdout instead.
	File io.Writer
	// Console also writes to stdout when File is set.
	Console bool
	Level   string
	// Provider adds the OTel bridge when non-nil.
	Provider *sdklog.LoggerProvider
	// Extra handlers (Graylog) share the level.
	Extra []slog.Handler
}

// SlogManager manages slog-based logging with optional OTel integration.
type SlogManager struct {
	logger      *slog.Logger
	level       slog.LevelVar
	logProvider *sdklog.LoggerProvider
	context     ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetContextProvider adds dynamic attributes (session, robot) to every record
// logged after the next Setup.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.context = p
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
		}
	}
	return a
}

// Setup (re)builds the logger from o. Loggers returned before the call keep
// their old outputs.
func (m *SlogManager) Setup(o Options) {
	m.level.Set(parseLevel(o.Level))
	m.logProvider = o.Provider

	handlerOpts := &slog.HandlerOptions{Level: &m.level, ReplaceAttr: utcTime}

	var handlers []slog.Handler
	switch {
	case o.File == nil:
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	case o.Console:
		handlers = append(handlers,
			slog.NewTextHandler(o.File, handlerOpts),
			slog.NewTextHandler(osStdout, handlerOpts))
	default:
		handlers = append(handlers, slog.NewTextHandler(o.File, handlerOpts))
	}
	if o.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(o.Provider)))
	}
	handlers = append(handlers, o.Extra...)

	var h slog.Handler = NewMultiHandler(handlers...)
	if m.context != nil {
		h = NewContextHandler(h, m.context)
	}

	m.logger = slog.New(h)
	m.logger.Debug("Logging initialized", "level", m.level.Level().String())
}

// SetLevel changes the level of the file and console outputs.
func (m *SlogManager) SetLevel(level string) {
	m.level.Set(parseLevel(level))
}

// Level returns the current level.
func (m *SlogManager) Level() slog.Level {
	return m.level.Level()
}

// Logger returns the configured slog.Logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
