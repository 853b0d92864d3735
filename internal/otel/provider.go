// Package otel sets up the OpenTelemetry log provider behind the slog
// bridge. Records are exported to the log file and, when an endpoint is
// configured, to an OTLP/HTTP collector.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/spheroedu/bridge/internal/config"
)

// Version is reported as the service version.
var Version = "dev"

var errNoOutput = errors.New("otel enabled but no log writer or endpoint configured")

// Config holds OTel configuration
type Config struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	// LogWriter receives pretty-printed OTel records, usually the log file.
	LogWriter io.Writer
	// Endpoint is an OTLP/HTTP collector (host:port). Empty skips it.
	Endpoint string
	Insecure bool
	// Headers are sent with every OTLP request, e.g. an API key.
	Headers map[string]string
	// Attributes are added to the resource, e.g. the classroom name.
	Attributes map[string]string
}

// FromSettings builds a Config from the otel section of the config file.
func FromSettings(c config.OTelConfig, w io.Writer) Config {
	return Config{
		Enabled:      c.Enabled,
		ServiceName:  c.ServiceName,
		BatchTimeout: c.BatchTimeout,
		LogWriter:    w,
		Endpoint:     c.Endpoint,
		Insecure:     c.Insecure,
		Headers:      c.Headers,
		Attributes:   c.Attributes,
	}
}

// Provider owns the OTel log provider. The zero-config Provider is a no-op.
type Provider struct {
	logProvider *sdklog.LoggerProvider
	config      Config
	shutdown    sync.Once
	shutdownErr error
}

// New creates a provider. When cfg.Enabled is false it returns a no-op
// provider whose LoggerProvider is nil.
func New(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}

	ctx := context.Background()
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporters []sdklog.Exporter
	if cfg.LogWriter != nil {
		e, err := stdoutlog.New(stdoutlog.WithWriter(cfg.LogWriter), stdoutlog.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create file log exporter: %w", err)
		}
		exporters = append(exporters, e)
	}
	if cfg.Endpoint != "" {
		e, err := newOTLPExporter(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		exporters = append(exporters, e)
	}
	if len(exporters) == 0 {
		return nil, errNoOutput
	}

	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, e := range exporters {
		var batch []sdklog.BatchProcessorOption
		if cfg.BatchTimeout > 0 {
			batch = append(batch, sdklog.WithExportTimeout(cfg.BatchTimeout))
		}
		opts = append(opts, sdklog.WithProcessor(sdklog.NewBatchProcessor(e, batch...)))
	}
	p.logProvider = sdklog.NewLoggerProvider(opts...)
	return p, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(Version),
	}
	keys := make([]string, 0, len(cfg.Attributes))
	for k := range cfg.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, cfg.Attributes[k]))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

func newOTLPExporter(ctx context.Context, cfg Config) (sdklog.Exporter, error) {
	opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(cfg.Headers))
	}
	return otlploghttp.New(ctx, opts...)
}

// LoggerProvider returns the log provider for the otelslog bridge, or nil
// when OTel is disabled.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	return p.logProvider
}

// Flush exports pending records. Called when a session ends.
func (p *Provider) Flush(ctx context.Context) error {
	if p.logProvider == nil {
		return nil
	}
	if err := p.logProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("log flush failed: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the exporters. Later calls return the first
// result.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.logProvider == nil {
		return nil
	}
	p.shutdown.Do(func() {
		if err := p.logProvider.Shutdown(ctx); err != nil {
			p.shutdownErr = fmt.Errorf("log shutdown failed: %w", err)
		}
	})
	return p.shutdownErr
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}
