package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantLogPr bool
	}{
		{name: "disabled", cfg: Config{}},
		{name: "enabled without output", cfg: Config{Enabled: true, ServiceName: "x"}, wantErr: true},
		{name: "file exporter", cfg: Config{Enabled: true, ServiceName: "sphero-bridge", BatchTimeout: time.Second, LogWriter: &bytes.Buffer{}}, wantLogPr: true},
		{
			name: "file exporter with attributes",
			cfg: Config{
				Enabled:    true,
				LogWriter:  &bytes.Buffer{},
				Attributes: map[string]string{"classroom": "room-4", "host": "lab-pc"},
			},
			wantLogPr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, errNoOutput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Enabled, p.Enabled())
			assert.Equal(t, tt.wantLogPr, p.LoggerProvider() != nil)
			assert.NoError(t, p.Flush(context.Background()))
			assert.NoError(t, p.Shutdown(context.Background()))
		})
	}
}

func TestShutdownTwice(t *testing.T) {
	p, err := New(Config{Enabled: true, LogWriter: &bytes.Buffer{}})
	require.NoError(t, err)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	Version = "1.2.3"
	t.Cleanup(func() { Version = "dev" })

	res, err := newResource(context.Background(), Config{
		ServiceName: "svc",
		Attributes:  map[string]string{"classroom": "room-4"},
	})
	require.NoError(t, err)

	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "svc", got["service.name"])
	assert.Equal(t, "1.2.3", got["service.version"])
	assert.Equal(t, "room-4", got["classroom"])
}

func TestFromSettings(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromSettings(config.OTelConfig{
		Enabled:      true,
		ServiceName:  "svc",
		BatchTimeout: 3 * time.Second,
		Endpoint:     "collector:4318",
		Insecure:     true,
		Headers:      map[string]string{"x-api-key": "k"},
		Attributes:   map[string]string{"classroom": "room-4"},
	}, &buf)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, 3*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "collector:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "k", cfg.Headers["x-api-key"])
	assert.Equal(t, "room-4", cfg.Attributes["classroom"])
	assert.Same(t, &buf, cfg.LogWriter)
}
