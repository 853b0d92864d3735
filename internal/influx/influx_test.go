package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/config"
	"github.com/spheroedu/bridge/pkg/core"
)

var session = core.Session{UUID: "abc", Program: "square", Robot: core.RobotBOLT}

func TestSamplePoint(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := SamplePoint(session, core.SensorSample{
		Time:     ts,
		Location: core.Vector2{X: 1, Y: 2},
		Heading:  90,
		Speed:    120,
	})

	assert.Equal(t, Measurement, p.Name())
	assert.Equal(t, ts, p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"session": "abc", "program": "square", "robot": "BOLT"}, tags)

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, 1.0, fields["x"])
	assert.Equal(t, 2.0, fields["y"])
	assert.Equal(t, 90.0, fields["heading"])
	assert.Equal(t, 120.0, fields["speed"])
	assert.Len(t, fields, 16)
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.True(t, errors.Is(m.Connect(context.Background()), ErrDisabled))
}

func TestConnect_FallsBackToBackup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	host, port, _ := strings.Cut(strings.TrimPrefix(srv.URL, "http://"), ":")
	backup := filepath.Join(t.TempDir(), "influx", "backup.lp.gz")
	m := NewManager(config.InfluxConfig{
		Enabled: true, Protocol: "http", Host: host, Port: port, Org: "o", Bucket: "b",
	}, zerolog.Nop(), backup)

	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.IsValid)
	require.NotNil(t, m.BackupWriter)

	require.NoError(t, m.WriteSample(session, core.SensorSample{
		Time: time.Unix(1, 0), Heading: 45,
	}))
	require.NoError(t, m.Close())

	f, err := os.Open(backup)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)

	line := string(data)
	assert.True(t, strings.HasPrefix(line, "sensors,"), line)
	assert.Contains(t, line, "robot=BOLT")
	assert.Contains(t, line, "heading=45")
	assert.Contains(t, line, " 1000000000")
}

func TestWritePoint_NotConnected(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.Error(t, m.WriteSample(session, core.SensorSample{}))
	assert.NoError(t, m.Close())
}
