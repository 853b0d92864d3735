package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"defaultTag": "Maze",
		"runtime": { "type": "websocket", "url": "ws://10.0.0.1:9000/runtime" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "Maze", viper.GetString("defaultTag"))
	assert.Equal(t, "websocket", viper.GetString("runtime.type"))
	assert.Equal(t, "ws://10.0.0.1:9000/runtime", viper.GetString("runtime.url"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "Lesson", viper.GetString("defaultTag"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 7*24*time.Hour, GetDuration("logRetention"))
	assert.Equal(t, "http://localhost:5000", viper.GetString("api.serverUrl"))
	assert.Equal(t, "", viper.GetString("api.apiKey"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./sessions", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, true, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "sphero-bridge", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("program", "square")
	viper.Set("retries", 3)
	viper.Set("upload", true)
	viper.Set("poll", "250ms")

	assert.Equal(t, "square", GetString("program"))
	assert.Equal(t, 3, GetInt("retries"))
	assert.True(t, GetBool("upload"))
	assert.Equal(t, 250*time.Millisecond, GetDuration("poll"))
	assert.Zero(t, GetDuration("missing"))
}

func TestGetRuntimeConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetRuntimeConfig()
	assert.Equal(t, "sim", cfg.Type)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
	assert.Equal(t, time.Second, cfg.ReconnectBackoff)
	assert.Equal(t, 10, cfg.MaxReconnect)
	assert.Equal(t, 64, cfg.EventBuffer)
	assert.Equal(t, "BOLT", cfg.Robot)
	assert.Equal(t, 1.0, cfg.TimeScale)
	assert.Equal(t, ":8765", cfg.ListenAddr)
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.FlushInterval)
	assert.Equal(t, "./sessions", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, "./sessions/journal.db", cfg.SQLite.Path)
	assert.Equal(t, 30*time.Second, cfg.SQLite.DumpInterval)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=sphero sslmode=disable", cfg.Postgres.DSN())
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "path": "/tmp/j.db" }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, "/tmp/j.db", sc.SQLite.Path)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "sphero-bridge", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4317",
			"insecure": false
		}
	}`)
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4317", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestSectionDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"influx": {"enabled": true, "host": "influx"}}`)))

	mc := GetMonitorConfig()
	assert.True(t, mc.Enabled)
	assert.Equal(t, 500*time.Millisecond, mc.Interval)

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "http://influx:8086", ic.URL())
	assert.Equal(t, "telemetry", ic.Bucket)

	gc := GetGraylogConfig()
	assert.False(t, gc.Enabled)

	ac := GetAPIConfig()
	assert.Equal(t, "http://localhost:5000", ac.ServerURL)
	assert.Equal(t, 30*time.Second, ac.Timeout)
}
