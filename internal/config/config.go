// Package config loads sphero_bridge.cfg.json through viper and exposes typed
// views of each section.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "sphero_bridge.cfg.json"

// RuntimeConfig selects how programs reach the robot.
type RuntimeConfig struct {
	// Type is "websocket" or "sim".
	Type             string        `json:"type" mapstructure:"type"`
	URL              string        `json:"url" mapstructure:"url"`
	Secret           string        `json:"secret" mapstructure:"secret"`
	CallTimeout      time.Duration `json:"callTimeout" mapstructure:"callTimeout"`
	MaxReconnect     int           `json:"maxReconnect" mapstructure:"maxReconnect"`
	ReconnectBackoff time.Duration `json:"reconnectBackoff" mapstructure:"reconnectBackoff"`
	EventBuffer      int           `json:"eventBuffer" mapstructure:"eventBuffer"`
	Robot            string        `json:"robot" mapstructure:"robot"`
	TimeScale        float64       `json:"timeScale" mapstructure:"timeScale"`
	ListenAddr       string        `json:"listenAddr" mapstructure:"listenAddr"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds local journal settings.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// PostgresConfig holds shared journal settings.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// DSN returns the connection string for the postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

// StorageConfig selects the session journal backend.
type StorageConfig struct {
	// Type is "memory", "sqlite", "postgres" or "none".
	Type          string         `json:"type" mapstructure:"type"`
	BatchSize     int            `json:"batchSize" mapstructure:"batchSize"`
	FlushInterval time.Duration  `json:"flushInterval" mapstructure:"flushInterval"`
	Memory        MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite        SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres      PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// OTelConfig configures the OpenTelemetry log provider.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
	// Headers are sent with OTLP requests.
	Headers map[string]string `json:"headers" mapstructure:"headers"`
	// Attributes are added to the OTel resource.
	Attributes map[string]string `json:"attributes" mapstructure:"attributes"`
}

// MonitorConfig configures sensor polling.
type MonitorConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// InfluxConfig configures the sensor time series output.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig configures GELF log output.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// APIConfig configures the classroom server used for uploads.
type APIConfig struct {
	ServerURL string        `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey    string        `json:"apiKey" mapstructure:"apiKey"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("defaultTag", "Lesson")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logRetention", "168h")

	viper.SetDefault("runtime.type", "sim")
	viper.SetDefault("runtime.url", "ws://localhost:8765/runtime")
	viper.SetDefault("runtime.secret", "")
	viper.SetDefault("runtime.callTimeout", "30s")
	viper.SetDefault("runtime.maxReconnect", 10)
	viper.SetDefault("runtime.reconnectBackoff", "1s")
	viper.SetDefault("runtime.eventBuffer", 64)
	viper.SetDefault("runtime.robot", "BOLT")
	viper.SetDefault("runtime.timeScale", 1.0)
	viper.SetDefault("runtime.listenAddr", ":8765")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.timeout", "30s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.batchSize", 500)
	viper.SetDefault("storage.flushInterval", "2s")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./sessions/journal.db")
	viper.SetDefault("storage.sqlite.dumpInterval", 30*time.Second)
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "sphero")
	viper.SetDefault("storage.postgres.sslmode", "disable")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", "500ms")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "sphero-edu")
	viper.SetDefault("influx.bucket", "telemetry")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "sphero-bridge")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

func GetRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Type:             viper.GetString("runtime.type"),
		URL:              viper.GetString("runtime.url"),
		Secret:           viper.GetString("runtime.secret"),
		CallTimeout:      viper.GetDuration("runtime.callTimeout"),
		MaxReconnect:     viper.GetInt("runtime.maxReconnect"),
		ReconnectBackoff: viper.GetDuration("runtime.reconnectBackoff"),
		EventBuffer:      viper.GetInt("runtime.eventBuffer"),
		Robot:            viper.GetString("runtime.robot"),
		TimeScale:        viper.GetFloat64("runtime.timeScale"),
		ListenAddr:       viper.GetString("runtime.listenAddr"),
	}
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		BatchSize:     viper.GetInt("storage.batchSize"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
			SSLMode:  viper.GetString("storage.postgres.sslmode"),
		},
	}
}

func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
		Headers:      viper.GetStringMapString("otel.headers"),
		Attributes:   viper.GetStringMapString("otel.attributes"),
	}
}

func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:  viper.GetBool("monitor.enabled"),
		Interval: viper.GetDuration("monitor.interval"),
	}
}

func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

func GetAPIConfig() APIConfig {
	return APIConfig{
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		Timeout:   viper.GetDuration("api.timeout"),
	}
}
