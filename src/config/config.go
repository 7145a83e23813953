package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"live-indices/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, read after the YAML file (and an optional .env)
const (
	EnvBackendURL = "LIVE_INDICES_BACKEND_URL"
	EnvPort       = "LIVE_INDICES_PORT"
	EnvGrpcPort   = "LIVE_INDICES_GRPC_PORT"
	EnvNATSURL    = "LIVE_INDICES_NATS_URL"
	EnvLogLevel   = "LIVE_INDICES_LOG_LEVEL"
)

// DefaultEntities are the indices shown on the home dashboard.
var DefaultEntities = []models.MEntity{
	{Key: "nifty50", Label: "NIFTY 50"},
	{Key: "banknifty", Label: "BANK NIFTY"},
	{Key: "sensex", Label: "SENSEX"},
	{Key: "niftyfin", Label: "NIFTY FIN"},
	{Key: "niftynext50", Label: "NIFTY NEXT 50"},
	{Key: "nifty100", Label: "NIFTY 100"},
	{Key: "indiavix", Label: "INDIA VIX"},
}

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Optional .env next to the working directory; a missing file is fine
	_ = godotenv.Load()

	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse builds a Config from YAML bytes, applying defaults and env overrides.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Backend.LiveIndicesPath == "" {
		c.Backend.LiveIndicesPath = "/api/live-indices"
	}
	if c.Backend.NSEIndicesPath == "" {
		c.Backend.NSEIndicesPath = "/api/nse-indices"
	}
	if c.Backend.NSEChartPath == "" {
		c.Backend.NSEChartPath = "/api/nse-chart/"
	}
	if c.Backend.FIIDIIPath == "" {
		c.Backend.FIIDIIPath = "/api/live-fii-dii"
	}
	if c.Polling.FastIntervalMillis == 0 {
		c.Polling.FastIntervalMillis = 1000
	}
	if c.Polling.MediumIntervalSeconds == 0 {
		c.Polling.MediumIntervalSeconds = 5
	}
	if c.Polling.SlowIntervalSeconds == 0 {
		c.Polling.SlowIntervalSeconds = 60
	}
	if c.Session.Timezone == "" {
		c.Session.Timezone = "Asia/Kolkata"
	}
	if c.Session.Start == "" {
		c.Session.Start = "09:00"
	}
	if c.Session.End == "" {
		c.Session.End = "15:30"
	}
	if c.Session.MIC == "" {
		c.Session.MIC = "xnse"
	}
	if len(c.Entities) == 0 {
		c.Entities = append([]models.MEntity(nil), DefaultEntities...)
	}
	if c.DefaultEntity == "" {
		c.DefaultEntity = c.Entities[0].Key
	}
	if !c.Page.Cards && !c.Page.Detail && c.Page.ChartID == "" && !c.Page.Flows {
		c.Page = models.MPageConfig{Cards: true, Detail: true, ChartID: "indexChart", Flows: true}
	}
	if c.NATS.ClientID == "" {
		c.NATS.ClientID = c.Name
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "live_indices"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "live_indices"
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.NATS.URL = v
		c.NATS.Enabled = true
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvGrpcPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", EnvGrpcPort, v, err)
		}
		c.GrpcPort = port
	}
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Server
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid gRPC port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}

	// Backend
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url cannot be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base_url must be http(s): %s", c.Backend.BaseURL)
	}

	// Network
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Polling
	if c.Polling.FastIntervalMillis <= 0 || c.Polling.MediumIntervalSeconds <= 0 || c.Polling.SlowIntervalSeconds <= 0 {
		return fmt.Errorf("polling intervals must be greater than 0")
	}

	// Session
	if _, err := time.LoadLocation(c.Session.Timezone); err != nil {
		return fmt.Errorf("invalid session timezone '%s': %w", c.Session.Timezone, err)
	}

	// Entities
	seen := make(map[string]struct{}, len(c.Entities))
	for i, e := range c.Entities {
		if e.Key == "" {
			return fmt.Errorf("entity %d must have a key", i)
		}
		if _, dup := seen[e.Key]; dup {
			return fmt.Errorf("duplicate entity key '%s'", e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	if _, ok := seen[c.DefaultEntity]; !ok {
		return fmt.Errorf("default entity '%s' is not a configured entity", c.DefaultEntity)
	}

	// NATS
	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("nats url cannot be empty when nats is enabled")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// EntityKeys returns the configured entity keys in display order.
func (c *Config) EntityKeys() []string {
	keys := make([]string, 0, len(c.Entities))
	for _, e := range c.Entities {
		keys = append(keys, e.Key)
	}
	return keys
}

// -----------------------------------------------------------------------------

// FastInterval, MediumInterval and SlowInterval return the poll cadences.
func (c *Config) FastInterval() time.Duration {
	return time.Duration(c.Polling.FastIntervalMillis) * time.Millisecond
}

func (c *Config) MediumInterval() time.Duration {
	return time.Duration(c.Polling.MediumIntervalSeconds) * time.Second
}

func (c *Config) SlowInterval() time.Duration {
	return time.Duration(c.Polling.SlowIntervalSeconds) * time.Second
}
