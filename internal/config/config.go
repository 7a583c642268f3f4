package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DatabasePath  string      `yaml:"database_path,omitempty"` // Fallback: data.db
	AppEnv        string      `yaml:"app_env,omitempty"`       // "dev" or "prod"
	LogLevel      string      `yaml:"log_level,omitempty"`     // debug, info, warn, error
	Charts        ChartConfig `yaml:"charts,omitempty"`
	MQTT          MQTTConfig  `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig    `yaml:"home_assistant,omitempty"`
}

// ChartConfig overrides chart drawing sizes; zero values keep the defaults
type ChartConfig struct {
	Width            float64 `yaml:"width,omitempty"`
	WeeklyHeight     float64 `yaml:"weekly_height,omitempty"`
	HalfHourlyHeight float64 `yaml:"half_hourly_height,omitempty"`
	CalendarCellSize float64 `yaml:"calendar_cell_size,omitempty"`
	CalendarCellGap  float64 `yaml:"calendar_cell_gap,omitempty"`
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // Fallback: gridstats
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.gridstats_total_kwh"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if _, err := cfg.GetLogLevel(); err != nil {
		return nil, err
	}
	if env := cfg.GetAppEnv(); env != "dev" && env != "prod" {
		return nil, fmt.Errorf("invalid app_env %q (allowed: dev, prod)", env)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDatabasePath returns the database path with a default of data.db
func (c *Config) GetDatabasePath() string {
	if c.DatabasePath == "" {
		return "data.db"
	}
	return c.DatabasePath
}

// GetAppEnv returns the app environment, defaulting to dev
func (c *Config) GetAppEnv() string {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	if env == "" {
		return "dev"
	}
	return env
}

// GetLogLevel parses the configured log level, defaulting to info
func (c *Config) GetLogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (allowed: debug, info, warn, error)", c.LogLevel)
	}
}

// GetTopicPrefix returns the MQTT topic prefix, defaulting to gridstats
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "gridstats"
	}
	return strings.TrimSuffix(c.MQTT.TopicPrefix, "/")
}
