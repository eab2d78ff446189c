package config

//go:generate go run ../../cmd/schema/main.go schema.json

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=127.0.0.1:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=HTTP server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:trendscope.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	YouTube YouTubeConfig `yaml:"youtube" json:"youtube" jsonschema:"description=Video provider configuration"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Favorite refresh configuration"`
}

// YouTubeConfig holds provider client settings
type YouTubeConfig struct {
	APIKey            string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key, seeds storage when no key is stored yet"`
	Endpoint          string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Base URL override for the data api"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second" jsonschema:"default=5,minimum=0,description=Client side request throttle, 0 disables it"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per call timeout"`
	DailyQuota        int           `yaml:"daily_quota" json:"daily_quota" jsonschema:"default=10000,minimum=1,description=Assumed daily quota limit until exhaustion reveals the real one"`
}

// ScheduleConfig holds favorite refresh settings
type ScheduleConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval" jsonschema:"default=15m,description=Periodic refresh interval"`
	CacheTTL       time.Duration `yaml:"cache_ttl" json:"cache_ttl" jsonschema:"default=2h,description=Favorite cache lifetime"`
	StaggerDelay   time.Duration `yaml:"stagger_delay" json:"stagger_delay" jsonschema:"default=300ms,description=Delay between consecutive favorite refreshes"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults applied, used when no config file is given
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = "127.0.0.1:8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:trendscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// provider
	if cfg.YouTube.RequestsPerSecond == 0 {
		cfg.YouTube.RequestsPerSecond = 5
	}
	if cfg.YouTube.Timeout == 0 {
		cfg.YouTube.Timeout = 30 * time.Second
	}
	if cfg.YouTube.DailyQuota == 0 {
		cfg.YouTube.DailyQuota = 10000
	}

	// schedule
	if cfg.Schedule.UpdateInterval == 0 {
		cfg.Schedule.UpdateInterval = 15 * time.Minute
	}
	if cfg.Schedule.CacheTTL == 0 {
		cfg.Schedule.CacheTTL = 2 * time.Hour
	}
	if cfg.Schedule.StaggerDelay == 0 {
		cfg.Schedule.StaggerDelay = 300 * time.Millisecond
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.YouTube.RequestsPerSecond < 0 {
		return fmt.Errorf("youtube.requests_per_second must be non-negative")
	}
	if cfg.YouTube.DailyQuota < 1 {
		return fmt.Errorf("youtube.daily_quota must be at least 1")
	}
	if cfg.YouTube.Timeout < 0 {
		return fmt.Errorf("youtube.timeout must be non-negative")
	}

	if cfg.Schedule.CacheTTL < time.Minute {
		return fmt.Errorf("schedule.cache_ttl must be at least 1 minute")
	}
	if cfg.Schedule.UpdateInterval < time.Minute {
		return fmt.Errorf("schedule.update_interval must be at least 1 minute")
	}
	if cfg.Schedule.StaggerDelay < 0 {
		return fmt.Errorf("schedule.stagger_delay must be non-negative")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetYouTubeConfig returns provider configuration
func (c *Config) GetYouTubeConfig() YouTubeConfig {
	return c.YouTube
}

// GetScheduleConfig returns refresh schedule configuration
func (c *Config) GetScheduleConfig() ScheduleConfig {
	return c.Schedule
}
