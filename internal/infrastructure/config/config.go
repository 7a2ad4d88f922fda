package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Desktop   DesktopConfig
	Registry  RegistryConfig
	Session   SessionConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string   `envconfig:"PORT" default:"8000"`
	Host        string   `envconfig:"HOST" default:"0.0.0.0"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	Compression bool     `envconfig:"COMPRESSION_ENABLED" default:"true"`
}

// DesktopConfig holds window manager and shell layout settings.
type DesktopConfig struct {
	TaskbarHeight    int      `envconfig:"TASKBAR_HEIGHT" default:"48"`
	MobileBreakpoint int      `envconfig:"MOBILE_BREAKPOINT" default:"768"`
	FullscreenApps   []string `envconfig:"FULLSCREEN_APPS" default:"donate"`
	PinnedApps       []string `envconfig:"PINNED_APPS" default:"notepad,explorer,terminal,github,telegram"`
	HiddenApps       []string `envconfig:"HIDDEN_APPS" default:"settings,contact,donate"`
	MinWidth         int      `envconfig:"MIN_WINDOW_WIDTH" default:"300"`
	MinHeight        int      `envconfig:"MIN_WINDOW_HEIGHT" default:"200"`
}

// RegistryConfig holds app catalog settings.
type RegistryConfig struct {
	Glob string `envconfig:"REGISTRY_GLOB" default:""`
}

// SessionConfig holds desktop session settings.
type SessionConfig struct {
	IdleTTL            time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	ReapInterval       time.Duration `envconfig:"SESSION_REAP_INTERVAL" default:"1m"`
	ExternalCloseDelay time.Duration `envconfig:"EXTERNAL_CLOSE_DELAY" default:"100ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	LogsPerSecond     int  `envconfig:"LOG_INGEST_RPS" default:"20"` // Shared by all clients
	LogsBurst         int  `envconfig:"LOG_INGEST_BURST" default:"40"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.Desktop.TaskbarHeight < 0 {
		return fmt.Errorf("invalid config: TASKBAR_HEIGHT must not be negative")
	}
	if c.Desktop.MinWidth <= 0 || c.Desktop.MinHeight <= 0 {
		return fmt.Errorf("invalid config: minimum window size must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.LogsPerSecond <= 0 || c.RateLimit.LogsBurst <= 0) {
		return fmt.Errorf("invalid config: LOG_INGEST_RPS and LOG_INGEST_BURST must be positive")
	}
	if c.Session.ExternalCloseDelay < 0 {
		return fmt.Errorf("invalid config: EXTERNAL_CLOSE_DELAY must not be negative")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
			Compression: true,
		},
		Desktop: DesktopConfig{
			TaskbarHeight:    48,
			MobileBreakpoint: 768,
			FullscreenApps:   []string{"donate"},
			PinnedApps:       []string{"notepad", "explorer", "terminal", "github", "telegram"},
			HiddenApps:       []string{"settings", "contact", "donate"},
			MinWidth:         300,
			MinHeight:        200,
		},
		Session: SessionConfig{
			IdleTTL:            30 * time.Minute,
			ReapInterval:       time.Minute,
			ExternalCloseDelay: 100 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			LogsPerSecond:     20,
			LogsBurst:         40,
		},
	}
}
