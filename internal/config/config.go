// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Vision   VisionConfig   `yaml:"vision"`
	Images   ImagesConfig   `yaml:"images"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	SEO      SEOConfig      `yaml:"seo"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// VisionConfig defines AI vision analysis settings.
type VisionConfig struct {
	Backend   string          `yaml:"backend"` // anthropic, gemini
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// AnthropicConfig defines Anthropic API settings.
type AnthropicConfig struct {
	Model string `yaml:"model"`
}

// GeminiConfig defines Google Gemini API settings.
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// RateLimitConfig defines AI API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// ImagesConfig defines where photo bytes are fetched from.
type ImagesConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config defines the S3 bucket holding uploaded photos.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// PipelineConfig defines generation pipeline pacing and recovery.
type PipelineConfig struct {
	ItemDelay      time.Duration `yaml:"item_delay"`      // pause between candidates
	StuckThreshold time.Duration `yaml:"stuck_threshold"` // analyzing items older than this are demoted
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

// SEOConfig defines the optional keyword enrichment step.
type SEOConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyVisionDefaults(&cfg.Vision)
	applyPipelineDefaults(&cfg.Pipeline)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyVisionDefaults(v *VisionConfig) {
	if v.Backend == "" {
		v.Backend = "anthropic"
	}
	if v.Timeout == 0 {
		v.Timeout = 60 * time.Second
	}
	applyRateLimitDefaults(&v.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 1.0
	}
	if r.Burst == 0 {
		r.Burst = 2
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 1000
	}
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.ItemDelay == 0 {
		p.ItemDelay = 2 * time.Second
	}
	if p.StuckThreshold == 0 {
		p.StuckThreshold = 15 * time.Minute
	}
	if p.SweepInterval == 0 {
		p.SweepInterval = 5 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	switch cfg.Vision.Backend {
	case "anthropic":
		// API key comes from env, model must be set.
		if cfg.Vision.Anthropic.Model == "" {
			errs = append(
				errs,
				fmt.Errorf("vision.anthropic.model is required when backend is anthropic"),
			)
		}
	case "gemini":
		if cfg.Vision.Gemini.Model == "" {
			errs = append(
				errs,
				fmt.Errorf("vision.gemini.model is required when backend is gemini"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"vision.backend must be one of: anthropic, gemini (got %q)",
				cfg.Vision.Backend,
			),
		)
	}

	return errors.Join(errs...)
}
