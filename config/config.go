package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/stoich/message"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "stoich.yaml"

// Config holds all stoich configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Batch   BatchConfig   `yaml:"batch"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the web UI.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// TemplatesDir overlays the embedded templates when set.
	TemplatesDir string          `yaml:"templates_dir"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig configures per-client token buckets on POST /balance.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// BatchConfig configures `stoich batch`.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig configures how results are shown.
type OutputConfig struct {
	Format string `yaml:"format"` // json, text
	Locale string `yaml:"locale"` // en, th
}

// LoggingConfig configures commonlog.
type LoggingConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format: "text",
			Locale: message.English,
		},
		Logging: LoggingConfig{
			Verbosity: 1,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("STOICH_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if locale := os.Getenv("STOICH_LOCALE"); locale != "" {
		c.Output.Locale = strings.ToLower(strings.TrimSpace(locale))
	}
	if file := os.Getenv("STOICH_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	if raw := strings.TrimSpace(os.Getenv("STOICH_WORKERS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.Batch.Workers = n
		}
	}
	if raw := strings.TrimSpace(os.Getenv("STOICH_RATE_LIMIT_RPS")); raw != "" {
		if rps, err := strconv.ParseFloat(raw, 64); err == nil && rps > 0 {
			c.Server.RateLimit.RPS = rps
		}
	}
	if raw := strings.TrimSpace(os.Getenv("STOICH_RATE_LIMIT_BURST")); raw != "" {
		if burst, err := strconv.Atoi(raw); err == nil && burst > 0 {
			c.Server.RateLimit.Burst = burst
		}
	}
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("server.rate_limit needs positive rps and burst"))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}
	switch c.Output.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("output.format must be json or text, got %q", c.Output.Format))
	}
	if !message.Supported(c.Output.Locale) {
		errs = append(errs, fmt.Errorf("output.locale %q is not supported", c.Output.Locale))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
