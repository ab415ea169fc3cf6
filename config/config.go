package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"bitwars/meta"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the agent configuration: defaults, then an optional YAML file,
// then environment variables.
type Config struct {
	ServerURL       string        `yaml:"server_url"`
	Transport       string        `yaml:"transport"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MaxBackoff      time.Duration `yaml:"max_backoff"`
	Goroutines      int           `yaml:"goroutines"`
	NeutralOverride bool          `yaml:"neutral_override"`
	LogLevel        string        `yaml:"log_level"`
	LogPretty       bool          `yaml:"log_pretty"`
	MetricsDir      string        `yaml:"metrics_dir"` // Empty disables tick records
}

func Default() *Config {
	return &Config{
		ServerURL:       meta.SERVER_URL,
		Transport:       meta.TRANSPORT,
		PollInterval:    meta.POLL_INTERVAL,
		MaxBackoff:      meta.MAX_BACKOFF,
		Goroutines:      meta.GO_ROUTINES,
		NeutralOverride: true,
		LogLevel:        meta.LOG_LEVEL,
		LogPretty:       true,
	}
}

// Load reads the YAML file at path, if any, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of a dotenv file without overriding the
// ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerURL = envOrDefault("BITWARS_SERVER_URL", c.ServerURL)
	c.Transport = envOrDefault("BITWARS_TRANSPORT", c.Transport)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.MetricsDir = envOrDefault("BITWARS_METRICS_DIR", c.MetricsDir)

	var err error
	if c.PollInterval, err = envDuration("BITWARS_POLL_INTERVAL", c.PollInterval); err != nil {
		return err
	}
	if c.MaxBackoff, err = envDuration("BITWARS_MAX_BACKOFF", c.MaxBackoff); err != nil {
		return err
	}
	if c.Goroutines, err = envInt("BITWARS_GOROUTINES", c.Goroutines); err != nil {
		return err
	}
	if c.NeutralOverride, err = envBool("BITWARS_NEUTRAL_OVERRIDE", c.NeutralOverride); err != nil {
		return err
	}
	if c.LogPretty, err = envBool("LOG_PRETTY", c.LogPretty); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url must be set")
	}
	if c.Transport != "http" && c.Transport != "ws" {
		return fmt.Errorf("unknown transport %q, want http or ws", c.Transport)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max backoff must be positive, got %s", c.MaxBackoff)
	}
	if c.Goroutines <= 0 {
		return fmt.Errorf("goroutines must be positive, got %d", c.Goroutines)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
