package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/objectfs/s3fs/internal/metrics"
	storages3 "github.com/objectfs/s3fs/internal/storage/s3"
	"github.com/objectfs/s3fs/pkg/types"
)

// Configuration represents the complete filesystem configuration.
type Configuration struct {
	Bucket     string             `yaml:"bucket"`
	RootPrefix string             `yaml:"root_prefix"`
	Delimiter  string             `yaml:"delimiter"`
	Strict     bool               `yaml:"strict"`
	S3         storages3.Config   `yaml:"s3"`
	Upload     types.UploadArgs   `yaml:"upload"`
	Download   types.DownloadArgs `yaml:"download"`
	Logging    LoggingConfig      `yaml:"logging"`
	Metrics    metrics.Config     `yaml:"metrics"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Delimiter: "/",
		Strict:    true,
		S3:        *storages3.NewDefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: metrics.Config{
			Enabled:   false,
			Namespace: "s3fs",
		},
	}
}

// Load reads a YAML configuration file, layering it over the defaults and
// then applying environment overrides.
func Load(path string) (*Configuration, error) {
	cfg := NewDefault()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironment overrides configuration fields from the process
// environment.
func (c *Configuration) applyEnvironment() {
	if v := os.Getenv("S3FS_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("S3FS_ROOT_PREFIX"); v != "" {
		c.RootPrefix = v
	}
	if v := os.Getenv("S3FS_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("S3FS_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("S3FS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("S3FS_STRICT"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Strict = strict
		}
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Configuration) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket must be set")
	}
	if len(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.Format)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return c.S3.Validate()
}

// BuildLogger constructs a slog.Logger from the logging configuration.
func (c *Configuration) BuildLogger() *slog.Logger {
	level, _ := parseLevel(c.Logging.Level)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "", "info", "INFO":
		return slog.LevelInfo, nil
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "warn", "WARN":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
