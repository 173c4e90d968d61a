package s3

import "fmt"

// Config represents S3 client configuration.
type Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	ForcePathStyle  bool   `yaml:"force_path_style"`

	// Performance settings
	MaxRetries  int   `yaml:"max_retries"`
	PartSize    int64 `yaml:"part_size"`
	Concurrency int   `yaml:"concurrency"`

	// Advanced settings
	UseAccelerate bool `yaml:"use_accelerate"`
	UseDualStack  bool `yaml:"use_dual_stack"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Region:      "us-east-1",
		MaxRetries:  3,
		PartSize:    16 * 1024 * 1024,
		Concurrency: 4,
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("access_key_id and secret_access_key must be set together")
	}
	if c.PartSize < 0 {
		return fmt.Errorf("part_size cannot be negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	return nil
}

// applyDefaults fills zero-valued performance settings.
func (c *Config) applyDefaults() {
	def := NewDefaultConfig()
	if c.Region == "" {
		c.Region = def.Region
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.PartSize == 0 {
		c.PartSize = def.PartSize
	}
	if c.Concurrency == 0 {
		c.Concurrency = def.Concurrency
	}
}
