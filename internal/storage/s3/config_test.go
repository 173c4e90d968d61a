package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, int64(16*1024*1024), cfg.PartSize)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "full credentials",
			mutate: func(c *Config) { c.AccessKeyID = "AKID"; c.SecretAccessKey = "secret" },
		},
		{
			name:    "access key without secret",
			mutate:  func(c *Config) { c.AccessKeyID = "AKID" },
			wantErr: "must be set together",
		},
		{
			name:    "secret without access key",
			mutate:  func(c *Config) { c.SecretAccessKey = "secret" },
			wantErr: "must be set together",
		},
		{
			name:    "negative part size",
			mutate:  func(c *Config) { c.PartSize = -1 },
			wantErr: "part_size",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Concurrency = -1 },
			wantErr: "concurrency",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{Endpoint: "http://localhost:9000", Concurrency: 8}
	cfg.applyDefaults()

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, int64(16*1024*1024), cfg.PartSize)
	assert.Equal(t, 8, cfg.Concurrency, "explicit values survive")
	assert.Equal(t, "http://localhost:9000", cfg.Endpoint)
}
