package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultSignatureKey, cfg.API.SignatureKey)
	assert.Equal(t, "4", cfg.API.SignatureKeyVersion)
	assert.Equal(t, int64(204800), cfg.Upload.ChunkSize)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.NotEmpty(t, cfg.State.Path)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.True(t, cfg.Retry.Enabled)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGMOBILE_USERNAME", "env_user")
	t.Setenv("IGMOBILE_PASSWORD", "env_pass")
	t.Setenv("IGMOBILE_DEVICE", "lg-g5")
	t.Setenv("IGMOBILE_REQUESTS_PER_MINUTE", "120")
	t.Setenv("IGMOBILE_TIMEOUT", "5s")
	t.Setenv("IGMOBILE_RETRY_ENABLED", "false")
	t.Setenv("IGMOBILE_LOG_LEVEL", "debug")
	t.Setenv("IGMOBILE_RATE_LIMIT_STRATEGY", "token_bucket")
	t.Setenv("IGMOBILE_RETRY_BACKOFF", "constant")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env_user", cfg.Account.Username)
	assert.Equal(t, "env_pass", cfg.Account.Password)
	assert.Equal(t, "lg-g5", cfg.Device.Preset)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Retry.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, RateLimitTokenBucket, cfg.RateLimit.Strategy)
	assert.Equal(t, BackoffConstant, cfg.Retry.Backoff)
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("IGMOBILE_REQUESTS_PER_MINUTE", "lots")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IGMOBILE_REQUESTS_PER_MINUTE")
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("valid yaml file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := `
account:
  username: file_user
api:
  timeout: 10s
device:
  preset: htc-10
upload:
  chunk_size: 1024
state:
  backend: keyring
retry:
  max_attempts: 5
  base_delay: 2s
logging:
  level: warn
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFromFile(configPath))

		assert.Equal(t, "file_user", cfg.Account.Username)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
		assert.Equal(t, "htc-10", cfg.Device.Preset)
		assert.Equal(t, int64(1024), cfg.Upload.ChunkSize)
		assert.Equal(t, "keyring", cfg.State.Backend)
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
		assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("account: [unclosed"), 0644))

		err := DefaultConfig().LoadFromFile(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		err := DefaultConfig().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "api/v1" }, "base url"},
		{"empty key", func(c *Config) { c.API.SignatureKey = "" }, "signature key is required"},
		{"zero chunk", func(c *Config) { c.Upload.ChunkSize = 0 }, "chunk size"},
		{"unknown backend", func(c *Config) { c.State.Backend = "s3" }, "unknown state backend"},
		{"encrypted without passphrase", func(c *Config) { c.State.Backend = "encrypted" }, "passphrase"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, "max attempts"},
		{"unknown rate limit strategy", func(c *Config) { c.RateLimit.Strategy = "leaky" }, "unknown rate limit strategy"},
		{"unknown backoff", func(c *Config) { c.Retry.Backoff = "linear" }, "unknown retry backoff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"username":  "flag_user",
		"state":     "/tmp/igm",
		"log-level": "error",
		"device":    "",
	})

	assert.Equal(t, "flag_user", cfg.Account.Username)
	assert.Equal(t, "/tmp/igm", cfg.State.Path)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "samsung-galaxy-s7-edge", cfg.Device.Preset)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Account.Username = "saved_user"
	cfg.Account.Password = "secret"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved_user", loaded.Account.Username)
	assert.Equal(t, "secret", loaded.Account.Password)
}
