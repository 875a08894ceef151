package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSignatureKey is the HMAC key shipped with the mobile application
	DefaultSignatureKey = "937463b5272b5d60e9d20f0f8d7d192193dd95095a3ad43725d494300a5ea5fc"
	DefaultBaseURL      = "https://i.instagram.com/api/v1/"
	DefaultChunkSize    = 204800

	envPrefix = "IGMOBILE_"
)

// Config holds all configuration options for the mobile API client
type Config struct {
	Account   AccountConfig   `yaml:"account" json:"account"`
	API       APIConfig       `yaml:"api" json:"api"`
	Device    DeviceConfig    `yaml:"device" json:"device"`
	Upload    UploadConfig    `yaml:"upload" json:"upload"`
	State     StateConfig     `yaml:"state" json:"state"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry" json:"retry"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// AccountConfig holds the login credentials
type AccountConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
}

// APIConfig describes the backend and the request signing parameters
type APIConfig struct {
	BaseURL             string        `yaml:"base_url" json:"base_url"`
	SignatureKey        string        `yaml:"signature_key" json:"signature_key"`
	SignatureKeyVersion string        `yaml:"signature_key_version" json:"signature_key_version"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
}

// DeviceConfig selects the emulated handset
type DeviceConfig struct {
	Preset string `yaml:"preset" json:"preset"`
}

type UploadConfig struct {
	ChunkSize int64 `yaml:"chunk_size" json:"chunk_size"`
}

// StateConfig controls where the session state is persisted
type StateConfig struct {
	// Backend is one of file, encrypted, keyring
	Backend    string `yaml:"backend" json:"backend"`
	// Path is the directory file based backends keep one record per account in
	Path       string `yaml:"path" json:"path"`
	Passphrase string `yaml:"passphrase" json:"-"`
}

// Rate limiting strategies
const (
	RateLimitSlidingWindow = "sliding_window"
	RateLimitTokenBucket   = "token_bucket"
)

// Retry backoff kinds
const (
	BackoffExponential = "exponential"
	BackoffConstant    = "constant"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool   `yaml:"enabled" json:"enabled"`
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	// Strategy is sliding_window or token_bucket. The token bucket lets
	// BurstSize requests through at once and refills at the per minute rate.
	Strategy  string `yaml:"strategy" json:"strategy"`
	BurstSize int    `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig configures retries of idempotent requests
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
	// Backoff is exponential or constant; constant waits BaseDelay every time
	Backoff string `yaml:"backoff" json:"backoff"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:             DefaultBaseURL,
			SignatureKey:        DefaultSignatureKey,
			SignatureKeyVersion: "4",
			Timeout:             30 * time.Second,
		},
		Device: DeviceConfig{
			Preset: "samsung-galaxy-s7-edge",
		},
		Upload: UploadConfig{
			ChunkSize: DefaultChunkSize,
		},
		State: StateConfig{
			Backend: "file",
			Path:    defaultStatePath(),
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			Strategy:          RateLimitSlidingWindow,
			BurstSize:         10,
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    30 * time.Second,
			Multiplier:  2.0,
			Backoff:     BackoffExponential,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultStatePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "igmobile", "state")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "igmobile", "state")
}

// LoadFromEnv loads configuration from IGMOBILE_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
			return
		}
		*dst = n
	}
	setBool := func(name string, dst *bool) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = strings.ToLower(v) == "true"
		}
	}

	setString("USERNAME", &c.Account.Username)
	setString("PASSWORD", &c.Account.Password)
	setString("BASE_URL", &c.API.BaseURL)
	setString("SIGNATURE_KEY", &c.API.SignatureKey)
	setString("SIGNATURE_KEY_VERSION", &c.API.SignatureKeyVersion)
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.API.Timeout = d
		}
	}
	setString("DEVICE", &c.Device.Preset)
	setString("STATE_BACKEND", &c.State.Backend)
	setString("STATE_PATH", &c.State.Path)
	setString("STATE_PASSPHRASE", &c.State.Passphrase)
	setBool("RATE_LIMIT_ENABLED", &c.RateLimit.Enabled)
	setInt("REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute)
	setString("RATE_LIMIT_STRATEGY", &c.RateLimit.Strategy)
	setInt("RATE_LIMIT_BURST", &c.RateLimit.BurstSize)
	setBool("RETRY_ENABLED", &c.Retry.Enabled)
	setInt("RETRY_MAX_ATTEMPTS", &c.Retry.MaxAttempts)
	setString("RETRY_BACKOFF", &c.Retry.Backoff)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igmobile.yaml",
		".igmobile.yml",
		filepath.Join(home, ".config", "igmobile", "config.yaml"),
		filepath.Join(home, ".config", "igmobile", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("api base url must be an absolute url"))
	}
	if c.API.SignatureKey == "" {
		errs = append(errs, errors.New("signature key is required"))
	}
	if c.API.SignatureKeyVersion == "" {
		errs = append(errs, errors.New("signature key version is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	if c.Upload.ChunkSize <= 0 {
		errs = append(errs, errors.New("upload chunk size must be positive"))
	}

	switch c.State.Backend {
	case "file", "keyring":
	case "encrypted":
		if c.State.Passphrase == "" {
			errs = append(errs, errors.New("encrypted state backend requires a passphrase"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown state backend %q", c.State.Backend))
	}
	if c.State.Backend != "keyring" && c.State.Path == "" {
		errs = append(errs, errors.New("state path is required"))
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	switch c.RateLimit.Strategy {
	case "", RateLimitSlidingWindow, RateLimitTokenBucket:
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit strategy %q", c.RateLimit.Strategy))
	}
	if c.Retry.Enabled && c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}
	switch c.Retry.Backoff {
	case "", BackoffExponential, BackoffConstant:
	default:
		errs = append(errs, fmt.Errorf("unknown retry backoff %q", c.Retry.Backoff))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["username"].(string); ok && v != "" {
		c.Account.Username = v
	}
	if v, ok := flags["device"].(string); ok && v != "" {
		c.Device.Preset = v
	}
	if v, ok := flags["state"].(string); ok && v != "" {
		c.State.Path = v
	}
	if v, ok := flags["state-backend"].(string); ok && v != "" {
		c.State.Backend = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igmobile.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
