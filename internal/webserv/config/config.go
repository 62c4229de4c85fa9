// Package config loads and validates the hedyserv configuration. The
// configuration is a TOML file; secrets (session signing key, log sink API
// key) may be supplied through the environment or a local .env file and
// override the file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	// ConfigFormatVersion is the current version of the configuration file format
	ConfigFormatVersion = "0.1.0"

	// DefaultConfigFile is used when no config file is given on the command line.
	DefaultConfigFile = "config.toml"

	envSessionKey = "HEDYSERV_SESSION_KEY"
	envLogSinkKey = "HEDYSERV_LOGSINK_KEY"
)

// ContentConfig holds the content store backing file locations.
type ContentConfig struct {
	LevelsPath string `toml:"levels_path" validate:"required"` // path to the level definitions document
	TextsPath  string `toml:"texts_path" validate:"required"`  // path to the localized text bundles document
	StaticDir  string `toml:"static_dir"`                      // directory served under /static/
}

// SessionConfig holds session cookie configuration. The signing key is the
// per-process secret used to authenticate session cookies.
type SessionConfig struct {
	CookieName string `toml:"cookie_name"`
	SigningKey string `toml:"signing_key" validate:"required,min=16"`
}

// TranspilerConfig holds the external transpiler endpoint configuration.
type TranspilerConfig struct {
	URL     string `toml:"url" validate:"required,url"`
	Timeout string `toml:"timeout"` // request timeout, e.g. "30s"
}

// GetTimeout returns the transpiler request timeout as time.Duration
func (t *TranspilerConfig) GetTimeout() (time.Duration, error) {
	if t.Timeout == "" {
		return 30 * time.Second, nil
	}
	return ParseDuration(t.Timeout)
}

// GetTimeoutOrDefault returns the transpiler request timeout as time.Duration
// or panics if the value is invalid
func (t *TranspilerConfig) GetTimeoutOrDefault() time.Duration {
	duration, err := t.GetTimeout()
	if err != nil {
		panic(fmt.Sprintf("invalid transpiler timeout: %v", err))
	}
	return duration
}

// LogSinkConfig holds the append-only logging sink configuration.
// When Enabled is false records are discarded locally.
type LogSinkConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey  string `toml:"api_key"`
}

// ConfigParam holds all configuration parameters for the hedyserv service
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version" validate:"required"` // Version of this configuration file format

	// Server configuration
	ServerHostName string `toml:"server_hostname"`                // Hostname for the server
	ServerPort     string `toml:"server_port" validate:"required"` // Port for the server
	HandleCORS     bool   `toml:"handle_cors"`                    // Whether to handle CORS

	// Content store configuration
	Content ContentConfig `toml:"content"`

	// Session configuration
	Session SessionConfig `toml:"session"`

	// Transpiler configuration
	Transpiler TranspilerConfig `toml:"transpiler"`

	// Log sink configuration
	LogSink LogSinkConfig `toml:"log_sink"`
}

var cfg *ConfigParam

// Config returns the current configuration
func Config() *ConfigParam {
	return cfg
}

// ParseDuration parses a duration string in the format "<number><unit>" where
// unit can be s (seconds), m (minutes), h (hours), or d (days).
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	var duration time.Duration
	switch unit {
	case "s":
		duration = time.Duration(value) * time.Second
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

var configValidator *validator.Validate

// V returns the validator instance used for configuration validation.
func V() *validator.Validate {
	if configValidator == nil {
		configValidator = validator.New(validator.WithRequiredStructEnabled())
	}
	return configValidator
}

// ValidateConfig checks if all required configuration values are present and valid
func ValidateConfig(cfg *ConfigParam) error {
	if cfg.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}
	if err := V().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}
	if _, err := cfg.Transpiler.GetTimeout(); err != nil {
		return fmt.Errorf("invalid transpiler timeout: %v", err)
	}
	return nil
}

// LoadConfig loads configuration from a file. Environment variables (loaded
// from a .env file when present) override the secret values in the file.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	_ = godotenv.Load() // no error if .env doesn't exist

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	c := &ConfigParam{}
	if _, err := toml.Decode(string(content), c); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	applyDefaults(c)
	applyEnvOverrides(c)

	if err := ValidateConfig(c); err != nil {
		return err
	}

	cfg = c
	return nil
}

func applyDefaults(c *ConfigParam) {
	if c.Session.CookieName == "" {
		c.Session.CookieName = "hedy_session"
	}
}

func applyEnvOverrides(c *ConfigParam) {
	if v := os.Getenv(envSessionKey); v != "" {
		c.Session.SigningKey = v
	}
	if v := os.Getenv(envLogSinkKey); v != "" {
		c.LogSink.APIKey = v
	}
}
