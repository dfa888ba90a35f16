// Package config provides configuration loading and validation for the API
// server. It uses koanf to merge environment variables with optional file
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/debbielamxy/WanderTogether/internal/match"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis (candidate pool snapshot cache). Optional; empty disables
	// caching.
	RedisAddr string `koanf:"redis_addr"`

	// Ranking
	Strategy           string  `koanf:"strategy"`             // preset name
	TopK               int     `koanf:"top_k"`                // shortlist length
	GateThreshold      float64 `koanf:"gate_threshold"`       // trust gate, used by gated presets
	CalibrationPath    string  `koanf:"calibration_path"`     // optional JSON weight overrides
	SnapshotTTLSeconds int     `koanf:"snapshot_ttl_seconds"` // redis snapshot TTL
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrInvalidPort        = errors.New("PORT must be a valid integer in range")
	ErrInvalidTopK        = errors.New("TOP_K must be positive")
	ErrInvalidGate        = errors.New("GATE_THRESHOLD must be in [0,1]")
	ErrUnknownStrategy    = errors.New("STRATEGY is not a known preset")
)

// Default values for non-secret configuration.
const (
	DefaultPort          = 8080
	DefaultEnv           = "development"
	DefaultTopK          = 6
	DefaultGateThreshold = match.DefaultGateThreshold
	DefaultSnapshotTTL   = 300
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if
// valid). If a config file path is provided and the file cannot be loaded,
// an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}
	topK, topKErr := getEnvIntOrDefault("TOP_K", k.Int("top_k"), DefaultTopK)
	if topKErr != nil {
		loadErrs = append(loadErrs, topKErr)
	}
	gate, gateErr := getEnvFloatOrDefault("GATE_THRESHOLD", k.Float64("gate_threshold"), DefaultGateThreshold)
	if gateErr != nil {
		loadErrs = append(loadErrs, gateErr)
	}
	snapshotTTL, ttlErr := getEnvIntOrDefault("SNAPSHOT_TTL_SECONDS", k.Int("snapshot_ttl_seconds"), DefaultSnapshotTTL)
	if ttlErr != nil {
		loadErrs = append(loadErrs, ttlErr)
	}

	cfg := &Config{
		Port:               port,
		Env:                getEnvOrDefault("ENV", k.String("env"), DefaultEnv),
		DatabaseURL:        getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:          getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		Strategy:           getEnvOrDefault("STRATEGY", k.String("strategy"), match.DefaultStrategyName),
		TopK:               topK,
		GateThreshold:      gate,
		CalibrationPath:    getEnvOrKoanf("CALIBRATION_PATH", k, "calibration_path"),
		SnapshotTTLSeconds: snapshotTTL,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise
// the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise
// the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set,
// otherwise the koanf value, or default. Returns an error if the
// environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set,
// otherwise the koanf value, or default. Returns an error if the
// environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present and
// in range. Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.TopK <= 0 {
		errs = append(errs, ErrInvalidTopK)
	}
	if c.GateThreshold < 0 || c.GateThreshold > 1 {
		errs = append(errs, ErrInvalidGate)
	}
	if _, err := match.PresetByName(c.Strategy); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy))
	}

	return errs
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":             fmt.Sprintf("%d", c.Port),
		"env":              c.Env,
		"database_url":     maskDatabaseURL(c.DatabaseURL),
		"redis_addr":       c.RedisAddr,
		"strategy":         c.Strategy,
		"top_k":            fmt.Sprintf("%d", c.TopK),
		"gate_threshold":   fmt.Sprintf("%.2f", c.GateThreshold),
		"calibration_path": c.CalibrationPath,
		"snapshot_ttl":     fmt.Sprintf("%ds", c.SnapshotTTLSeconds),
	}
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return "****"
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
