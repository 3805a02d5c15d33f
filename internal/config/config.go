package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/blocktest/internal/logging"
)

// Environment variable names read by FromEnv.
const (
	EnvLogLevel  = "BLOCKTEST_LOG_LEVEL"
	EnvLogFormat = "BLOCKTEST_LOG_FORMAT"
	EnvManifest  = "BLOCKTEST_MANIFEST"
	EnvRecover   = "BLOCKTEST_RECOVER"
)

// ErrInvalid is wrapped by every validation error returned from New.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything a suite needs to run.
type Config struct {
	LogLevel     string
	LogFormat    string
	ManifestPath string // .hcl file or directory, optional

	// Recover reports intercepted signals as test failures instead of letting
	// them crash the test binary.
	Recover bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: "text",
		Recover:   true,
	}
}

// New validates cfg and returns a normalized copy.
func New(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.ManifestPath = strings.TrimSpace(cfg.ManifestPath)

	if !slices.Contains(logging.Levels, cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log level must be one of %s, got %q", ErrInvalid, strings.Join(logging.Levels, ", "), cfg.LogLevel)
	}
	if !slices.Contains(logging.Formats, cfg.LogFormat) {
		return nil, fmt.Errorf("%w: log format must be 'text' or 'json', got %q", ErrInvalid, cfg.LogFormat)
	}
	return &cfg, nil
}

// FromEnv overlays the BLOCKTEST_* variables found through lookup onto the
// defaults. os.LookupEnv is the usual lookup.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
	if v, ok := lookup(EnvManifest); ok {
		cfg.ManifestPath = v
	}
	if v, ok := lookup(EnvRecover); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, EnvRecover, err)
		}
		cfg.Recover = b
	}

	return New(cfg)
}
