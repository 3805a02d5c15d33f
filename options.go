package blocktest

import (
	"log/slog"
)

// Option configures a Suite.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	manifestPath *string
	recover      *bool
	logLevel     *string
}

// WithLogger sets the logger used for registration, discovery, and
// intercepted signals. It replaces the logger built from the log level and
// format settings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithManifest checks the suite against the manifests found at path, a .hcl
// file or a directory. An empty path disables manifests.
func WithManifest(path string) Option {
	return func(o *options) { o.manifestPath = &path }
}

// WithRecovery controls whether structured exceptions raised by a test are
// reported as that test's failure. When disabled the panic propagates after
// TearDown has run.
func WithRecovery(enabled bool) Option {
	return func(o *options) { o.recover = &enabled }
}

// WithLogLevel sets the level of the suite logger: debug, info, warn, or error.
func WithLogLevel(level string) Option {
	return func(o *options) { o.logLevel = &level }
}
