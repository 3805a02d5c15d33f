// Package config defines the settings that shape how a suite is run: log
// level and format, the optional manifest path, and whether intercepted
// signals are reported as test failures.
//
// Values come from the environment (FromEnv) and can be overridden by suite
// options. New validates a Config before it is used.
package config
