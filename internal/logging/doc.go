// Package logging assembles structured slog loggers used across Ghostwood.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so request handlers can tag log lines
// with session and request ids. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
