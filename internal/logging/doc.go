// Package logging assembles structured slog loggers and attribute helpers
// used across examtally.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so workflow code can tag log lines
// with the run ID and the transcript being processed. A no-op logger is
// provided for tests and for callers that pass a nil logger.
package logging
