// Package logging assembles structured slog loggers and formatting helpers used
// across talentflow.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so board and reconciler code can
// tag log lines with job IDs, application IDs, stages, and correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
