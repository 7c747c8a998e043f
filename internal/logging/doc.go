// Package logging assembles structured slog loggers and formatting helpers used
// across autonameow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the current file, rule, and session identifier. Warnings carry
// an event type, a hint, and an impact so a user can tell what went wrong and
// what it cost. Daily JSON log files are named by LogFileName and pruned by
// PruneDailyLogs. The package also provides a no-op logger for tests.
package logging
