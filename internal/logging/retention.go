package logging

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "autonameow-"
	logFileSuffix = ".log"
	logFileDay    = "2006-01-02"
)

// LogFileName returns the name of the log file written on day.
func LogFileName(day time.Time) string {
	return logFilePrefix + day.Format(logFileDay) + logFileSuffix
}

// logFileDate parses the day out of a name produced by LogFileName.
func logFileDate(name string) (time.Time, bool) {
	stem, ok := strings.CutPrefix(name, logFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stem, ok = strings.CutSuffix(stem, logFileSuffix)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(logFileDay, stem, time.Local)
	return day, err == nil
}

// PruneDailyLogs removes the daily log files in dir that are more than
// retentionDays days older than now. Other files are left alone and a
// retentionDays of 0 keeps everything. It returns the number of removed
// files.
func PruneDailyLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			WarnWithContext(logger, "log directory unreadable", "log_retention_failed",
				String("path", dir),
				Error(err),
				String(FieldImpact, "old log files are kept"),
			)
		}
		return 0
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	cutoff := today.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		day, ok := logFileDate(entry.Name())
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log file not pruned", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check the ownership of paths.log_dir"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Debug("old logs pruned", Int("count", removed), String(FieldEventType, "log_pruned"))
	}
	return removed
}
