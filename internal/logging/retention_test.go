package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"autonameow/internal/logging"
)

func TestPruneDailyLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 31, 18, 0, 0, 0, time.Local)

	names := map[string]bool{
		logging.LogFileName(now):                    true,
		logging.LogFileName(now.AddDate(0, 0, -30)): true,
		logging.LogFileName(now.AddDate(0, 0, -31)): false,
		logging.LogFileName(now.AddDate(-1, 0, 0)):  false,
		"autonameow-notadate.log":                   true,
		"notes.txt":                                 true,
	}
	for name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if got := logging.PruneDailyLogs(logging.NewNop(), dir, 30, now); got != 2 {
		t.Fatalf("removed = %d, want 2", got)
	}
	for name, keep := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		if keep && err != nil {
			t.Errorf("expected %s to remain: %v", name, err)
		}
		if !keep && !os.IsNotExist(err) {
			t.Errorf("expected %s to be pruned", name)
		}
	}
}

func TestPruneDailyLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	path := filepath.Join(dir, logging.LogFileName(now.AddDate(-2, 0, 0)))
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := logging.PruneDailyLogs(nil, dir, 0, now); got != 0 {
		t.Fatalf("removed = %d with retention disabled", got)
	}
	if got := logging.PruneDailyLogs(nil, filepath.Join(dir, "missing"), 30, now); got != 0 {
		t.Fatalf("removed = %d from a missing directory", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("retention 0 must keep files: %v", err)
	}
}
