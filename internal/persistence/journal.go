package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Journal statuses.
const (
	StatusRenamed = "renamed"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusDryRun  = "dry_run"
)

// JournalEntry is one recorded rename decision.
type JournalEntry struct {
	ID          int64
	SessionID   string
	CreatedAt   time.Time
	Source      string
	Destination string
	Rule        string
	Status      string
	DryRun      bool
	Error       string
}

// Journal records rename decisions.
type Journal struct {
	store *Store
}

// Journal returns the rename journal.
func (s *Store) Journal() *Journal {
	return &Journal{store: s}
}

// Record appends entry. A zero CreatedAt is set to now.
func (j *Journal) Record(ctx context.Context, entry JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return j.store.exec(ctx,
		`INSERT INTO rename_journal (
            session_id, created_at, source_path, destination_path, rule, status, dry_run, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.Source,
		entry.Destination,
		nullableString(entry.Rule),
		entry.Status,
		boolToInt(entry.DryRun),
		nullableString(entry.Error),
	)
}

// Recent returns the newest entries first. A limit of zero or less returns
// every entry.
func (j *Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	query := `SELECT id, session_id, created_at, source_path, destination_path, rule, status, dry_run, error_message
        FROM rename_journal ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return j.query(ctx, query, args...)
}

// Session returns the entries of one session in insertion order.
func (j *Journal) Session(ctx context.Context, sessionID string) ([]JournalEntry, error) {
	return j.query(ctx,
		`SELECT id, session_id, created_at, source_path, destination_path, rule, status, dry_run, error_message
        FROM rename_journal WHERE session_id = ? ORDER BY id`, sessionID)
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]JournalEntry, error) {
	ctx = ensureContext(ctx)
	rows, err := j.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query journal: %v", ErrBackend, err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query journal: %v", ErrBackend, err)
	}
	return out, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (JournalEntry, error) {
	var (
		entry      JournalEntry
		createdRaw string
		rule       sql.NullString
		dryRun     int
		errMsg     sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.SessionID,
		&createdRaw,
		&entry.Source,
		&entry.Destination,
		&rule,
		&entry.Status,
		&dryRun,
		&errMsg,
	); err != nil {
		return JournalEntry{}, fmt.Errorf("%w: scan journal entry: %v", ErrBackend, err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = ts
	}
	entry.Rule = rule.String
	entry.DryRun = dryRun != 0
	entry.Error = errMsg.String
	return entry, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
