package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeKey replaces every run of characters outside [a-zA-Z0-9._-] with
// a single underscore.
func SanitizeKey(s string) string {
	return strings.Trim(unsafeKeyChars.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
}

// Cache is a key/blob store scoped by owner.
type Cache struct {
	store *Store
	owner string
}

// Cache returns the cache of owner.
func (s *Store) Cache(owner string) (*Cache, error) {
	owner = SanitizeKey(owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: empty cache owner", ErrBackend)
	}
	return &Cache{store: s, owner: owner}, nil
}

// Owner returns the sanitized owner name.
func (c *Cache) Owner() string { return c.owner }

func (c *Cache) fullKey(key string) (string, error) {
	key = SanitizeKey(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty cache key", ErrBackend)
	}
	return c.owner + "_" + key, nil
}

// Get returns the blob stored under key or ErrNotFound.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	full, err := c.fullKey(key)
	if err != nil {
		return nil, err
	}
	ctx = ensureContext(ctx)
	var value []byte
	err = retryOnBusy(ctx, func() error {
		return c.store.db.QueryRowContext(ctx, "SELECT value FROM cache_entries WHERE key = ?", full).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrBackend, full, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous blob.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	full, err := c.fullKey(key)
	if err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	return c.store.exec(ctx,
		`INSERT INTO cache_entries (key, owner, value, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		full, c.owner, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// Delete removes key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	full, err := c.fullKey(key)
	if err != nil {
		return err
	}
	return c.store.exec(ctx, "DELETE FROM cache_entries WHERE key = ?", full)
}

// Keys lists the owner's keys without the owner prefix, sorted.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := c.store.db.QueryContext(ctx, "SELECT key FROM cache_entries WHERE owner = ? ORDER BY key", c.owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %v", ErrBackend, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: scan key: %v", ErrBackend, err)
		}
		out = append(out, strings.TrimPrefix(key, c.owner+"_"))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list keys: %v", ErrBackend, err)
	}
	return out, nil
}

// Clear removes every entry of the owner.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.exec(ctx, "DELETE FROM cache_entries WHERE owner = ?", c.owner)
}

// CacheStats summarizes the cache contents per owner.
type CacheStats struct {
	Owner   string
	Entries int
	Bytes   int64
}

// Stats returns per-owner entry counts and sizes, sorted by owner.
func (s *Store) Stats(ctx context.Context) ([]CacheStats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT owner, COUNT(1), COALESCE(SUM(LENGTH(value)), 0) FROM cache_entries GROUP BY owner ORDER BY owner")
	if err != nil {
		return nil, fmt.Errorf("%w: cache stats: %v", ErrBackend, err)
	}
	defer rows.Close()

	var out []CacheStats
	for rows.Next() {
		var st CacheStats
		if err := rows.Scan(&st.Owner, &st.Entries, &st.Bytes); err != nil {
			return nil, fmt.Errorf("%w: scan stats: %v", ErrBackend, err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: cache stats: %v", ErrBackend, err)
	}
	return out, nil
}
