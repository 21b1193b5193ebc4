package clipcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"kslingo/internal/fileutil"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the clips table changes; older caches must be
// cleared.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was written by another version.
var ErrSchemaMismatch = errors.New("clip cache schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Entry describes one cached clip.
type Entry struct {
	Key       string
	Lang      string
	Text      string
	Path      string
	Bytes     int64
	CreatedAt time.Time
	LastUsed  time.Time
	Hits      int
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries   int
	Bytes     int64
	Hits      int
	Languages map[string]int
}

// Store is the SQLite index plus the directory holding clip files.
type Store struct {
	db   *sql.DB
	path string
	dir  string
	now  func() time.Time
}

// Key identifies a clip by language and exact text.
func Key(lang, text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(lang)) + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Open initializes or connects to the cache database at dbPath. Clip files
// are kept in clipDir.
func Open(dbPath, clipDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure clip directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, dir: clipDir, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'kslingo cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Lookup returns the cached clip for (lang, text). Rows whose file has
// disappeared are removed and reported as a miss.
func (s *Store) Lookup(ctx context.Context, lang, text string) (Entry, bool, error) {
	key := Key(lang, text)
	row := s.db.QueryRowContext(ctx,
		`SELECT key, lang, text, path, bytes, created_at, last_used, hits FROM clips WHERE key = ?`, key)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("clip cache lookup: %w", err)
	}
	if !fileutil.FileExists(entry.Path) {
		if err := s.execWithRetry(ctx, `DELETE FROM clips WHERE key = ?`, key); err != nil {
			return Entry{}, false, fmt.Errorf("clip cache prune: %w", err)
		}
		return Entry{}, false, nil
	}

	now := s.now().UTC()
	if err := s.execWithRetry(ctx,
		`UPDATE clips SET hits = hits + 1, last_used = ? WHERE key = ?`,
		now.Format(time.RFC3339Nano), key,
	); err != nil {
		return Entry{}, false, fmt.Errorf("clip cache touch: %w", err)
	}
	entry.Hits++
	entry.LastUsed = now
	return entry, true, nil
}

// Put copies src into the cache directory and records it under (lang, text).
func (s *Store) Put(ctx context.Context, lang, text, src string) (Entry, error) {
	key := Key(lang, text)
	dest := filepath.Join(s.dir, key+strings.ToLower(filepath.Ext(src)))
	if err := fileutil.CopyFileVerified(src, dest); err != nil {
		return Entry{}, fmt.Errorf("clip cache store %s: %w", filepath.Base(src), err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return Entry{}, fmt.Errorf("clip cache stat: %w", err)
	}

	now := s.now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	if err := s.execWithRetry(ctx,
		`INSERT INTO clips (key, lang, text, path, bytes, created_at, last_used, hits)
         VALUES (?, ?, ?, ?, ?, ?, ?, 0)
         ON CONFLICT(key) DO UPDATE SET path = excluded.path, bytes = excluded.bytes, last_used = excluded.last_used`,
		key, lang, text, dest, info.Size(), stamp, stamp,
	); err != nil {
		_ = os.Remove(dest)
		return Entry{}, fmt.Errorf("clip cache insert: %w", err)
	}
	return Entry{
		Key:       key,
		Lang:      lang,
		Text:      text,
		Path:      dest,
		Bytes:     info.Size(),
		CreatedAt: now,
		LastUsed:  now,
	}, nil
}

// Stats returns totals across the cache.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Languages: make(map[string]int)}
	rows, err := s.db.QueryContext(ctx,
		`SELECT lang, COUNT(1), COALESCE(SUM(bytes), 0), COALESCE(SUM(hits), 0) FROM clips GROUP BY lang`)
	if err != nil {
		return stats, fmt.Errorf("clip cache stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			lang  string
			count int
			bytes int64
			hits  int
		)
		if err := rows.Scan(&lang, &count, &bytes, &hits); err != nil {
			return stats, err
		}
		stats.Languages[lang] = count
		stats.Entries += count
		stats.Bytes += bytes
		stats.Hits += hits
	}
	return stats, rows.Err()
}

// Clear removes every cached clip and returns how many entries were dropped.
func (s *Store) Clear(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM clips`)
	if err != nil {
		return 0, fmt.Errorf("clip cache list: %w", err)
	}
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, err
		}
		paths = append(paths, path)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if err := s.execWithRetry(ctx, `DELETE FROM clips`); err != nil {
		return 0, fmt.Errorf("clip cache clear: %w", err)
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return len(paths), fmt.Errorf("remove cached clip: %w", err)
		}
	}
	return len(paths), nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry            Entry
		created, lastUse string
	)
	if err := scanner.Scan(&entry.Key, &entry.Lang, &entry.Text, &entry.Path, &entry.Bytes, &created, &lastUse, &entry.Hits); err != nil {
		return Entry{}, err
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	entry.LastUsed, _ = time.Parse(time.RFC3339Nano, lastUse)
	return entry, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// execWithRetry retries writes that lose the race with another kslingo
// process on the same cache.
func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
