// Package history persists per-scan summary rows in a local SQLite
// database so structural trends survive between runs.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Record is one persisted scan summary.
type Record struct {
	ScanID          string
	SchemaVersion   int
	Root            string
	Timestamp       time.Time
	FileCount       int
	ModuleCount     int
	EdgeCount       int
	CycleCount      int
	OrphanCount     int
	ParseErrors     int
	MeanInstability float64
	Elapsed         time.Duration
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Save persists a record, assigning a scan id and timestamp when absent,
// and returns the stored record.
func (s *Store) Save(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ScanID == "" {
		rec.ScanID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.SchemaVersion == 0 {
		rec.SchemaVersion = SchemaVersion
	}
	if rec.SchemaVersion != SchemaVersion {
		return Record{}, fmt.Errorf("unsupported record schema version %d", rec.SchemaVersion)
	}

	query := `
INSERT INTO scans (
  scan_id, schema_version, root, ts_utc, file_count, module_count, edge_count,
  cycle_count, orphan_count, parse_errors, mean_instability, elapsed_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	err := s.withRetry("save scan record", func() error {
		_, err := s.db.Exec(
			query,
			rec.ScanID,
			rec.SchemaVersion,
			rec.Root,
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			rec.FileCount,
			rec.ModuleCount,
			rec.EdgeCount,
			rec.CycleCount,
			rec.OrphanCount,
			rec.ParseErrors,
			rec.MeanInstability,
			rec.Elapsed.Milliseconds(),
		)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns records newest first, optionally filtered by root, capped
// at limit (<=0 means no cap).
func (s *Store) List(root string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  scan_id, schema_version, root, ts_utc, file_count, module_count, edge_count,
  cycle_count, orphan_count, parse_errors, mean_instability, elapsed_ms
FROM scans
`
	args := make([]any, 0, 2)
	if root != "" {
		query += " WHERE root = ?"
		args = append(args, root)
	}
	query += " ORDER BY ts_utc DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("list scan records", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var (
			rec       Record
			tsRaw     string
			elapsedMS int64
		)
		if err := rows.Scan(
			&rec.ScanID,
			&rec.SchemaVersion,
			&rec.Root,
			&tsRaw,
			&rec.FileCount,
			&rec.ModuleCount,
			&rec.EdgeCount,
			&rec.CycleCount,
			&rec.OrphanCount,
			&rec.ParseErrors,
			&rec.MeanInstability,
			&elapsedMS,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse record timestamp %q: %w", tsRaw, err)
		}
		rec.Timestamp = ts.UTC()
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}

	return records, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
