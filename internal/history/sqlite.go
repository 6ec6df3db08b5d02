package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	// sqlite driver for the history database.
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	opts   Options
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite history store instance.
func NewSQLiteStore(opts Options) *SQLiteStore {
	opts = opts.withDefaults()
	return &SQLiteStore{opts: opts, logger: opts.Logger}
}

// NewSQLiteStoreWithDB wraps an already opened database. The caller is
// responsible for running migrations.
func NewSQLiteStoreWithDB(db *sql.DB, opts Options) *SQLiteStore {
	s := NewSQLiteStore(opts)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database, creating its directory if
// needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	var dsn string
	if path == ":memory:" {
		dsn = ":memory:"
	} else {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened history database", slog.String("path", path))
	return nil
}

// Path returns the database path given to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends a calculation and prunes expired entries.
func (s *SQLiteStore) Record(ctx context.Context, expression string, result float64) (*Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	entry := newEntry(s.opts, expression, result)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (id, expression, result, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Expression, encodeResult(entry.Result), entry.CreatedAt.UnixNano(),
	); err != nil {
		return nil, fmt.Errorf("failed to record calculation: %w", err)
	}

	if err := s.prune(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit calculation: %w", err)
	}

	s.logger.Debug("recorded calculation",
		slog.String("id", entry.ID),
		slog.String("expression", expression),
	)
	return &entry, nil
}

// prune removes expired entries and enforces the size limit.
func (s *SQLiteStore) prune(ctx context.Context, tx *sql.Tx) error {
	if cutoff := s.opts.cutoff(); !cutoff.IsZero() {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE created_at < ?`, cutoff.UnixNano(),
		); err != nil {
			return fmt.Errorf("failed to prune expired history: %w", err)
		}
	}

	if s.opts.Limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
			s.opts.Limit,
		); err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}
	return nil
}

// List returns live entries, most recent last.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, expression, result, created_at FROM history WHERE created_at >= ? ORDER BY seq ASC`,
		s.cutoffNanos(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, expression, result, created_at FROM history WHERE id = ? AND created_at >= ?`,
		id, s.cutoffNanos(),
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.logger.Debug("cleared history")
	return nil
}

func (s *SQLiteStore) cutoffNanos() int64 {
	cutoff := s.opts.cutoff()
	if cutoff.IsZero() {
		return 0
	}
	return cutoff.UnixNano()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e         Entry
		result    string
		createdAt int64
	)
	if err := sc.Scan(&e.ID, &e.Expression, &result, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan history entry: %w", err)
	}

	v, err := decodeResult(result)
	if err != nil {
		return e, fmt.Errorf("invalid result for entry %s: %w", e.ID, err)
	}
	e.Result = v
	e.CreatedAt = time.Unix(0, createdAt).UTC()
	return e, nil
}

// Results are stored as text: SQLite turns NaN into NULL in REAL columns.
func encodeResult(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func decodeResult(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
