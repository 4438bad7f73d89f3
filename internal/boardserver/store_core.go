package boardserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"talentflow/internal/config"
)

// Store persists jobs and applications in SQLite.
type Store struct {
	db    *sql.DB
	path  string
	now   func() time.Time
	retry busyRetry
}

// connectionPragmas run on every pooled connection, not just the first, so
// foreign keys cascade no matter which connection a request lands on.
var connectionPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"foreign_keys(1)",
}

// busyRetry re-runs a write that lost a race with another writer, such as a
// bulk status update landing while fixtures are being seeded.
type busyRetry struct {
	attempts int
	base     time.Duration
	ceiling  time.Duration
}

var defaultBusyRetry = busyRetry{attempts: 5, base: 10 * time.Millisecond, ceiling: 200 * time.Millisecond}

func (r busyRetry) run(ctx context.Context, op func() error) error {
	wait := r.base
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || attempt >= r.attempts || !isBusy(err) {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = min(wait*2, r.ceiling)
	}
}

// isBusy matches SQLITE_BUSY and SQLITE_LOCKED, including extended codes.
func isBusy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case 5, 6:
			return true
		}
	}
	return strings.Contains(err.Error(), "database is locked")
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := s.retry.run(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

// Open initializes or connects to the board database at cfg.Server.DBPath.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("boardserver: config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Server.DBPath)
}

// OpenPath opens the database file at path, creating the schema on first use.
func OpenPath(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("boardserver: database path is empty")
	}
	db, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("open board db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect board db %s: %w", path, err)
	}

	store := &Store{db: db, path: path, now: time.Now, retry: defaultBusyRetry}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func dataSourceName(path string) string {
	query := url.Values{}
	for _, pragma := range connectionPragmas {
		query.Add("_pragma", pragma)
	}
	return "file:" + path + "?" + query.Encode()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
