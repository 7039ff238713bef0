// Package sqlite implements path storage on SQLite via the pure-Go
// wazero-based driver, so builds never need cgo.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/jotpotato/pathlib/internal/storage"
)

// Storage implements storage.Storage backed by a SQLite database file.
type Storage struct {
	db     *sql.DB
	dbPath string
	lock   *flock.Flock
}

var _ storage.Storage = (*Storage)(nil)

// New opens (creating if needed) the database at dbPath, applies the
// schema and migrations, and returns the store. An advisory file lock
// next to the database guards schema setup against a concurrently
// starting process; normal queries rely on SQLite's own locking.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("database %s is locked by another process", dbPath)
	}
	defer func() { _ = lock.Unlock() }()

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Storage{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.dbPath
}

// UnderlyingDB returns the backing *sql.DB. Direct access bypasses the
// storage layer.
func (s *Storage) UnderlyingDB() *sql.DB {
	return s.db
}

// tx adapts a single connection with an open transaction to the
// storage.Transaction interface. All helpers take the connection so
// the same code serves both transactional and autocommit calls.
type tx struct {
	conn *sql.Conn
}

var _ storage.Transaction = (*tx)(nil)

// RunInTransaction executes fn inside BEGIN IMMEDIATE so the write
// lock is taken up front and concurrent writers serialize instead of
// deadlocking. A nil return commits; an error or panic rolls back.
func (s *Storage) RunInTransaction(ctx context.Context, fn func(t storage.Transaction) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	if err := fn(&tx{conn: conn}); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

// withConn runs fn with a pooled connection, for the non-transactional
// Storage methods that share helpers with tx.
func (s *Storage) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer func() { _ = conn.Close() }()
	return fn(conn)
}
