// Package storage defines the interface for path storage backends.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jotpotato/pathlib/internal/types"
)

// ErrDBNotInitialized is returned when using a database feature before
// the database has been initialized.
var ErrDBNotInitialized = errors.New("database not initialized")

// Transaction exposes the subset of Storage methods that execute inside
// a single database transaction, for atomic read-modify-write over one
// path's subtree (the rollup must never be observable half-applied).
//
// Semantics:
//   - All operations share the same database connection
//   - Changes are invisible to other connections until commit
//   - An error from the callback rolls the transaction back
//   - A panic in the callback rolls the transaction back
//   - A nil return commits
//
// The SQLite backend opens transactions with BEGIN IMMEDIATE so the
// write lock is taken up front and concurrent writers serialize cleanly.
type Transaction interface {
	GetPath(ctx context.Context, id string) (*types.Path, error)
	SavePath(ctx context.Context, path *types.Path) error
	SaveSubtree(ctx context.Context, path *types.Path) error
}

// Storage defines the interface for path storage backends.
type Storage interface {
	// Feedback chain (read-mostly inputs)
	CreateIssue(ctx context.Context, issue *types.Issue) error
	GetIssue(ctx context.Context, id string) (*types.Issue, error)
	CreateRootCause(ctx context.Context, rc *types.RootCause) error
	GetRootCause(ctx context.Context, id string) (*types.RootCause, error)
	CreateInitiative(ctx context.Context, in *types.Initiative) error
	GetInitiative(ctx context.Context, id string) (*types.Initiative, error)

	// Paths. GetPath loads the full subtree (phases, steps, action
	// items) in display order; ListPaths returns shallow paths.
	CreatePath(ctx context.Context, path *types.Path) error
	GetPath(ctx context.Context, id string) (*types.Path, error)
	SavePath(ctx context.Context, path *types.Path) error
	SaveSubtree(ctx context.Context, path *types.Path) error
	DeletePath(ctx context.Context, id string) error
	ListPaths(ctx context.Context, filter types.PathFilter) ([]*types.Path, error)

	// Comments
	AddComment(ctx context.Context, pathID, authorID, content string) (*types.PathComment, error)
	GetComments(ctx context.Context, pathID string) ([]*types.PathComment, error)

	// Statistics
	GetStatistics(ctx context.Context, filter types.PathFilter) (*types.Statistics, error)

	// RunInTransaction executes fn inside a database transaction.
	// A nil return commits; an error or panic rolls back.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	// Lifecycle
	Close() error

	// Database path, for daemon validation.
	Path() string

	// UnderlyingDB returns the backing *sql.DB, or nil for backends
	// without one. Direct access bypasses the storage layer.
	UnderlyingDB() *sql.DB
}

// Config holds database configuration.
type Config struct {
	Backend string // "sqlite" or "memory"

	// SQLite config
	Path string // database file path
}
