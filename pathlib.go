// Package pathlib provides a minimal public API for embedding the path
// library in other Go programs.
//
// Most integrations should drive the pl CLI or daemon instead. This
// package exports only the types and constructors needed to use the
// storage and orchestration layers programmatically.
package pathlib

import (
	"context"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/storage/memory"
	"github.com/jotpotato/pathlib/internal/storage/sqlite"
	"github.com/jotpotato/pathlib/internal/types"
	"github.com/jotpotato/pathlib/internal/workspace"
)

// Storage is the interface for path library storage operations.
type Storage = storage.Storage

// Transaction provides atomic multi-operation support within a database
// transaction. Use Storage.RunInTransaction() to obtain one.
type Transaction = storage.Transaction

// Library is the orchestration core: validation, workflow, progress
// rollup and the assistant over a Storage backend.
type Library = library.Library

// NewSQLiteStorage creates a SQLite storage instance at the given path.
func NewSQLiteStorage(ctx context.Context, dbPath string) (Storage, error) {
	return sqlite.New(ctx, dbPath)
}

// NewMemoryStorage creates an in-memory storage instance, useful for
// tests and ephemeral tooling.
func NewMemoryStorage() Storage {
	return memory.New()
}

// NewLibrary wraps a storage backend in the orchestration core.
func NewLibrary(s Storage) *Library {
	return library.New(s)
}

// FindDatabasePath finds the path library database in the current
// directory tree. Returns empty string if not found.
func FindDatabasePath() string {
	return workspace.FindDatabasePath()
}

// FindWorkspaceDir finds the .pathlib/ directory in the current
// directory tree. Returns empty string if not found.
func FindWorkspaceDir() string {
	return workspace.FindDir()
}

// Core types from internal/types
type (
	Path        = types.Path
	Phase       = types.Phase
	Step        = types.Step
	ActionItem  = types.ActionItem
	PathComment = types.PathComment
	Issue       = types.Issue
	RootCause   = types.RootCause
	Initiative  = types.Initiative
	PathStatus  = types.PathStatus
	ItemStatus  = types.ItemStatus
	Priority    = types.Priority
	PathFilter  = types.PathFilter
	Statistics  = types.Statistics
	Error       = types.Error
)

// PathStatus constants
const (
	StatusDraft     = types.StatusDraft
	StatusActive    = types.StatusActive
	StatusOnHold    = types.StatusOnHold
	StatusCompleted = types.StatusCompleted
	StatusArchived  = types.StatusArchived
)

// ItemStatus constants
const (
	ItemPending    = types.ItemPending
	ItemInProgress = types.ItemInProgress
	ItemDone       = types.ItemDone
	ItemBlocked    = types.ItemBlocked
)

// Priority constants
const (
	PriorityLow      = types.PriorityLow
	PriorityMedium   = types.PriorityMedium
	PriorityHigh     = types.PriorityHigh
	PriorityCritical = types.PriorityCritical
)
