package pathlib_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jotpotato/pathlib"
)

func TestNewSQLiteStorage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	ctx := context.Background()
	store, err := pathlib.NewSQLiteStorage(ctx, dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	defer store.Close()
}

func TestLibraryOverMemoryStorage(t *testing.T) {
	lib := pathlib.NewLibrary(pathlib.NewMemoryStorage())
	p, err := lib.GetPath(context.Background(), "path-nope")
	if err == nil {
		t.Fatalf("expected not found, got %+v", p)
	}
}

func TestFindDatabasePath(t *testing.T) {
	// Returns empty string when no workspace is in scope; just verify it
	// doesn't panic.
	_ = pathlib.FindDatabasePath()
	_ = pathlib.FindWorkspaceDir()
}

// Test that exported constants have correct values
func TestConstants(t *testing.T) {
	if pathlib.StatusDraft != "draft" {
		t.Errorf("StatusDraft = %q, want %q", pathlib.StatusDraft, "draft")
	}
	if pathlib.StatusOnHold != "on_hold" {
		t.Errorf("StatusOnHold = %q, want %q", pathlib.StatusOnHold, "on_hold")
	}
	if pathlib.ItemInProgress != "in_progress" {
		t.Errorf("ItemInProgress = %q, want %q", pathlib.ItemInProgress, "in_progress")
	}
	if pathlib.PriorityCritical != "critical" {
		t.Errorf("PriorityCritical = %q, want %q", pathlib.PriorityCritical, "critical")
	}
}
