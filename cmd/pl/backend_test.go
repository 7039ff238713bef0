package main

import (
	"errors"
	"testing"

	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/storage"
)

func TestEnsureDirectModeNoDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := config.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	dbPathFlag = ""
	t.Cleanup(func() {
		closeBackend()
		dbPathFlag = ""
	})

	err := ensureDirectMode()
	if err == nil {
		t.Fatal("expected error with no workspace and no --db flag")
	}
	if !errors.Is(err, storage.ErrDBNotInitialized) {
		t.Errorf("error = %v, want wrapped storage.ErrDBNotInitialized", err)
	}
}
