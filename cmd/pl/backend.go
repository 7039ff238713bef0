package main

import (
	"fmt"
	"path/filepath"

	"github.com/jotpotato/pathlib/internal/assistant"
	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/debug"
	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/storage"
	"github.com/jotpotato/pathlib/internal/storage/memory"
	"github.com/jotpotato/pathlib/internal/storage/sqlite"
	"github.com/jotpotato/pathlib/internal/workspace"
)

// Backend state. Commands run in one of two modes: daemon (all
// operations over the Unix socket) or direct (local storage opened in
// this process). ensureBackend picks the mode; at most one of
// daemonClient and lib is non-nil afterwards.
var (
	daemonClient *rpc.Client
	store        storage.Storage
	lib          *library.Library
)

// resolveDBPath returns the database path from flag, config, or
// workspace discovery, in that order.
func resolveDBPath() string {
	if dbPathFlag != "" {
		return dbPathFlag
	}
	return workspace.FindDatabasePath()
}

// socketPath returns the daemon socket for the current workspace.
func socketPath() string {
	if s := config.GetString("daemon.socket"); s != "" {
		return s
	}
	dir := workspace.FindDir()
	if dir == "" {
		return ""
	}
	return rpc.ShortSocketPath(workspace.Root(dir))
}

// ensureBackend connects to the daemon when one is serving this
// workspace, otherwise opens direct storage. Idempotent.
func ensureBackend() error {
	if daemonClient != nil || lib != nil {
		return nil
	}

	dbPath := resolveDBPath()

	if !noDaemon {
		if sock := socketPath(); sock != "" {
			client, err := rpc.TryConnect(sock)
			if err == nil && client != nil {
				abs, err := filepath.Abs(dbPath)
				if err == nil {
					client.SetExpectedDB(abs)
				}
				client.SetActor(actor)
				daemonClient = client
				debug.Logf("Debug: using daemon at %s\n", sock)
				return nil
			}
		}
	}

	return ensureDirectMode()
}

// ensureDirectMode opens local storage and builds the library core,
// bypassing any daemon.
func ensureDirectMode() error {
	if lib != nil {
		return nil
	}
	if daemonClient != nil {
		_ = daemonClient.Close()
		daemonClient = nil
	}

	var s storage.Storage
	if config.GetBool("no-db") {
		s = memory.New()
	} else {
		dbPath := resolveDBPath()
		if dbPath == "" {
			return fmt.Errorf("%w: no path library found.\n"+
				"Hint: run 'pl init' to create one in the current directory",
				storage.ErrDBNotInitialized)
		}
		sqlStore, err := sqlite.New(rootCtx, dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		s = sqlStore
	}

	store = s
	lib = library.New(s, library.WithClassifier(buildClassifier()))
	return nil
}

// buildClassifier constructs the assistant, applying keyword overrides
// from config when present.
func buildClassifier() *assistant.Classifier {
	c := assistant.New()
	if kwFile := config.GetString("assistant.keywords-file"); kwFile != "" {
		if err := c.LoadKeywords(kwFile); err != nil {
			warning("loading assistant keywords from %s: %v", kwFile, err)
		}
	}
	return c
}

func closeBackend() {
	if daemonClient != nil {
		_ = daemonClient.Close()
		daemonClient = nil
	}
	if store != nil {
		_ = store.Close()
		store = nil
	}
	lib = nil
}
