//go:build !windows

package rpc

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// MaxUnixSocketPath is the maximum length for Unix socket paths.
// macOS has a 104-byte limit (including null terminator), Linux 108.
// 103 is safe across platforms.
const MaxUnixSocketPath = 103

// ShortSocketPath returns a socket path for the given workspace.
// Normally this is <workspace>/.pathlib/pl.sock; when that would
// exceed the platform socket path limit it falls back to a hashed
// directory under the temp dir, deterministic per workspace.
func ShortSocketPath(workspacePath string) string {
	canonical, err := filepath.EvalSymlinks(workspacePath)
	if err != nil || canonical == "" {
		canonical = filepath.Clean(workspacePath)
	}

	naturalPath := filepath.Join(workspacePath, ".pathlib", "pl.sock")
	if len(naturalPath) <= MaxUnixSocketPath {
		return naturalPath
	}

	hash := sha256.Sum256([]byte(canonical))
	hashStr := hex.EncodeToString(hash[:4])
	return filepath.Join(os.TempDir(), "pathlib-"+hashStr, "pl.sock")
}
