// Package workspace locates the .pathlib directory and database for the
// current project. Discovery walks up from the working directory so
// commands behave the same from any subdirectory.
package workspace

import (
	"os"
	"path/filepath"
)

const (
	// DirName is the per-project metadata directory.
	DirName = ".pathlib"
	// DBFileName is the SQLite database inside DirName.
	DBFileName = "paths.db"
)

// FindDir walks up from the working directory looking for a .pathlib
// directory. Returns empty string when none exists.
func FindDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		if dir == filepath.Dir(dir) {
			return ""
		}
	}
}

// FindDatabasePath returns the project database path, or empty string
// when no .pathlib directory is in scope.
func FindDatabasePath() string {
	dir := FindDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, DBFileName)
}

// Root returns the project root for a .pathlib directory.
func Root(pathlibDir string) string {
	return filepath.Dir(pathlibDir)
}

// DatabasePathIn returns the database path under the given project root.
func DatabasePathIn(root string) string {
	return filepath.Join(root, DirName, DBFileName)
}
