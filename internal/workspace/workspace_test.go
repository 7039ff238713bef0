package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindDirWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DirName), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	got := FindDir()
	if got == "" {
		t.Fatal("FindDir() found nothing")
	}
	if filepath.Base(got) != DirName {
		t.Errorf("FindDir() = %q", got)
	}

	db := FindDatabasePath()
	if filepath.Base(db) != DBFileName {
		t.Errorf("FindDatabasePath() = %q", db)
	}
}

func TestFindDirIgnoresPlainFile(t *testing.T) {
	root := t.TempDir()
	// A file named .pathlib is not a workspace.
	if err := os.WriteFile(filepath.Join(root, DirName), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)

	if got := FindDir(); got != "" {
		t.Errorf("FindDir() = %q, want empty", got)
	}
}

func TestRootAndDatabasePathIn(t *testing.T) {
	dir := filepath.Join("proj", DirName)
	if got := Root(dir); got != "proj" {
		t.Errorf("Root() = %q", got)
	}
	want := filepath.Join("proj", DirName, DBFileName)
	if got := DatabasePathIn("proj"); got != want {
		t.Errorf("DatabasePathIn() = %q, want %q", got, want)
	}
}
