package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatal(err)
	}
	if GetBool("no-daemon") {
		t.Error("no-daemon should default to false")
	}
	if got := GetInt("daemon.max-connections"); got != 50 {
		t.Errorf("daemon.max-connections = %d, want 50", got)
	}
	if got := GetDuration("daemon.request-timeout"); got.Seconds() != 30 {
		t.Errorf("daemon.request-timeout = %v, want 30s", got)
	}
	if !GetBool("assistant.render") {
		t.Error("assistant.render should default to true")
	}
}

func TestInitializeReadsProjectConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".pathlib"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "actor: alice\norganization: org-1\nlist:\n  limit: 25\n"
	if err := os.WriteFile(filepath.Join(root, ".pathlib", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	// Discovery walks up, so a subdirectory works too.
	sub := filepath.Join(root, "src")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)

	if err := Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := GetString("actor"); got != "alice" {
		t.Errorf("actor = %q, want alice", got)
	}
	if got := GetString("organization"); got != "org-1" {
		t.Errorf("organization = %q", got)
	}
	if got := GetInt("list.limit"); got != 25 {
		t.Errorf("list.limit = %d, want 25", got)
	}
	if src := GetValueSource("actor"); src != SourceConfigFile {
		t.Errorf("actor source = %s, want %s", src, SourceConfigFile)
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PL_NO_DAEMON", "true")
	if err := Initialize(); err != nil {
		t.Fatal(err)
	}
	if !GetBool("no-daemon") {
		t.Error("PL_NO_DAEMON=true not honored")
	}
	if src := GetValueSource("no-daemon"); src != SourceEnvVar {
		t.Errorf("source = %s, want %s", src, SourceEnvVar)
	}
}

func TestGetActorChain(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatal(err)
	}

	if got := GetActor("from-flag"); got != "from-flag" {
		t.Errorf("flag value not preferred: %q", got)
	}

	Set("actor", "from-config")
	if got := GetActor(""); got != "from-config" {
		t.Errorf("config value not used: %q", got)
	}

	// With no flag or config the chain falls through to git or the
	// hostname; either way it never comes back empty.
	Set("actor", "")
	if got := GetActor(""); got == "" {
		t.Error("GetActor returned empty string")
	}
}
