package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if len(cfg.KeyOverrides) != 0 {
		t.Fatalf("expected empty overrides, got %d", len(cfg.KeyOverrides))
	}
}

func TestLoadFromPathParsesKeyOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"key_overrides":{"confirm":"ctrl+s","toggle":"space"}}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if got, ok := cfg.KeyOverrides["confirm"]; !ok || got != "ctrl+s" {
		t.Fatalf("expected confirm=ctrl+s, got %q (exists=%v)", got, ok)
	}
}

func TestLoadFromPathRejectsUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"key_overrides":{"frobnicate":"x"}}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for unknown command name")
	}
}

func TestDefaultPathUsesXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}

	want := filepath.Join(xdg, "scm-record", "config.json")
	if got != want {
		t.Fatalf("DefaultPath()=%q want %q", got, want)
	}
}
