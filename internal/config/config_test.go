package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7171 {
		t.Errorf("expected default port 7171, got %d", cfg.Port)
	}
	if time.Duration(cfg.PollInterval) != 5*time.Second {
		t.Errorf("expected default poll interval, got %v", cfg.PollInterval)
	}
	if cfg.RankDir != "TB" {
		t.Errorf("expected default rankdir TB, got %q", cfg.RankDir)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
port: 9000
poll_interval: 30s
rankdir: LR
animate_ready_edges: true
type_by_kind: true
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if time.Duration(cfg.PollInterval) != 30*time.Second {
		t.Errorf("expected 30s poll interval, got %v", cfg.PollInterval)
	}
	if cfg.RankDir != "LR" {
		t.Errorf("expected rankdir LR, got %q", cfg.RankDir)
	}
	if !cfg.AnimateReady || !cfg.TypeByKind {
		t.Error("expected boolean options to load")
	}
}

func TestLoad_InvalidYaml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("port: [not a port"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BEADS_DB_PATH", "/tmp/beads.db")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected env port 8080, got %d", cfg.Port)
	}
	if cfg.DbPath != "/tmp/beads.db" {
		t.Errorf("expected env db path, got %q", cfg.DbPath)
	}
}
