package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	defaults := Default("/tmp/tavla.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != defaults {
		t.Fatalf("defaults mutated: %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
bind = "0.0.0.0:9090"

[sync]
remove_orphans = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, Default("/tmp/tavla.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Bind != "0.0.0.0:9090" {
		t.Fatalf("bind not merged: %q", cfg.Server.Bind)
	}
	if !cfg.Sync.RemoveOrphans {
		t.Fatal("remove_orphans not merged")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level not merged: %q", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Database.Path != "/tmp/tavla.db" {
		t.Fatalf("database path lost: %q", cfg.Database.Path)
	}
	if !cfg.Sync.PreserveWIPLimits {
		t.Fatal("preserve_wip_limits default lost")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default("/tmp/tavla.db")
	cfg.Log.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid log level error")
	}

	cfg = Default("")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing database path error")
	}

	cfg = Default("/tmp/tavla.db")
	cfg.Server.MCPEndpoint = "mcp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected endpoint prefix error")
	}
}
