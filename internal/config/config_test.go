package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != cfg {
		t.Fatalf("reload mismatch: %+v", again)
	}
}

func TestLoadPartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: Asia/Tokyo\npoll_interval: 30s\nengine_buffer: 0\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timezone != "Asia/Tokyo" || cfg.PollInterval != 30*time.Second {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.EngineBuffer != 64 || cfg.ArmWindow != 5*time.Minute || cfg.Database != "remindflow.db" {
		t.Fatalf("expected normalized defaults, got %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("REMINDFLOW_DATABASE", "memory")
	t.Setenv("REMINDFLOW_TIMEZONE", "UTC")
	t.Setenv("REMINDFLOW_POLL_INTERVAL", "10s")
	t.Setenv("REMINDFLOW_ARM_WINDOW", "2m")
	t.Setenv("REMINDFLOW_ENGINE_BUFFER", "128")
	t.Setenv("REMINDFLOW_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("REMINDFLOW_SWEEP_INTERVAL", "10ms")

	cfg := FromEnv(Default())
	if cfg.Database != MemoryDatabase || cfg.DatabasePath() != MemoryDatabase {
		t.Fatalf("unexpected database override: %+v", cfg)
	}
	if cfg.PollInterval != 10*time.Second || cfg.ArmWindow != 2*time.Minute || cfg.EngineBuffer != 128 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications off from env")
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("sub-second sweep interval must be ignored, got %s", cfg.SweepInterval)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("unexpected location %v (%v)", loc, err)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/var/lib/remindflow"
	if got := cfg.DatabasePath(); got != filepath.Join("/var/lib/remindflow", "remindflow.db") {
		t.Fatalf("unexpected path %s", got)
	}
	cfg.Database = "/tmp/other.db"
	if got := cfg.DatabasePath(); got != "/tmp/other.db" {
		t.Fatalf("absolute path must be kept, got %s", got)
	}
}
