package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBroker_Defaults(t *testing.T) {
	tmpHome := t.TempDir()
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	cfg, err := LoadBroker()
	if err != nil {
		t.Fatalf("LoadBroker: %v", err)
	}
	if cfg.DataDir != filepath.Join(tmpHome, ".butterknife") {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, filepath.Join(tmpHome, ".butterknife"))
	}
	if cfg.Budget != 0 {
		t.Errorf("Budget = %d, want default 0", cfg.Budget)
	}
}

func TestLoadBroker_ConfigFile(t *testing.T) {
	tmpHome := t.TempDir()
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	dataDir := filepath.Join(tmpHome, ".butterknife")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "budget: 5000000\n"
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBroker()
	if err != nil {
		t.Fatalf("LoadBroker: %v", err)
	}
	if cfg.Budget != 5_000_000 {
		t.Errorf("Budget = %d, want 5000000 from config file", cfg.Budget)
	}
}

func TestLoadBroker_EnvOverride(t *testing.T) {
	tmpHome := t.TempDir()
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	customDir := filepath.Join(tmpHome, "custom-data")
	os.Setenv("BUTTERKNIFE_DATA_DIR", customDir)
	os.Setenv("BUTTERKNIFE_BUDGET", "7000")
	defer os.Unsetenv("BUTTERKNIFE_DATA_DIR")
	defer os.Unsetenv("BUTTERKNIFE_BUDGET")

	cfg, err := LoadBroker()
	if err != nil {
		t.Fatalf("LoadBroker: %v", err)
	}
	if cfg.DataDir != customDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, customDir)
	}
	if cfg.Budget != 7000 {
		t.Errorf("Budget = %d, want 7000 from env", cfg.Budget)
	}
}

func TestDefaultDataDir(t *testing.T) {
	tmpHome := t.TempDir()
	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpHome)
	defer os.Setenv("HOME", origHome)

	if got := DefaultDataDir(); got != filepath.Join(tmpHome, ".butterknife") {
		t.Errorf("DefaultDataDir() = %q, want %q", got, filepath.Join(tmpHome, ".butterknife"))
	}
}
