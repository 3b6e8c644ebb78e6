package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

// setTestConfigHome points XDG_CONFIG_HOME at a temp dir so tests never touch the real config.
func setTestConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	home := setTestConfigHome(t)

	got := ConfigPath()
	want := filepath.Join(home, "thermite", "config.yaml")
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Passes != 3 {
		t.Errorf("Expected default passes 3, got %d", cfg.Passes)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("Expected default max workers 8, got %d", cfg.MaxWorkers)
	}
	if cfg.BufferSize != 1024*1024 {
		t.Errorf("Expected default buffer size 1 MiB, got %d", cfg.BufferSize)
	}
	if !cfg.Sync || !cfg.ProtectSystemPaths {
		t.Error("Expected sync and system path protection enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	setTestConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *cfg != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", *cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	home := setTestConfigHome(t)
	writeConfig(t, filepath.Join(home, "thermite", "config.yaml"), "passes: 7\nsync: false\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Passes != 7 {
		t.Errorf("Expected passes 7, got %d", cfg.Passes)
	}
	if cfg.Sync {
		t.Error("Expected sync disabled by config file")
	}
	if cfg.MaxWorkers != DefaultMaxWorkers || cfg.BufferSize != DefaultBufferSize {
		t.Errorf("Omitted keys should keep defaults, got %+v", *cfg)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name        string
		content     string
		expectError string
	}{
		{name: "empty file", content: ""},
		{name: "full file", content: "passes: 5\nmax_workers: 2\nbuffer_size: 4096\nsync: true\nprotect_system_paths: false\n"},
		{name: "zero passes", content: "passes: 0\n", expectError: "passes must be positive"},
		{name: "negative workers", content: "max_workers: -1\n", expectError: "max_workers must be positive"},
		{name: "zero buffer", content: "buffer_size: 0\n", expectError: "buffer_size must be positive"},
		{name: "unknown key", content: "pases: 4\n", expectError: "failed to parse config file"},
		{name: "malformed yaml", content: "passes: [\n", expectError: "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "cfg", strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			writeConfig(t, path, tt.content)

			cfg, err := LoadFrom(path)
			if tt.expectError != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got config %+v", tt.expectError, cfg)
				}
				if !strings.Contains(err.Error(), tt.expectError) {
					t.Errorf("Expected error containing %q, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFrom() failed: %v", err)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Passes = 4
	cfg.MaxWorkers = 2
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected config permissions 0600, got %o", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if *loaded != cfg {
		t.Errorf("Round trip mismatch: saved %+v, loaded %+v", cfg, *loaded)
	}
}

func TestSaveTo_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Passes = -2

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("Expected SaveTo to reject invalid config")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Invalid config should not be written")
	}
}
