package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	def := Default()
	if cfg.StorePath != def.StorePath {
		t.Errorf("Expected StorePath %s, got %s", def.StorePath, cfg.StorePath)
	}
	if cfg.Calendar != "Tasks" {
		t.Errorf("Expected Calendar 'Tasks', got '%s'", cfg.Calendar)
	}
	if cfg.PersistTimeout != 5*time.Second {
		t.Errorf("Expected PersistTimeout 5s, got %v", cfg.PersistTimeout)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	in := &Config{
		StorePath:      "/tmp/tasks.db",
		Backend:        "sqlite",
		Calendar:       "Work",
		PersistTimeout: 1500 * time.Millisecond,
	}
	if err := SaveTo(path, in); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if *out != *in {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"calendar": "Personal"}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Calendar != "Personal" {
		t.Errorf("Expected Calendar 'Personal', got '%s'", cfg.Calendar)
	}
	if cfg.StorePath != Default().StorePath {
		t.Errorf("Expected default StorePath, got %s", cfg.StorePath)
	}
	if cfg.PersistTimeout != 5*time.Second {
		t.Errorf("Expected default PersistTimeout, got %v", cfg.PersistTimeout)
	}
}

func TestLoadFromBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"calendar": `), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("Expected error for malformed config")
	}
}
