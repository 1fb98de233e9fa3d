package config

import (
	"os"
	"testing"
)

func withTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })
}

func TestLoad_CreatesDefaultsWhenMissing(t *testing.T) {
	withTempDir(t)

	if Exists() {
		t.Fatalf("Config.toml should not exist yet")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !Exists() {
		t.Fatalf("Load should have written a default Config.toml")
	}
	if cfg.MinerID.PrivKey == "" {
		t.Fatalf("default config must have a generated identity key")
	}
	if !cfg.Autopublish || !cfg.Autosave {
		t.Fatalf("defaults should enable autopublish and autosave")
	}
	if cfg.MinerID.Enabled {
		t.Fatalf("identity should be disabled by default")
	}
}

func TestSaveLoad_RoundTrips(t *testing.T) {
	withTempDir(t)

	cfg := Config{
		PayTo:       "1SomeAddress",
		Autopublish: false,
		Autosave:    true,
		MinerID: MinerID{
			Enabled: true,
			PrivKey: "Kx00000000000000000000000000000000000000000000000001",
			Message: "hello world",
		},
		Explorer:  Explorer{BaseURL: "https://example.test"},
		Dashboard: Dashboard{Enabled: true, ListenAddr: "127.0.0.1:9999"},
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
