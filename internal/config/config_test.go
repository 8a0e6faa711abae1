// ABOUTME: Tests for trainer configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// isolate points config lookups at a temp dir and clears TRAINER_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{
		"TRAINER_BACKEND", "TRAINER_DATA_DIR", "TRAINER_API_KEY",
		"TRAINER_LISTEN", "TRAINER_NO_SOUND", "TRAINER_DEBUG",
	} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "markdown"}
	if got := cfg.GetBackend(); got != "markdown" {
		t.Errorf("GetBackend() = %q, want %q", got, "markdown")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	cfg := &Config{}

	want := filepath.Join("/tmp/xdg-data", "trainer")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/trainer-test"}
	if got := cfg.GetDataDir(); got != "/tmp/trainer-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/trainer-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/trainer-data"}
	want := filepath.Join(home, "trainer-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/trainer", filepath.Join(home, "data/trainer")},
		{"data/trainer", "data/trainer"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCueDefaults(t *testing.T) {
	cfg := &Config{}
	if !cfg.SoundEnabled() || !cfg.VoiceEnabled() {
		t.Error("Expected sound and voice enabled by default")
	}

	off := false
	cfg.Voice = &off
	if !cfg.SoundEnabled() || cfg.VoiceEnabled() {
		t.Error("Expected only voice disabled")
	}
}

func TestGetListen(t *testing.T) {
	if got := (&Config{}).GetListen(); got != DefaultListen {
		t.Errorf("GetListen() = %q, want %q", got, DefaultListen)
	}
	if got := (&Config{Listen: ":9000"}).GetListen(); got != ":9000" {
		t.Errorf("GetListen() = %q, want %q", got, ":9000")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Backend != "" {
		t.Errorf("Expected empty Backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	on := true
	cfg := &Config{
		Backend: "markdown",
		DataDir: "/tmp/trainer-data",
		Voice:   &on,
		APIKey:  "secret",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "markdown" {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, "markdown")
	}
	if loaded.DataDir != "/tmp/trainer-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/trainer-data")
	}
	if loaded.Voice == nil || !*loaded.Voice {
		t.Error("Expected voice preference preserved")
	}
	if loaded.APIKey != "secret" {
		t.Errorf("APIKey mismatch: got %q", loaded.APIKey)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	if err := (&Config{Backend: "markdown", Listen: ":1"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv("TRAINER_BACKEND", "sqlite")
	t.Setenv("TRAINER_DATA_DIR", "/srv/trainer")
	t.Setenv("TRAINER_API_KEY", "k")
	t.Setenv("TRAINER_LISTEN", ":2")
	t.Setenv("TRAINER_NO_SOUND", "1")
	t.Setenv("TRAINER_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.DataDir != "/srv/trainer" || cfg.APIKey != "k" || cfg.Listen != ":2" {
		t.Errorf("Expected env to override file, got %+v", cfg)
	}
	if cfg.SoundEnabled() || cfg.VoiceEnabled() {
		t.Error("Expected TRAINER_NO_SOUND to silence cues")
	}
	if !cfg.Debug {
		t.Error("Expected TRAINER_DEBUG to enable debug")
	}
}

func TestEnvBoolIgnoresGarbage(t *testing.T) {
	isolate(t)
	t.Setenv("TRAINER_NO_SOUND", "maybe")

	cfg := &Config{}
	cfg.ApplyEnv()
	if !cfg.SoundEnabled() {
		t.Error("Expected unparseable TRAINER_NO_SOUND to be ignored")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "trainer")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "trainer")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	want := filepath.Join(tmpDir, "trainer", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	dbPath := filepath.Join(tmpDir, "trainer.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected trainer.db to be created")
	}
}

func TestOpenStorageMarkdown(t *testing.T) {
	cfg := &Config{Backend: "markdown", DataDir: t.TempDir()}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for markdown failed: %v", err)
	}
	defer repo.Close()

	clients, err := repo.ListClients(false)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("Expected empty store, got %d clients", len(clients))
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{DataDir: tmpDir}
	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "trainer.db")); err != nil {
		t.Errorf("Expected sqlite database for default backend: %v", err)
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}

	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{
		Backend: "markdown",
		DataDir: "~/trainer-data",
		Listen:  ":8080",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded.Backend != cfg.Backend || loaded.DataDir != cfg.DataDir || loaded.Listen != cfg.Listen {
		t.Errorf("Round trip mismatch: got %+v", loaded)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
