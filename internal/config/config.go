// ABOUTME: Trainer configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/trainer/internal/charm"
	"github.com/harperreed/trainer/internal/storage"
)

const (
	BackendSQLite   = "sqlite"
	BackendMarkdown = "markdown"
	BackendCharm    = "charm"

	// DefaultListen is the HTTP API address used by `trainer serve`.
	DefaultListen = "127.0.0.1:8087"
)

// Config stores trainer configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "markdown" or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts trainer.db here. Markdown puts clients/, plans/, assessments/,
	// sessions/ and progress/ folders here. Charm keeps its own location.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/trainer.
	DataDir string `json:"data_dir,omitempty"`

	// Sound and Voice control workout cues. Nil means enabled.
	Sound *bool `json:"sound,omitempty"`
	Voice *bool `json:"voice,omitempty"`

	// APIKey protects write endpoints of the HTTP API when set.
	APIKey string `json:"api_key,omitempty"`

	// Listen is the HTTP API address.
	Listen string `json:"listen,omitempty"`

	// Debug enables the structured debug log.
	Debug bool `json:"debug,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// SoundEnabled reports whether cue sounds should play.
func (c *Config) SoundEnabled() bool {
	return c.Sound == nil || *c.Sound
}

// VoiceEnabled reports whether cues should also be spoken.
func (c *Config) VoiceEnabled() bool {
	return c.Voice == nil || *c.Voice
}

// GetListen returns the HTTP API address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		dbPath := filepath.Join(dataDir, "trainer.db")
		return storage.Open(dbPath)
	case BackendMarkdown:
		return storage.NewMarkdownStore(dataDir)
	case BackendCharm:
		client, err := charm.InitClient()
		if err != nil {
			return nil, fmt.Errorf("open charm: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// ApplyEnv overlays TRAINER_* environment variables onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TRAINER_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TRAINER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TRAINER_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("TRAINER_LISTEN"); v != "" {
		c.Listen = v
	}
	if envBool("TRAINER_NO_SOUND") {
		off := false
		c.Sound = &off
		c.Voice = &off
	}
	if envBool("TRAINER_DEBUG") {
		c.Debug = true
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "trainer", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
