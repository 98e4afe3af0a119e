// Package settings persists the per-user client preferences as a JSON file.
// Settings live only on the device; they are never synced to the server.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds the client preferences. A zero AutoLockMinutes disables
// auto-locking.
type Settings struct {
	Theme                     string `json:"theme"`
	TextSize                  string `json:"textSize"`
	PasswordProtectionEnabled bool   `json:"passwordProtectionEnabled"`
	AutoLockMinutes           int    `json:"autoLockMinutes"`
	PublicSharingEnabled      bool   `json:"publicSharingEnabled"`
}

// Defaults returns the settings used before the user has saved anything.
func Defaults() Settings {
	return Settings{
		Theme:    "light",
		TextSize: "medium",
	}
}

// Store reads and writes a Settings file.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file. A missing file is not an error; the defaults
// are returned instead.
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return cfg, nil
}

// Save writes the settings atomically: a temp file in the same directory is
// renamed over the target, so a crash mid-write never leaves a torn file.
func (s *Store) Save(cfg Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing settings file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}
