// Package config loads and saves the foldertree settings file and reads
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const appName = "foldertree"

// Settings is the persisted configuration surface.
type Settings struct {
	Folders     []string `yaml:"folders"`
	ShowHidden  bool     `yaml:"showHidden"`
	WatchIgnore []string `yaml:"watchIgnore,omitempty"`
}

// Env holds FOLDERTREE_* environment overrides.
type Env struct {
	ConfigPath string `envconfig:"CONFIG"`
	StateDir   string `envconfig:"STATE_DIR"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile    string `envconfig:"LOG_FILE"`
}

// LoadEnv reads environment overrides and fills in default locations.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(appName, &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	if env.ConfigPath == "" {
		env.ConfigPath = DefaultConfigPath()
	}
	if env.StateDir == "" {
		env.StateDir = DefaultStateDir()
	}
	if env.LogFile == "" {
		env.LogFile = filepath.Join(env.StateDir, appName+".log")
	}
	return env, nil
}

// DefaultConfigPath returns the settings file under the user config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName, "config.yaml")
}

// DefaultStateDir returns $XDG_STATE_HOME/foldertree or ~/.local/state/foldertree.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, ".local", "state", appName)
}

// Store reads and writes one settings file.
type Store struct {
	path string
}

// NewStore creates a Store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields zero Settings.
func (s *Store) Load() (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read config %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse config %s: %w", s.path, err)
	}
	return settings, nil
}

// Save writes settings, replacing the file atomically.
func (s *Store) Save(settings Settings) error {
	if settings.Folders == nil {
		settings.Folders = []string{}
	}
	data, err := yaml.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
