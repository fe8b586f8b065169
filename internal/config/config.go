// AppConfig and its XDG loader are adapted from the teacher's leader-command
// launcher config (internal/config/config.go in the original tree) into a
// keybinding-override file: scm-record has no external-command launcher, but
// the same "optional JSON file under XDG_CONFIG_HOME, validate keys, merge
// over defaults" shape fits overriding the default KeyMap (spec.md section
// 4.5's table is a default, not something every embedder must accept as-is).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scm-record/internal/input"
)

const (
	configDirName  = "scm-record"
	configFileName = "config.json"
)

// AppConfig holds user overrides for the default key bindings, keyed by
// command name (e.g. "confirm", "toggle"), as accepted by input.IsCommandName.
type AppConfig struct {
	KeyOverrides map[string]string `json:"key_overrides"`
}

func Load() (AppConfig, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return AppConfig{}, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

func LoadFromPath(path string) (AppConfig, error) {
	cfg := AppConfig{
		KeyOverrides: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return AppConfig{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.KeyOverrides == nil {
		cfg.KeyOverrides = make(map[string]string)
	}

	normalized := make(map[string]string, len(cfg.KeyOverrides))
	for name, key := range cfg.KeyOverrides {
		name = strings.TrimSpace(name)
		key = strings.TrimSpace(key)
		if !input.IsCommandName(name) {
			return AppConfig{}, fmt.Errorf("key override %q is not a recognized command", name)
		}
		if key == "" {
			return AppConfig{}, fmt.Errorf("key override for %q is empty", name)
		}
		normalized[name] = key
	}
	cfg.KeyOverrides = normalized

	return cfg, nil
}

// ApplyKeyOverrides rebinds the commands named in overrides to their given
// keys, on top of km's existing bindings (additive: the override adds a key
// rather than replacing the whole binding).
func ApplyKeyOverrides(km *input.KeyMap, overrides map[string]string) {
	for name, key := range overrides {
		km.Rebind(name, key)
	}
}

func DefaultPath() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
