package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds engine-level settings: the charsets $RAND draws from, where
// extension modules live, where readline keeps its history, and whether
// debug logging is enabled.
type Config struct {
	Debug          bool              `yaml:"debug"`
	Charsets       map[string]string `yaml:"charsets"`
	ExtensionRoot  string            `yaml:"extension_root"`
	HistoryPath    string            `yaml:"history_path"`
}

const (
	charsetAlpha    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetAlphaNum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	charsetHex      = "0123456789abcdef"
	charsetUpper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetLower    = "abcdefghijklmnopqrstuvwxyz"
)

// DefaultConfig returns the engine's built-in settings, sufficient to run
// with no configuration file present.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Debug: false,
		Charsets: map[string]string{
			"alpha":    charsetAlpha,
			"alphanum": charsetAlphaNum,
			"hex":      charsetHex,
			"upper":    charsetUpper,
			"lower":    charsetLower,
		},
		ExtensionRoot: filepath.Join(home, ".adaptix", "extensions"),
		HistoryPath:   filepath.Join(home, ".adaptix", "history"),
	}
}

// LoadConfig reads engine settings from a YAML file, falling back to
// DefaultConfig when path is empty. Charsets named in the file are merged
// on top of the built-in set rather than replacing it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var onDisk Config
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Debug = onDisk.Debug
	if onDisk.ExtensionRoot != "" {
		cfg.ExtensionRoot = onDisk.ExtensionRoot
	}
	if onDisk.HistoryPath != "" {
		cfg.HistoryPath = onDisk.HistoryPath
	}
	for name, set := range onDisk.Charsets {
		cfg.Charsets[name] = set
	}

	return cfg, nil
}

// SaveConfig writes engine settings to a YAML file.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
