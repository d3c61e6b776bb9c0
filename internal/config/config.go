// Package config loads castgrep configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by the commands package)
//  2. Environment variables (CASTGREP_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order:
//  1. .castgrep.yaml in the current directory
//  2. ~/.config/castgrep/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable defaults for a search run.
type Config struct {
	Color    string `yaml:"color"`    // auto, always, never
	Timezone string `yaml:"timezone"` // e.g. Local, UTC, Asia/Shanghai
	Channel  string `yaml:"channel"`  // output, input

	// ConfigFile is the path of the file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Color:    "auto",
		Timezone: "Local",
		Channel:  "output",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)
	return cfg, nil
}

func findConfigFile() (string, []byte, error) {
	candidates := []string{".castgrep.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "castgrep", "config.yaml"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
	}
	return "", nil, os.ErrNotExist
}

func mergeFile(dst, src *Config) {
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.Channel != "" {
		dst.Channel = src.Channel
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("CASTGREP_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("CASTGREP_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("CASTGREP_CHANNEL"); v != "" {
		cfg.Channel = v
	}
}
