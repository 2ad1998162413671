package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// Config holds patchkit settings.
// Loaded from ~/.patchkit/config.json with environment variable overrides.
// The standalone patch scripts never read it.
type Config struct {
	// Target is the file the rule sets patch. Empty means the set's default.
	// Env override: PATCHKIT_TARGET
	Target string `json:"target"`

	// Backup writes <target>.bak before replacing the target.
	// Env override: PATCHKIT_BACKUP=1
	Backup bool `json:"backup"`

	// Debug enables debug-level logging.
	// Env override: PATCHKIT_DEBUG=1
	Debug bool `json:"debug"`

	// LogDir enables a rotating log file in this directory.
	// Env override: PATCHKIT_LOG_DIR
	LogDir string `json:"log_dir"`

	// LogJSON switches log records to JSON.
	// Env override: PATCHKIT_LOG_JSON=1
	LogJSON bool `json:"log_json"`
}

// Path returns the config file location: PATCHKIT_CONFIG if set, otherwise
// ~/.patchkit/config.json. It returns "" when no home directory is known.
func Path() string {
	if p := os.Getenv("PATCHKIT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Failed to get home directory for config", "error", err)
		return ""
	}
	return filepath.Join(home, ".patchkit", "config.json")
}

// Load reads the config file, then applies environment variable overrides.
// Missing file is not an error.
func Load() Config {
	var cfg Config

	configPath := Path()
	if configPath == "" {
		applyEnvOverrides(&cfg)
		return cfg
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read config file", "path", configPath, "error", err)
		}
		applyEnvOverrides(&cfg)
		return cfg
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("Failed to parse config file", "path", configPath, "error", err)
	}

	applyEnvOverrides(&cfg)
	return cfg
}

// applyEnvOverrides applies environment variable overrides to the config.
// Env vars take precedence over config file values.
func applyEnvOverrides(cfg *Config) {
	if os.Getenv("PATCHKIT_DEBUG") == "1" {
		cfg.Debug = true
	}
	if os.Getenv("PATCHKIT_LOG_JSON") == "1" {
		cfg.LogJSON = true
	}
	if os.Getenv("PATCHKIT_BACKUP") == "1" {
		cfg.Backup = true
	}
	if target := os.Getenv("PATCHKIT_TARGET"); target != "" {
		cfg.Target = target
	}
	if dir := os.Getenv("PATCHKIT_LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}
}

// TargetOr returns the configured target, or def when none is set.
func (c *Config) TargetOr(def string) string {
	if c.Target == "" {
		return def
	}
	return c.Target
}
