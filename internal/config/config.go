// Package config loads the daemon configuration: where state lives on
// disk, where the command API listens and how chatty the logs are.
// Engine behavior settings (retention limits, search mode) live in the
// database instead, because the UI mutates them at runtime.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Paths holds the resolved on-disk layout for the daemon.
type Paths struct {
	BaseDir    string // Base directory for configuration
	ConfigFile string // Path to the active config file
	DataDir    string // Directory for application data
	DBFile     string // Path to the database file
	ImagesDir  string // Directory for image blobs
	LogDir     string // Directory for log files
}

// Config holds all daemon configuration.
type Config struct {
	// ListenAddr is the loopback address for the command API.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// PollingIntervalMs is the clipboard watcher cadence.
	PollingIntervalMs int64 `json:"polling_interval_ms" yaml:"polling_interval_ms"`

	Log LogConfig `json:"log" yaml:"log"`

	// SystemPaths is resolved at load time, not read from the file.
	SystemPaths Paths `json:"-" yaml:"-"`
}

// LogConfig holds logging-related configuration.
type LogConfig struct {
	Level             string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format            string `json:"format" yaml:"format"` // "json" or "text"
	EnableFileLogging bool   `json:"enable_file_logging" yaml:"enable_file_logging"`
}

// PollInterval returns the watcher cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.PollingIntervalMs <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(c.PollingIntervalMs) * time.Millisecond
}

// GetPaths resolves the platform-specific directory layout and creates
// the directories. CLIPD_CONFIG_DIR and CLIPD_DATA_DIR override the
// platform defaults.
func GetPaths() (*Paths, error) {
	baseDir := os.Getenv("CLIPD_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "ClipboardTray")
		default:
			baseDir = filepath.Join(configDir, "clipboard-tray")
		}
	}

	dataDir := os.Getenv("CLIPD_DATA_DIR")
	if dataDir == "" {
		switch runtime.GOOS {
		case "windows":
			appData, err := os.UserConfigDir()
			if err != nil {
				return nil, err
			}
			dataDir = filepath.Join(appData, "ClipboardTray", "Data")
		default:
			if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
				dataDir = filepath.Join(xdg, "clipboard-tray")
			} else {
				homeDir, err := os.UserHomeDir()
				if err != nil {
					return nil, err
				}
				dataDir = filepath.Join(homeDir, ".clipboard-tray")
			}
		}
	}

	paths := &Paths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, "config.yaml"),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, "clipboard.db"),
		ImagesDir:  filepath.Join(dataDir, "images"),
		LogDir:     filepath.Join(dataDir, "logs"),
	}

	for _, dir := range []string{paths.BaseDir, paths.DataDir, paths.ImagesDir, paths.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return paths, nil
}

// DefaultConfig returns a Config with default values. Paths are left
// unresolved; Load fills them in.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        "127.0.0.1:48620",
		PollingIntervalMs: 400,
		Log: LogConfig{
			Level:             "info",
			Format:            "text",
			EnableFileLogging: true,
		},
	}
}

// Load reads the configuration from the given file, creating it with
// defaults when missing. An empty path uses the platform location.
func Load(configPath string) (*Config, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		configPath = paths.ConfigFile
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.SystemPaths = *paths
			if err := cfg.Save(configPath); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
			overrideFromEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.SystemPaths = *paths

	overrideFromEnv(cfg)
	return cfg, nil
}

// Save writes the configuration to the given file.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("CLIPD_LISTEN_ADDR"); val != "" {
		cfg.ListenAddr = val
	}
	if val := os.Getenv("CLIPD_POLLING_INTERVAL_MS"); val != "" {
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.PollingIntervalMs = ms
		}
	}
	if val := os.Getenv("CLIPD_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
}
