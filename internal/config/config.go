package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/johns/codetrace/internal/detect"
)

// Config holds all codetrace configuration.
type Config struct {
	DataPath string `toml:"data_path"`

	Detector DetectorConfig `toml:"detector"`
	Store    StoreConfig    `toml:"store"`
	Watch    WatchConfig    `toml:"watch"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Report   ReportConfig   `toml:"report"`
}

type DetectorConfig struct {
	ThresholdPureAI        float64 `toml:"threshold_pure_ai"`
	ThresholdAIModified    float64 `toml:"threshold_ai_modified"`
	TimeWindowDays         int     `toml:"time_window_days"`
	LengthTolerance        float64 `toml:"length_tolerance"`
	PerformanceThresholdMs int     `toml:"performance_threshold_ms"`
}

type StoreConfig struct {
	RetentionDays  int  `toml:"retention_days"`
	ArchiveExpired bool `toml:"archive_expired"`
}

type WatchConfig struct {
	DebounceMs int      `toml:"debounce_ms"`
	Ignore     []string `toml:"ignore"`
}

type LedgerConfig struct {
	Enabled bool `toml:"enabled"`
}

type ReportConfig struct {
	DeveloperMode bool `toml:"developer_mode"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataPath: "~/.codetrace",
		Detector: DetectorConfig{
			ThresholdPureAI:        0.90,
			ThresholdAIModified:    0.70,
			TimeWindowDays:         3,
			LengthTolerance:        0.5,
			PerformanceThresholdMs: 500,
		},
		Store: StoreConfig{
			RetentionDays:  30,
			ArchiveExpired: true,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
			Ignore:     []string{".git", "node_modules", "vendor"},
		},
		Ledger: LedgerConfig{
			Enabled: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
// Invalid configuration fails here, before anything consumes it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.DataPath = expandHome(cfg.DataPath)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configuration the engine would misbehave on.
func (c Config) Validate() error {
	if err := c.DetectorConfig().Validate(); err != nil {
		return err
	}
	if c.Store.RetentionDays < 0 {
		return fmt.Errorf("negative retention_days: %d", c.Store.RetentionDays)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("negative debounce_ms: %d", c.Watch.DebounceMs)
	}
	return nil
}

// DetectorConfig converts the TOML shape into the detector's tunables.
func (c Config) DetectorConfig() detect.Config {
	return detect.Config{
		ThresholdPureAI:      c.Detector.ThresholdPureAI,
		ThresholdAIModified:  c.Detector.ThresholdAIModified,
		TimeWindowDays:       c.Detector.TimeWindowDays,
		LengthTolerance:      c.Detector.LengthTolerance,
		PerformanceThreshold: time.Duration(c.Detector.PerformanceThresholdMs) * time.Millisecond,
	}
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "codetrace", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "codetrace", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
