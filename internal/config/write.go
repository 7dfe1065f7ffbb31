package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the codetrace config directory path.
// Uses $XDG_CONFIG_HOME/codetrace if set, otherwise ~/.config/codetrace.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codetrace")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "codetrace")
}

// WriteDefault writes a default config.toml pointing to dataPath.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(dataPath string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portablePath := CompressHome(dataPath)

	content := fmt.Sprintf(`data_path = %q

[detector]
threshold_pure_ai = 0.90
threshold_ai_modified = 0.70
time_window_days = 3
length_tolerance = 0.5
performance_threshold_ms = 500

[store]
retention_days = 30
archive_expired = true

[watch]
debounce_ms = 500
ignore = [".git", "node_modules", "vendor"]

[ledger]
enabled = true

[report]
developer_mode = false
`, portablePath)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
