package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDefaultConfig_DetectorDefaults(t *testing.T) {
	dc := DefaultConfig().DetectorConfig()

	if dc.ThresholdPureAI != 0.90 {
		t.Errorf("ThresholdPureAI = %v, want 0.90", dc.ThresholdPureAI)
	}
	if dc.ThresholdAIModified != 0.70 {
		t.Errorf("ThresholdAIModified = %v, want 0.70", dc.ThresholdAIModified)
	}
	if dc.TimeWindowDays != 3 {
		t.Errorf("TimeWindowDays = %v, want 3", dc.TimeWindowDays)
	}
	if dc.LengthTolerance != 0.5 {
		t.Errorf("LengthTolerance = %v, want 0.5", dc.LengthTolerance)
	}
	if dc.PerformanceThreshold != 500*time.Millisecond {
		t.Errorf("PerformanceThreshold = %v, want 500ms", dc.PerformanceThreshold)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"inverted thresholds", func(c *Config) { c.Detector.ThresholdAIModified = 0.95 }},
		{"negative window", func(c *Config) { c.Detector.TimeWindowDays = -1 }},
		{"negative tolerance", func(c *Config) { c.Detector.LengthTolerance = -0.1 }},
		{"negative retention", func(c *Config) { c.Store.RetentionDays = -5 }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mod(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted bad config")
			}
		})
	}
}

func TestLoad_FromXDGConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	content := `data_path = "/tmp/ct-data"

[detector]
threshold_pure_ai = 0.85
threshold_ai_modified = 0.60
time_window_days = 7
length_tolerance = 0.5
performance_threshold_ms = 500
`
	cfgDir := filepath.Join(dir, "codetrace")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataPath != "/tmp/ct-data" {
		t.Errorf("DataPath = %q, want /tmp/ct-data", cfg.DataPath)
	}
	if cfg.Detector.ThresholdPureAI != 0.85 {
		t.Errorf("ThresholdPureAI = %v, want 0.85", cfg.Detector.ThresholdPureAI)
	}
	if cfg.Detector.TimeWindowDays != 7 {
		t.Errorf("TimeWindowDays = %v, want 7", cfg.Detector.TimeWindowDays)
	}
	// Sections absent from the file keep defaults.
	if cfg.Store.RetentionDays != 30 {
		t.Errorf("RetentionDays = %v, want default 30", cfg.Store.RetentionDays)
	}
}

func TestLoad_FailsFastOnBadThresholds(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	content := `[detector]
threshold_pure_ai = 0.50
threshold_ai_modified = 0.80
`
	cfgDir := filepath.Join(dir, "codetrace")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load accepted inverted thresholds")
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := WriteDefault("/data/codetrace")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `data_path = "/data/codetrace"`) {
		t.Errorf("config missing data_path, got:\n%s", data)
	}

	// Loading the freshly written file must succeed and validate.
	if _, err := Load(); err != nil {
		t.Errorf("Load after WriteDefault: %v", err)
	}
}

func TestWriteDefault_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	first, err := WriteDefault("/one")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteDefault("/two"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"/one"`) {
		t.Error("second WriteDefault overwrote existing config")
	}
}

func TestCompressHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := CompressHome(filepath.Join(home, "x")); got != "~/x" {
		t.Errorf("CompressHome = %q, want ~/x", got)
	}
	if got := CompressHome("/absolute/elsewhere"); got != "/absolute/elsewhere" {
		t.Errorf("CompressHome = %q, want unchanged", got)
	}
}
