package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLoader(paths []string, env map[string]string) *Loader {
	return &Loader{
		configPaths: paths,
		getenv:      func(key string) string { return env[key] },
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := newTestLoader([]string{filepath.Join(t.TempDir(), "missing.yaml")}, nil)

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
api:
  base_url: "http://clinic.local:8000"
  timeout: 10s
events:
  page_size: 25
ui:
  min_date_today: false
output:
  default_format: "json"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := newTestLoader(nil, nil).LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.API.BaseURL != "http://clinic.local:8000" {
		t.Errorf("Expected base URL from file, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.API.Timeout)
	}
	if cfg.Events.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", cfg.Events.PageSize)
	}
	if cfg.UI.MinDateToday {
		t.Errorf("Expected min_date_today false from file")
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}

	// Keys absent from the file keep their defaults
	if cfg.UI.ToastDuration != 3*time.Second {
		t.Errorf("Expected toast duration to remain 3s, got %v", cfg.UI.ToastDuration)
	}
	if cfg.API.UserAgent != "careminder" {
		t.Errorf("Expected user agent to remain careminder, got %s", cfg.API.UserAgent)
	}
}

func TestLoadConfigSearchPathPriority(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "high.yaml")
	low := filepath.Join(dir, "low.yaml")

	if err := os.WriteFile(low, []byte("events:\n  page_size: 30\nui:\n  theme: minimal\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("events:\n  page_size: 40\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := newTestLoader([]string{high, low}, nil).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Events.PageSize != 40 {
		t.Errorf("Expected higher priority page size 40, got %d", cfg.Events.PageSize)
	}
	if cfg.UI.Theme != "minimal" {
		t.Errorf("Expected theme from lower priority file, got %s", cfg.UI.Theme)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")

	invalidConfigContent := `api:
  base_url: "http://localhost:8000
  timeout: 10s
`
	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := newTestLoader(nil, nil).LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsBadPath(t *testing.T) {
	tests := []string{"config.json", "../outside.yaml"}
	for _, path := range tests {
		if _, err := newTestLoader(nil, nil).LoadConfig(path); err == nil {
			t.Errorf("Expected error for path %s", path)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"CAREMINDER_API_BASE_URL":            "http://api.example:8080",
		"CAREMINDER_API_TIMEOUT":             "5s",
		"CAREMINDER_EVENTS_PAGE_SIZE":        "50",
		"CAREMINDER_UI_MIN_DATE_TODAY":       "false",
		"CAREMINDER_OUTPUT_COLOR_MODE":       "never",
		"CAREMINDER_WATCH_DIRECTORY":         "/srv/inbox",
		"CAREMINDER_ALERTS_HIGH_WITHIN_DAYS": "14",
	}

	cfg := DefaultConfig()
	if err := newTestLoader(nil, env).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.API.BaseURL != "http://api.example:8080" {
		t.Errorf("Expected base URL override, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.API.Timeout)
	}
	if cfg.Events.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Events.PageSize)
	}
	if cfg.UI.MinDateToday {
		t.Errorf("Expected min_date_today false")
	}
	if cfg.Output.ColorMode != "never" {
		t.Errorf("Expected color mode never, got %s", cfg.Output.ColorMode)
	}
	if cfg.Watch.Directory != "/srv/inbox" {
		t.Errorf("Expected watch directory /srv/inbox, got %s", cfg.Watch.Directory)
	}
	if cfg.Alerts.HighWithinDays != 14 {
		t.Errorf("Expected high_within_days 14, got %d", cfg.Alerts.HighWithinDays)
	}
}

func TestApplyEnvOverridesInvalidValue(t *testing.T) {
	env := map[string]string{"CAREMINDER_EVENTS_PAGE_SIZE": "lots"}

	if err := newTestLoader(nil, env).applyEnvOverrides(DefaultConfig()); err == nil {
		t.Error("Expected error for non-numeric page size")
	}
}
