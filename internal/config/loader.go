package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.careminder.yaml",               // Project-specific config (highest priority)
	"~/.config/careminder/config.yaml", // User config
	"/etc/careminder/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.careminder.yaml
// 4. ~/.config/careminder/config.yaml
// 5. /etc/careminder/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := ExpandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file on top of config. Keys absent from the file keep
// their current value, booleans included.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	merged := *config
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// API Config
		"CAREMINDER_API_BASE_URL":             func(v string) error { config.API.BaseURL = v; return nil },
		"CAREMINDER_API_ALERTS_URL":           func(v string) error { config.API.AlertsURL = v; return nil },
		"CAREMINDER_API_TIMEOUT":              func(v string) error { return parseDuration(v, &config.API.Timeout) },
		"CAREMINDER_API_UPLOAD_TIMEOUT":       func(v string) error { return parseDuration(v, &config.API.UploadTimeout) },
		"CAREMINDER_API_USER_AGENT":           func(v string) error { config.API.UserAgent = v; return nil },
		"CAREMINDER_API_MAX_PARALLEL_UPLOADS": func(v string) error { return parseInt(v, &config.API.MaxParallelUploads) },

		// Events Config
		"CAREMINDER_EVENTS_PAGE_SIZE": func(v string) error { return parseInt(v, &config.Events.PageSize) },

		// UI Config
		"CAREMINDER_UI_THEME":          func(v string) error { config.UI.Theme = v; return nil },
		"CAREMINDER_UI_TOAST_DURATION": func(v string) error { return parseDuration(v, &config.UI.ToastDuration) },
		"CAREMINDER_UI_MIN_DATE_TODAY": func(v string) error { return parseBool(v, &config.UI.MinDateToday) },
		"CAREMINDER_UI_DATE_FORMAT":    func(v string) error { config.UI.DateFormat = v; return nil },

		// Alerts Config
		"CAREMINDER_ALERTS_POLICIES_FILE":      func(v string) error { config.Alerts.PoliciesFile = v; return nil },
		"CAREMINDER_ALERTS_HIGH_WITHIN_DAYS":   func(v string) error { return parseInt(v, &config.Alerts.HighWithinDays) },
		"CAREMINDER_ALERTS_MEDIUM_WITHIN_DAYS": func(v string) error { return parseInt(v, &config.Alerts.MediumWithinDays) },

		// Watch Config
		"CAREMINDER_WATCH_DIRECTORY": func(v string) error { config.Watch.Directory = v; return nil },
		"CAREMINDER_WATCH_DEBOUNCE":  func(v string) error { return parseDuration(v, &config.Watch.Debounce) },

		// Output Config
		"CAREMINDER_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"CAREMINDER_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"CAREMINDER_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"CAREMINDER_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(strings.TrimSpace(value)); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, ExpandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := ExpandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
