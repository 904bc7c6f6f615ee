package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	Events  EventsConfig `yaml:"events" json:"events"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
	Alerts  AlertsConfig `yaml:"alerts" json:"alerts"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// APIConfig configures the clinic API client
type APIConfig struct {
	BaseURL            string        `yaml:"base_url" json:"base_url"`                         // care reminder API
	AlertsURL          string        `yaml:"alerts_url" json:"alerts_url"`                     // alert extraction service, empty = base_url
	Timeout            time.Duration `yaml:"timeout" json:"timeout"`                           // per request
	UploadTimeout      time.Duration `yaml:"upload_timeout" json:"upload_timeout"`             // uploads and alert generation
	UserAgent          string        `yaml:"user_agent" json:"user_agent"`                     // sent on every request
	MaxParallelUploads int           `yaml:"max_parallel_uploads" json:"max_parallel_uploads"` // records upload fan-out
}

// EventsConfig configures the reminder list
type EventsConfig struct {
	PageSize int `yaml:"page_size" json:"page_size"`
}

// UIConfig configures the terminal UI
type UIConfig struct {
	Theme           string        `yaml:"theme" json:"theme"`                       // default|high-contrast|minimal
	ToastDuration   time.Duration `yaml:"toast_duration" json:"toast_duration"`     // notification auto-dismiss
	OverlayInterval time.Duration `yaml:"overlay_interval" json:"overlay_interval"` // busy overlay message rotation
	MinDateToday    bool          `yaml:"min_date_today" json:"min_date_today"`     // disable past days in the date filter
	DateFormat      string        `yaml:"date_format" json:"date_format"`           // Go layout for date fields
}

// AlertsConfig configures alert generation and urgency thresholds
type AlertsConfig struct {
	PoliciesFile     string `yaml:"policies_file" json:"policies_file"`
	HighWithinDays   int    `yaml:"high_within_days" json:"high_within_days"`
	MediumWithinDays int    `yaml:"medium_within_days" json:"medium_within_days"`
}

// WatchConfig configures the record inbox watcher
type WatchConfig struct {
	Directory string        `yaml:"directory" json:"directory"`
	Debounce  time.Duration `yaml:"debounce" json:"debounce"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	LogFile       string `yaml:"log_file" json:"log_file"`             // TUI log destination
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:            "http://localhost:8000",
			AlertsURL:          "",
			Timeout:            30 * time.Second,
			UploadTimeout:      5 * time.Minute,
			UserAgent:          "careminder",
			MaxParallelUploads: 2,
		},
		Events: EventsConfig{
			PageSize: 15,
		},
		UI: UIConfig{
			Theme:           "default",
			ToastDuration:   3 * time.Second,
			OverlayInterval: 4 * time.Second,
			MinDateToday:    true,
			DateFormat:      "01/02/2006",
		},
		Alerts: AlertsConfig{
			PoliciesFile:     "",
			HighWithinDays:   30,
			MediumWithinDays: 90,
		},
		Watch: WatchConfig{
			Directory: "",
			Debounce:  500 * time.Millisecond,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			LogFile:       "~/.cache/careminder/careminder.log",
		},
	}
}

// AlertsBaseURL returns the alert service URL, falling back to the API base URL
func (c *Config) AlertsBaseURL() string {
	if c.API.AlertsURL != "" {
		return c.API.AlertsURL
	}
	return c.API.BaseURL
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateEventsConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateAlertsConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateAPIConfig validates API client configuration
func (c *Config) validateAPIConfig() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url is required")
	}
	for name, raw := range map[string]string{"base_url": c.API.BaseURL, "alerts_url": c.API.AlertsURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid api %s: %s", name, raw)
		}
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must be non-negative")
	}
	if c.API.UploadTimeout < 0 {
		return fmt.Errorf("api upload_timeout must be non-negative")
	}
	if c.API.MaxParallelUploads < 1 {
		return fmt.Errorf("max_parallel_uploads must be greater than 0")
	}
	return nil
}

// validateEventsConfig validates reminder list configuration
func (c *Config) validateEventsConfig() error {
	if c.Events.PageSize < 1 || c.Events.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100")
	}
	return nil
}

// validateUIConfig validates terminal UI configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive")
	}
	if c.UI.OverlayInterval <= 0 {
		return fmt.Errorf("overlay_interval must be positive")
	}
	return nil
}

// validateAlertsConfig validates urgency thresholds
func (c *Config) validateAlertsConfig() error {
	if c.Alerts.HighWithinDays < 0 {
		return fmt.Errorf("high_within_days must be non-negative")
	}
	if c.Alerts.MediumWithinDays < c.Alerts.HighWithinDays {
		return fmt.Errorf("medium_within_days must not be less than high_within_days")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}
