package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# careminder configuration
version: "1.0"

api:
  # Care reminder API
  base_url: http://localhost:8000
  # Alert extraction service, leave empty to use base_url
  alerts_url: ""
  timeout: 30s
  # Uploads and alert generation can take a while
  upload_timeout: 5m
  user_agent: careminder
  # Concurrent uploads for "records upload"
  max_parallel_uploads: 2

events:
  # Reminders fetched per page
  page_size: 15

ui:
  # default, high-contrast or minimal
  theme: default
  toast_duration: 3s
  overlay_interval: 4s
  # Disable past days in the date filter
  min_date_today: true
  # Go time layout for the date fields
  date_format: 01/02/2006

alerts:
  # YAML file with clinic policies sent with every alert request
  policies_file: ""
  # Alerts due within these many days are High / Medium urgency
  high_within_days: 30
  medium_within_days: 90

watch:
  # Default inbox for "records watch"
  directory: ""
  debounce: 500ms

output:
  # text, json, markdown or csv
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  # The TUI logs here instead of the terminal
  log_file: ~/.cache/careminder/careminder.log
`
}

// MinimalSampleConfig returns a configuration with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
api:
  base_url: http://localhost:8000
events:
  page_size: 15
output:
  default_format: text
`
}
