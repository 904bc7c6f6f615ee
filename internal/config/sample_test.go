package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSampleConfigsLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"full", SampleConfig()},
		{"minimal", MinimalSampleConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "careminder.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			loader := &Loader{getenv: func(string) string { return "" }}
			cfg, err := loader.LoadConfig(path)
			if err != nil {
				t.Fatalf("Sample config failed to load: %v", err)
			}

			defaults := DefaultConfig()
			if cfg.API != defaults.API || cfg.Events != defaults.Events || cfg.UI != defaults.UI {
				t.Errorf("Sample config drifted from defaults: %+v", cfg)
			}
		})
	}
}
