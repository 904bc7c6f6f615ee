package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVerboseGating(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		log       func(l *Logger)
		wantShown bool
	}{
		{"debug hidden", false, func(l *Logger) { l.Debug("debug %d", 1) }, false},
		{"info hidden", false, func(l *Logger) { l.Info("info") }, false},
		{"debug shown when verbose", true, func(l *Logger) { l.Debug("debug %d", 1) }, true},
		{"warn always", false, func(l *Logger) { l.Warn("careful") }, true},
		{"error always", false, func(l *Logger) { l.Error("broken") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter("test", Static(tt.verbose), &buf))

			if shown := buf.Len() > 0; shown != tt.wantShown {
				t.Errorf("Expected shown=%v, got output %q", tt.wantShown, buf.String())
			}
		})
	}
}

func TestFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api", Static(true), &buf)

	log.WithComponent("watch").ErrorWithFields("upload failed", []Field{
		F("path", "rex.pdf"),
		Count(2),
		Error(errors.New("boom")),
	})

	out := buf.String()
	for _, want := range []string{"upload failed", "component=watch", "path=rex.pdf", "count=2", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestCallbackChecker(t *testing.T) {
	verbose := false
	var buf bytes.Buffer
	log := NewWithWriter("test", &callbackChecker{callback: func() bool { return verbose }}, &buf)

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output, got %q", buf.String())
	}

	verbose = true
	log.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected output after enabling verbose, got %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Error("discarded %s", "message")
}
