package formatter

import (
	"strings"
	"testing"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/emoji"
	"github.com/yildizm/careminder/internal/filters"
)

func newPlainTerminal() Formatter {
	emoji.SetEmojiDisabled(true)
	return NewTerminal(testOptions())
}

func TestTerminalFormatEvents(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatEvents(sampleEvents())
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"[REM] Upcoming care reminders",
		"Mar 5, 2024",
		"Rabies booster",
		"rex.pdf",
		"Showing 2 of 7 reminders",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "Filters") {
		t.Error("Default filters should not be listed")
	}
}

func TestTerminalFormatEventsWithFilters(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	list := sampleEvents()
	list.Filters = filters.Default(15).ToggleEventType("t1").SetDateRange("2024-03-01", "")

	out, err := f.FormatEvents(list)
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"Filters", "Categories", "t1", "2024-03-01 / any"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q\n%s", want, text)
		}
	}
}

func TestTerminalFormatEventsEmpty(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatEvents(&EventList{})
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}
	if !strings.Contains(string(out), "No reminders found. Adjust filters or upload a patient file.") {
		t.Errorf("Expected empty state message, got %s", out)
	}
}

func TestTerminalFormatEventTypes(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatEventTypes([]api.EventType{
		{ID: "t1", Name: "Vaccination", Description: "Vaccines due", IsDeletable: false},
		{ID: "t2", Name: "Grooming", Description: "Baths", IsDeletable: true},
	})
	if err != nil {
		t.Fatalf("FormatEventTypes failed: %v", err)
	}
	text := string(out)

	if !strings.Contains(text, "Vaccination [LCK]") {
		t.Errorf("Expected locked marker on built-in category\n%s", text)
	}
	if strings.Contains(text, "Grooming [LCK]") {
		t.Errorf("Deletable category should not be locked\n%s", text)
	}
}

func TestTerminalFormatRecords(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatRecords([]api.MedicalRecord{
		{ID: "0b6f0a8e-6f55-4a55-9a3c-1b2f1f0d6c11", Filename: "rex.pdf", CreatedTime: "2024-03-01T10:30:00Z"},
	})
	if err != nil {
		t.Fatalf("FormatRecords failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{"[PDF] Patient files", "rex.pdf", "0b6f0a8e-6f55-4a55-9a3c-1b2f1f0d6c11"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q\n%s", want, text)
		}
	}
}

func TestTerminalFormatAlerts(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatAlerts(sampleAlerts())
	if err != nil {
		t.Fatalf("FormatAlerts failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"Rex",
		"Dog",
		"3 total: 1 high, 1 medium, 1 low",
		"[HIGH] Rabies booster",
		"Vaccine Expiration",
		"Date TBD",
		"Bring stool sample",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q\n%s", want, text)
		}
	}

	if strings.Index(text, "Rabies booster") > strings.Index(text, "Dental cleaning") {
		t.Error("Expected dated alerts before undated ones")
	}
}

func TestTerminalFormatAlertsEmpty(t *testing.T) {
	defer emoji.SetEmojiDisabled(false)
	f := newPlainTerminal()

	out, err := f.FormatAlerts(&api.AlertResponse{})
	if err != nil {
		t.Fatalf("FormatAlerts failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "Unknown") || !strings.Contains(text, "No alerts found in this record.") {
		t.Errorf("Unexpected empty alert output\n%s", text)
	}
}
