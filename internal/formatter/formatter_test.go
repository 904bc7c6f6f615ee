package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/emoji"
	"github.com/yildizm/careminder/internal/filters"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

func testOptions() Options {
	return Options{Now: func() time.Time { return fixedNow }}
}

func sampleEvents() *EventList {
	vaccine := api.EventType{ID: "t1", Name: "Vaccination", Description: "Vaccines due"}
	return &EventList{
		Events: []api.Event{
			{Type: vaccine, Description: "Rabies booster", Date: "2024-03-05", MedicalRecordID: "r1", MedicalRecordFilename: "rex.pdf"},
			{Type: vaccine, Description: "Leptospirosis | annual", Date: "2024-04-10"},
		},
		Total:   7,
		Filters: filters.Default(15),
	}
}

func sampleAlerts() *api.AlertResponse {
	return &api.AlertResponse{
		PatientName:    "Rex",
		PatientSpecies: "Dog",
		Alerts: []api.Alert{
			{Title: "Dental cleaning", AlertType: alerts.TypeDentalProcedure, Confidence: 0.5},
			{Title: "Rabies booster", AlertType: alerts.TypeVaccineExpiration, DueDate: "2024-03-10", Confidence: 0.9, SourceExcerpt: "Rabies exp 03/10/2024"},
			{Title: "Annual exam", AlertType: alerts.TypeRoutineExam, DueDate: "2024-05-15", Confidence: 0.75, Notes: "Bring stool sample"},
		},
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "markdown", "csv", "text", ""} {
		if _, err := New(format, testOptions()); err != nil {
			t.Errorf("New(%q) returned error: %v", format, err)
		}
	}
	if _, err := New("xml", testOptions()); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestEventListSummary(t *testing.T) {
	list := sampleEvents()
	if got := list.Summary(); got != "Showing 2 of 7 reminders" {
		t.Errorf("Summary() = %q", got)
	}
	list.Total = 0
	if got := list.Summary(); got != "Showing 2 of 2 reminders" {
		t.Errorf("Summary() with missing total = %q", got)
	}
}

func TestJSONFormatEvents(t *testing.T) {
	out, err := NewJSON(testOptions()).FormatEvents(sampleEvents())
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}

	var decoded EventsOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Loaded != 2 || decoded.Total != 7 || !decoded.HasMore {
		t.Errorf("Unexpected counters: loaded=%d total=%d has_more=%v", decoded.Loaded, decoded.Total, decoded.HasMore)
	}

	empty, err := NewJSON(testOptions()).FormatEvents(&EventList{})
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}
	if !strings.Contains(string(empty), `"events": []`) {
		t.Errorf("Expected empty events array, got %s", empty)
	}
}

func TestJSONFormatAlerts(t *testing.T) {
	out, err := NewJSON(testOptions()).FormatAlerts(sampleAlerts())
	if err != nil {
		t.Fatalf("FormatAlerts failed: %v", err)
	}

	var decoded AlertsOutput
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.Alerts) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(decoded.Alerts))
	}

	want := []struct {
		title   string
		urgency alerts.Urgency
		label   string
	}{
		{"Rabies booster", alerts.High, "Vaccine Expiration"},
		{"Annual exam", alerts.Medium, "Routine Exam"},
		{"Dental cleaning", alerts.Low, "Dental Procedure"},
	}
	for i, w := range want {
		got := decoded.Alerts[i]
		if got.Title != w.title || got.Urgency != w.urgency || got.TypeLabel != w.label {
			t.Errorf("Alert %d = {%s %s %s}, want {%s %s %s}", i, got.Title, got.Urgency, got.TypeLabel, w.title, w.urgency, w.label)
		}
	}
	if decoded.Counts[alerts.High] != 1 || decoded.Counts[alerts.Medium] != 1 || decoded.Counts[alerts.Low] != 1 {
		t.Errorf("Unexpected counts: %v", decoded.Counts)
	}
}

func TestCSVFormatEvents(t *testing.T) {
	out, err := NewCSV(testOptions()).FormatEvents(sampleEvents())
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Date" || records[1][1] != "Rabies booster" || records[1][5] != "rex.pdf" {
		t.Errorf("Unexpected CSV content: %v", records)
	}
}

func TestCSVFormatAlerts(t *testing.T) {
	out, err := NewCSV(testOptions()).FormatAlerts(sampleAlerts())
	if err != nil {
		t.Fatalf("FormatAlerts failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	if records[1][1] != "Rabies booster" || records[1][4] != "High" || records[1][5] != "0.90" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	if records[3][3] != "" {
		t.Errorf("Expected undated alert last with empty due date, got %v", records[3])
	}
}

func TestMarkdownFormatEvents(t *testing.T) {
	out, err := NewMarkdown(testOptions()).FormatEvents(sampleEvents())
	if err != nil {
		t.Fatalf("FormatEvents failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Upcoming care reminders",
		"| Mar 5, 2024 | Rabies booster | rex.pdf | Vaccination |",
		`Leptospirosis \| annual`,
		"Showing 2 of 7 reminders",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdownFormatAlerts(t *testing.T) {
	out, err := NewMarkdown(testOptions()).FormatAlerts(sampleAlerts())
	if err != nil {
		t.Fatalf("FormatAlerts failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"**Patient:** Rex",
		"| High | Rabies booster | Vaccine Expiration | Mar 10, 2024 | 90% |",
		"| Low | Dental cleaning | Dental Procedure | Date TBD | 50% |",
		"> Rabies exp 03/10/2024",
		"Bring stool sample",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdownEmptyStates(t *testing.T) {
	f := NewMarkdown(testOptions())

	out, _ := f.FormatEvents(&EventList{})
	if !strings.Contains(string(out), "No reminders found") {
		t.Errorf("Expected empty events message, got %s", out)
	}
	out, _ = f.FormatRecords(nil)
	if !strings.Contains(string(out), "No patient files uploaded yet") {
		t.Errorf("Expected empty records message, got %s", out)
	}
	out, _ = f.FormatEventTypes(nil)
	if !strings.Contains(string(out), "No reminder categories defined") {
		t.Errorf("Expected empty categories message, got %s", out)
	}
}

func TestUtils(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"format date", formatDate("2024-03-05", DefaultDateLayout), "Mar 5, 2024"},
		{"format empty date", formatDate("", DefaultDateLayout), ""},
		{"format bad date", formatDate("soon", DefaultDateLayout), "soon"},
		{"truncate short", truncate("abc", 10), "abc"},
		{"truncate long", truncate("abcdefghij", 6), "abc..."},
		{"record filename", recordName(api.Event{MedicalRecordID: "r1", MedicalRecordFilename: "a.pdf"}), "a.pdf"},
		{"record id fallback", recordName(api.Event{MedicalRecordID: "r1"}), "r1"},
		{"record missing", recordName(api.Event{}), "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestUrgencyEmojiFallback(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	if got := urgencyEmoji(alerts.High); got != "[HIGH]" {
		t.Errorf("urgencyEmoji(High) = %q", got)
	}
	if got := urgencyEmoji(alerts.Low); got != "[LOW]" {
		t.Errorf("urgencyEmoji(Low) = %q", got)
	}
}
