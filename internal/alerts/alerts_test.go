package alerts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/yildizm/careminder/internal/api"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, time.June, 1, 15, 0, 0, 0, time.Local)
	th := DefaultThresholds()

	tests := []struct {
		name string
		due  string
		want Urgency
	}{
		{name: "overdue", due: "2024-05-01", want: High},
		{name: "today", due: "2024-06-01", want: High},
		{name: "edge of high window", due: "2024-07-01", want: High},
		{name: "medium", due: "2024-07-02", want: Medium},
		{name: "edge of medium window", due: "2024-08-30", want: Medium},
		{name: "low", due: "2024-12-01", want: Low},
		{name: "undated", due: "", want: Low},
		{name: "unparseable", due: "soon", want: Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(api.Alert{DueDate: tt.due}, now, th)
			if got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.due, got, tt.want)
			}
		})
	}
}

func TestFormatType(t *testing.T) {
	tests := map[string]string{
		"VACCINE_EXPIRATION": "Vaccine Expiration",
		"DENTAL_PROCEDURE":   "Dental Procedure",
		"ROUTINE_EXAM":       "Routine Exam",
		"FOLLOW_UP":          "Follow Up",
		"OTHER":              "Other",
		"":                   "Other",
		"ÉCHO_CARDIAQUE":     "Écho Cardiaque",
	}

	for in, want := range tests {
		got := FormatType(in)
		if got != want {
			t.Errorf("FormatType(%q) = %q, want %q", in, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("FormatType(%q) returned invalid UTF-8 %q", in, got)
		}
	}
}

func TestDueLabel(t *testing.T) {
	if got := DueLabel(api.Alert{}, "Jan 2, 2006"); got != DateTBD {
		t.Errorf("Expected %q, got %q", DateTBD, got)
	}
	if got := DueLabel(api.Alert{DueDate: "2024-03-05"}, "Jan 2, 2006"); got != "Mar 5, 2024" {
		t.Errorf("Expected Mar 5, 2024, got %q", got)
	}
}

func TestSort(t *testing.T) {
	list := []api.Alert{
		{Title: "undated-a"},
		{Title: "late", DueDate: "2024-09-01"},
		{Title: "undated-b"},
		{Title: "early", DueDate: "2024-02-01"},
	}
	Sort(list)

	var got []string
	for _, a := range list {
		got = append(got, a.Title)
	}
	want := "early,late,undated-a,undated-b"
	if strings.Join(got, ",") != want {
		t.Errorf("Sort() order = %v, want %s", got, want)
	}
}

func TestCounts(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	counts := Counts([]api.Alert{
		{DueDate: "2024-06-02"},
		{DueDate: "2024-06-03"},
		{DueDate: "2024-08-01"},
		{},
	}, now, DefaultThresholds())

	if counts[High] != 2 || counts[Medium] != 1 || counts[Low] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
}

func TestParseResponse(t *testing.T) {
	content := "Here are the alerts:\n```json\n" +
		`{"patient_name": "Rex", "alerts": [{"title": "Rabies", "alert_type": "VACCINE_EXPIRATION", "confidence": 0.9, "source_excerpt": "rabies"}]}` +
		"\n```\n"

	resp, err := ParseResponse(content)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if resp.PatientName != "Rex" || len(resp.Alerts) != 1 {
		t.Errorf("Unexpected response %+v", resp)
	}

	if _, err := ParseResponse("no json here"); err == nil {
		t.Error("Expected error for input without JSON")
	}
}

func TestPolicies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `clinic: Happy Paws
species: [canine, feline]
policies:
  - name: Dental
    rule: Dental cleaning for adult dogs
    interval: 12 months
  - name: Rabies
    rule: Rabies booster per state law
notes: Senior pets get a six month wellness exam.
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	text, err := PoliciesText(path)
	if err != nil {
		t.Fatalf("PoliciesText() error = %v", err)
	}

	for _, want := range []string{"Happy Paws", "Dental cleaning for adult dogs", "every 12 months", "Rabies booster", "six month wellness"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected policies text to contain %q, got:\n%s", want, text)
		}
	}
}

func TestPoliciesTextVerbatim(t *testing.T) {
	p := &Policies{
		Clinic:   "100% Paws",
		Policies: []Policy{{Name: "Dental", Rule: "Scale 100% of adult teeth"}},
	}

	text := p.Text()
	for _, want := range []string{"100% Paws", "Scale 100% of adult teeth"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected policies text to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "%!") {
		t.Errorf("Expected no formatting artifacts, got:\n%s", text)
	}
	if n := strings.Count(text, "Apply the following policies"); n != 1 {
		t.Errorf("Expected the system line once, got %d times:\n%s", n, text)
	}
}

func TestPoliciesErrors(t *testing.T) {
	if text, err := PoliciesText(""); err != nil || text != "" {
		t.Errorf("Expected empty path to yield nothing, got %q %v", text, err)
	}

	if _, err := PoliciesText(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("clinic: Nobody\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := PoliciesText(empty); err == nil {
		t.Error("Expected error for file without policies")
	}
}
