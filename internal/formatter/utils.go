package formatter

import (
	"strings"
	"time"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/emoji"
)

// formatDate renders an ISO date with layout, passing unparseable input through
func formatDate(iso, layout string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format(layout)
}

// formatCreated renders a record creation time with layout
func formatCreated(r api.MedicalRecord, layout string) string {
	t, ok := r.Created()
	if !ok {
		return r.CreatedTime
	}
	return t.Format(layout)
}

// urgencyEmoji returns the badge symbol for u
func urgencyEmoji(u alerts.Urgency) string {
	switch u {
	case alerts.High:
		return emoji.GetEmoji("high")
	case alerts.Medium:
		return emoji.GetEmoji("medium")
	default:
		return emoji.GetEmoji("low")
	}
}

// recordName falls back to the id when the event carries no filename
func recordName(e api.Event) string {
	if e.MedicalRecordFilename != "" {
		return e.MedicalRecordFilename
	}
	if e.MedicalRecordID != "" {
		return e.MedicalRecordID
	}
	return "-"
}

// escapeMarkdown escapes table delimiters
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
