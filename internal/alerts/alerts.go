// Package alerts classifies and orders AI-extracted alerts for display.
package alerts

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/careminder/internal/api"
)

// Urgency of an alert relative to today
type Urgency string

const (
	High   Urgency = "High"
	Medium Urgency = "Medium"
	Low    Urgency = "Low"
)

// Known alert types
const (
	TypeVaccineExpiration = "VACCINE_EXPIRATION"
	TypeDentalProcedure   = "DENTAL_PROCEDURE"
	TypeRoutineExam       = "ROUTINE_EXAM"
	TypeFollowUp          = "FOLLOW_UP"
	TypeOther             = "OTHER"
)

// DateTBD is shown for alerts without a due date
const DateTBD = "Date TBD"

// Thresholds bound the High and Medium urgency windows in days
type Thresholds struct {
	HighWithinDays   int
	MediumWithinDays int
}

// DefaultThresholds returns 30/90 days
func DefaultThresholds() Thresholds {
	return Thresholds{HighWithinDays: 30, MediumWithinDays: 90}
}

// DueDate parses the alert due date
func DueDate(a api.Alert) (time.Time, bool) {
	if a.DueDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", a.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Classify returns the urgency of a as of now. Overdue alerts are High and
// undated ones are Low.
func Classify(a api.Alert, now time.Time, th Thresholds) Urgency {
	due, ok := DueDate(a)
	if !ok {
		return Low
	}

	days := daysBetween(now, due)

	switch {
	case days <= th.HighWithinDays:
		return High
	case days <= th.MediumWithinDays:
		return Medium
	default:
		return Low
	}
}

// daysBetween counts calendar days from a to b, ignoring time of day and DST
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// FormatType turns VACCINE_EXPIRATION into "Vaccine Expiration"
func FormatType(alertType string) string {
	words := strings.FieldsFunc(strings.ToLower(alertType), func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	if len(words) == 0 {
		return "Other"
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// DueLabel formats the due date with layout, or DateTBD
func DueLabel(a api.Alert, layout string) string {
	due, ok := DueDate(a)
	if !ok {
		if a.DueDate != "" {
			return a.DueDate
		}
		return DateTBD
	}
	return due.Format(layout)
}

// Sort orders alerts by due date, undated last. Ties keep their order.
func Sort(list []api.Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		di, oki := DueDate(list[i])
		dj, okj := DueDate(list[j])
		switch {
		case oki && okj:
			return di.Before(dj)
		case oki:
			return true
		default:
			return false
		}
	})
}

// Counts tallies alerts per urgency
func Counts(list []api.Alert, now time.Time, th Thresholds) map[Urgency]int {
	counts := map[Urgency]int{High: 0, Medium: 0, Low: 0}
	for _, a := range list {
		counts[Classify(a, now, th)]++
	}
	return counts
}

// ParseResponse decodes a saved alert response. Markdown fences or prose around
// the JSON are tolerated.
func ParseResponse(content string) (*api.AlertResponse, error) {
	var resp api.AlertResponse
	result := promptfmt.NewResponse(content).TryParseJSON(&resp)
	if !result.Success {
		return nil, fmt.Errorf("no alert response found in input")
	}
	if resp.Alerts == nil {
		resp.Alerts = []api.Alert{}
	}
	return &resp, nil
}
