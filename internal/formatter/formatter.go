package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/filters"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	FormatEvents(list *EventList) ([]byte, error)
	FormatRecords(records []api.MedicalRecord) ([]byte, error)
	FormatEventTypes(types []api.EventType) ([]byte, error)
	FormatAlerts(resp *api.AlertResponse) ([]byte, error)
}

// EventList is a loaded slice of the reminder list
type EventList struct {
	Events  []api.Event   `json:"events"`
	Total   int           `json:"total"`
	Filters filters.State `json:"filters"`
}

// Summary matches the list footer shown in the TUI
func (l *EventList) Summary() string {
	total := l.Total
	if len(l.Events) > total {
		total = len(l.Events)
	}
	return fmt.Sprintf("Showing %d of %d reminders", len(l.Events), total)
}

// Options tune human-readable output
type Options struct {
	Color      bool
	DateLayout string // display layout for dates, defaults to "Jan 2, 2006"
	Thresholds alerts.Thresholds
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Thresholds == (alerts.Thresholds{}) {
		o.Thresholds = alerts.DefaultThresholds()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DefaultDateLayout renders dates like "Mar 5, 2024"
const DefaultDateLayout = "Jan 2, 2006"

// New returns the formatter for format
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(opts), nil
	case "markdown":
		return NewMarkdown(opts), nil
	case "csv":
		return NewCSV(opts), nil
	case "text", "":
		return NewTerminal(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
