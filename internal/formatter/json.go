package formatter

import (
	"encoding/json"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct {
	opts Options
}

// NewJSON creates a new JSON formatter
func NewJSON(opts Options) Formatter {
	return &jsonFormatter{opts: opts.withDefaults()}
}

// EventsOutput is the JSON shape of an events listing
type EventsOutput struct {
	Events  []api.Event `json:"events"`
	Total   int         `json:"total"`
	Loaded  int         `json:"loaded"`
	HasMore bool        `json:"has_more"`
	Filters any         `json:"filters"`
}

// AlertOutput adds derived fields to an alert
type AlertOutput struct {
	api.Alert
	Urgency   alerts.Urgency `json:"urgency"`
	TypeLabel string         `json:"type_label"`
}

// AlertsOutput is the JSON shape of an alert response
type AlertsOutput struct {
	PatientName    string                 `json:"patient_name,omitempty"`
	PatientSpecies string                 `json:"patient_species,omitempty"`
	Alerts         []AlertOutput          `json:"alerts"`
	Counts         map[alerts.Urgency]int `json:"counts"`
}

func (f *jsonFormatter) FormatEvents(list *EventList) ([]byte, error) {
	events := list.Events
	if events == nil {
		events = []api.Event{}
	}
	output := &EventsOutput{
		Events:  events,
		Total:   list.Total,
		Loaded:  len(events),
		HasMore: len(events) < list.Total,
		Filters: list.Filters,
	}
	return json.MarshalIndent(output, "", "  ")
}

func (f *jsonFormatter) FormatRecords(records []api.MedicalRecord) ([]byte, error) {
	if records == nil {
		records = []api.MedicalRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

func (f *jsonFormatter) FormatEventTypes(types []api.EventType) ([]byte, error) {
	if types == nil {
		types = []api.EventType{}
	}
	return json.MarshalIndent(types, "", "  ")
}

func (f *jsonFormatter) FormatAlerts(resp *api.AlertResponse) ([]byte, error) {
	now := f.opts.Now()
	list := append([]api.Alert(nil), resp.Alerts...)
	alerts.Sort(list)

	output := &AlertsOutput{
		PatientName:    resp.PatientName,
		PatientSpecies: resp.PatientSpecies,
		Alerts:         make([]AlertOutput, 0, len(list)),
		Counts:         alerts.Counts(list, now, f.opts.Thresholds),
	}
	for _, a := range list {
		output.Alerts = append(output.Alerts, AlertOutput{
			Alert:     a,
			Urgency:   alerts.Classify(a, now, f.opts.Thresholds),
			TypeLabel: alerts.FormatType(a.AlertType),
		})
	}
	return json.MarshalIndent(output, "", "  ")
}
