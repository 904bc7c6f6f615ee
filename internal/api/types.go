package api

import (
	"net/url"
	"strconv"
	"time"
)

// EventType is a reminder category
type EventType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDeletable bool   `json:"is_deletable"`
}

// NewEventType is the body of a category create request
type NewEventType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Event is a care reminder extracted from a patient file
type Event struct {
	Type                  EventType `json:"type"`
	Description           string    `json:"description"`
	Date                  string    `json:"date"`
	MedicalRecordID       string    `json:"medical_record_id,omitempty"`
	MedicalRecordFilename string    `json:"medical_record_filename,omitempty"`
}

// EventsPage is one page of the events listing. Total, Page and PageSize are
// optional on the wire.
type EventsPage struct {
	Events   []Event `json:"events"`
	Total    *int    `json:"total,omitempty"`
	Page     *int    `json:"page,omitempty"`
	PageSize *int    `json:"page_size,omitempty"`
}

// MedicalRecord is an uploaded patient file
type MedicalRecord struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	CreatedTime string `json:"created_time"`
}

// Created parses CreatedTime. The server emits ISO 8601 with or without a zone.
func (r MedicalRecord) Created() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, r.CreatedTime); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type medicalRecordsResponse struct {
	MedicalRecords []MedicalRecord `json:"medical_records"`
}

// Alert is a single AI-extracted follow-up
type Alert struct {
	Title         string  `json:"title"`
	AlertType     string  `json:"alert_type"`
	DueDate       string  `json:"due_date,omitempty"`
	Confidence    float64 `json:"confidence"`
	SourceExcerpt string  `json:"source_excerpt"`
	Notes         string  `json:"notes,omitempty"`
}

// AlertResponse is the result of alert generation
type AlertResponse struct {
	PatientName    string  `json:"patient_name,omitempty"`
	PatientSpecies string  `json:"patient_species,omitempty"`
	Alerts         []Alert `json:"alerts"`
}

type alertsFromTextRequest struct {
	Text           string `json:"text"`
	ClinicPolicies string `json:"clinic_policies,omitempty"`
}

// EventsQuery holds the events listing parameters
type EventsQuery struct {
	Page             int
	PageSize         int
	EventTypeIDs     []string
	MedicalRecordIDs []string
	StartDate        string
	EndDate          string
}

// Values encodes the query. Zero and empty values are omitted and slices become
// repeated parameters.
func (q EventsQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	for _, id := range q.EventTypeIDs {
		if id != "" {
			v.Add("event_type_ids", id)
		}
	}
	for _, id := range q.MedicalRecordIDs {
		if id != "" {
			v.Add("medical_record_ids", id)
		}
	}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	return v
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status string `json:"status"`
}
