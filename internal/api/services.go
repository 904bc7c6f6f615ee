package api

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// EventsService lists care reminders
type EventsService struct {
	client *Client
}

// NewEventsService creates an EventsService
func NewEventsService(client *Client) *EventsService {
	return &EventsService{client: client}
}

// List fetches one page of events matching query
func (s *EventsService) List(ctx context.Context, query EventsQuery) (*EventsPage, error) {
	var page EventsPage
	if err := s.client.getJSON(ctx, "events", query.Values(), &page); err != nil {
		return nil, err
	}
	if page.Events == nil {
		page.Events = []Event{}
	}
	return &page, nil
}

// EventTypesService manages reminder categories
type EventTypesService struct {
	client *Client
}

// NewEventTypesService creates an EventTypesService
func NewEventTypesService(client *Client) *EventTypesService {
	return &EventTypesService{client: client}
}

// List returns every category
func (s *EventTypesService) List(ctx context.Context) ([]EventType, error) {
	var types []EventType
	if err := s.client.getJSON(ctx, "event-types", nil, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []EventType{}
	}
	return types, nil
}

// Create adds a category
func (s *EventTypesService) Create(ctx context.Context, in NewEventType) (*EventType, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" {
		return nil, NewValidationError("name and description are required")
	}

	var created EventType
	if err := s.client.postJSON(ctx, "event-types", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Remove deletes a category by id
func (s *EventTypesService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("category id is required")
	}
	return s.client.delete(ctx, "event-types", id)
}

// MedicalRecordsService manages patient files
type MedicalRecordsService struct {
	client *Client
}

// NewMedicalRecordsService creates a MedicalRecordsService
func NewMedicalRecordsService(client *Client) *MedicalRecordsService {
	return &MedicalRecordsService{client: client}
}

// List returns every uploaded patient file
func (s *MedicalRecordsService) List(ctx context.Context) ([]MedicalRecord, error) {
	var resp medicalRecordsResponse
	if err := s.client.getJSON(ctx, "medical-records", nil, &resp); err != nil {
		return nil, err
	}
	if resp.MedicalRecords == nil {
		return []MedicalRecord{}, nil
	}
	return resp.MedicalRecords, nil
}

// Upload sends a PDF and returns the reminders extracted from it
func (s *MedicalRecordsService) Upload(ctx context.Context, filename string, data []byte) (*EventsPage, error) {
	name, err := pdfName(filename)
	if err != nil {
		return nil, err
	}

	var page EventsPage
	file := formFile{field: "file", filename: name, contentType: "application/pdf", data: data}
	if err := s.client.postMultipart(ctx, "medical-records", file, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Remove deletes a patient file by id
func (s *MedicalRecordsService) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError(fmt.Sprintf("invalid patient file id: %q", id))
	}
	return s.client.delete(ctx, "medical-records", id)
}

// AlertsService generates alerts from patient files
type AlertsService struct {
	client *Client
}

// NewAlertsService creates an AlertsService. The alert extractor may live on a
// different host than the reminder API, so it takes its own client.
func NewAlertsService(client *Client) *AlertsService {
	return &AlertsService{client: client}
}

// Generate uploads a PDF and returns the extracted alerts
func (s *AlertsService) Generate(ctx context.Context, filename string, data []byte, clinicPolicies string) (*AlertResponse, error) {
	name, err := pdfName(filename)
	if err != nil {
		return nil, err
	}

	var resp AlertResponse
	file := formFile{field: "file", filename: name, contentType: "application/pdf", data: data}
	fields := map[string]string{"clinic_policies": clinicPolicies}
	if err := s.client.postMultipart(ctx, "alerts", file, fields, &resp); err != nil {
		return nil, err
	}
	if resp.Alerts == nil {
		resp.Alerts = []Alert{}
	}
	return &resp, nil
}

// GenerateFromText extracts alerts from already-extracted record text
func (s *AlertsService) GenerateFromText(ctx context.Context, text, clinicPolicies string) (*AlertResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("text is required")
	}

	var resp AlertResponse
	req := alertsFromTextRequest{Text: text, ClinicPolicies: clinicPolicies}
	if err := s.client.postJSON(ctx, "alerts/from-text", req, &resp); err != nil {
		return nil, err
	}
	if resp.Alerts == nil {
		resp.Alerts = []Alert{}
	}
	return &resp, nil
}

// pdfName returns the base name of filename, rejecting anything but .pdf
func pdfName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", NewValidationError("a file name is required")
	}
	if filepath.Ext(name) != ".pdf" {
		return "", NewValidationError(fmt.Sprintf("%s is not a PDF file", name))
	}
	return name, nil
}
