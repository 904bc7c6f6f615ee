package ui

import (
	"context"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/eventlist"
)

// EventTypesAPI manages reminder categories
type EventTypesAPI interface {
	List(ctx context.Context) ([]api.EventType, error)
	Create(ctx context.Context, in api.NewEventType) (*api.EventType, error)
	Remove(ctx context.Context, id string) error
}

// RecordsAPI manages patient files
type RecordsAPI interface {
	List(ctx context.Context) ([]api.MedicalRecord, error)
	Upload(ctx context.Context, filename string, data []byte) (*api.EventsPage, error)
	Remove(ctx context.Context, id string) error
}

// AlertsAPI extracts alerts from a patient file
type AlertsAPI interface {
	Generate(ctx context.Context, filename string, data []byte, clinicPolicies string) (*api.AlertResponse, error)
}

// Services are the API collaborators the TUI talks to
type Services struct {
	Events     eventlist.Lister
	EventTypes EventTypesAPI
	Records    RecordsAPI
	Alerts     AlertsAPI
}

// NewServices wires the resource services. alertsClient may equal client.
func NewServices(client, alertsClient *api.Client) Services {
	if alertsClient == nil {
		alertsClient = client
	}
	return Services{
		Events:     api.NewEventsService(client),
		EventTypes: api.NewEventTypesService(client),
		Records:    api.NewMedicalRecordsService(client),
		Alerts:     api.NewAlertsService(alertsClient),
	}
}
