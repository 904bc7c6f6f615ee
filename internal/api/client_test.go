package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/api/apitest"
)

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	client, err := api.New(api.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid", baseURL: "http://localhost:8000", wantErr: false},
		{name: "with path", baseURL: "http://localhost:8000/api", wantErr: false},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "no scheme", baseURL: "localhost:8000/api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.New(api.Config{BaseURL: tt.baseURL}, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, api.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestClient_Health(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	status, err := newClient(t, srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("Expected status ok, got %s", status.Status)
	}
}

func TestClient_BasePathPreserved(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := api.New(api.Config{BaseURL: srv.URL + "/api/", UserAgent: "careminder-test"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := api.NewEventTypesService(client).Remove(context.Background(), "a/b c"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if gotPath != "/api/event-types/a%2Fb%20c" {
		t.Errorf("Expected escaped id under base path, got %s", gotPath)
	}
	if gotAgent != "careminder-test" {
		t.Errorf("Expected user agent careminder-test, got %s", gotAgent)
	}
}

func TestClient_ErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "error field",
			status:      http.StatusBadRequest,
			body:        `{"error": "Invalid filename"}`,
			wantMessage: "Invalid filename",
		},
		{
			name:        "detail field",
			status:      http.StatusBadRequest,
			body:        `{"detail": "Only PDF uploads are supported"}`,
			wantMessage: "Only PDF uploads are supported",
		},
		{
			name:        "structured detail falls back",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail": [{"msg": "Field required"}]}`,
			wantMessage: "request failed with status 422",
		},
		{
			name:        "non-JSON body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			srv.Fail("event-types.list", tt.status, tt.body)

			_, err := api.NewEventTypesService(newClient(t, srv.URL)).List(context.Background())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var apiErr *api.Error
			if !errors.As(err, &apiErr) || apiErr.Kind != api.KindServer {
				t.Fatalf("Expected server error, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if err.Error() != tt.wantMessage {
				t.Errorf("Expected message %q, got %q", tt.wantMessage, err.Error())
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.NewMedicalRecordsService(newClient(t, url)).List(context.Background())
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("Expected network error, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("Expected network error to carry its cause")
	}
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events": "not-a-list"}`))
	}))
	defer srv.Close()

	_, err := api.NewEventsService(newClient(t, srv.URL)).List(context.Background(), api.EventsQuery{Page: 1, PageSize: 15})
	if !errors.Is(err, api.ErrDecode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.NewEventTypesService(newClient(t, srv.URL)).List(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
}
