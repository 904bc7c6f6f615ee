// Package apitest provides an in-memory clinic API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/yildizm/careminder/internal/api"
)

// Failure is an injected error response
type Failure struct {
	Status int
	Body   string
}

// Server is a fake clinic API backed by in-memory slices
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	eventTypes []api.EventType
	records    []api.MedicalRecord
	events     []api.Event
	alerts     api.AlertResponse

	failures      map[string]Failure
	eventQueries  []url.Values
	uploads       []string
	policies      []string
	omitTotal     bool
	uploadedEvent func(recordID, filename string) []api.Event
}

// NewServer starts a fake API. Call Close when done.
func NewServer() *Server {
	s := &Server{failures: make(map[string]Failure)}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.failureMiddleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet).Name("health")
	r.HandleFunc("/events", s.listEvents).Methods(http.MethodGet).Name("events.list")
	r.HandleFunc("/event-types", s.listEventTypes).Methods(http.MethodGet).Name("event-types.list")
	r.HandleFunc("/event-types", s.createEventType).Methods(http.MethodPost).Name("event-types.create")
	r.HandleFunc("/event-types/{id}", s.deleteEventType).Methods(http.MethodDelete).Name("event-types.delete")
	r.HandleFunc("/medical-records", s.listRecords).Methods(http.MethodGet).Name("medical-records.list")
	r.HandleFunc("/medical-records", s.uploadRecord).Methods(http.MethodPost).Name("medical-records.upload")
	r.HandleFunc("/medical-records/{id}", s.deleteRecord).Methods(http.MethodDelete).Name("medical-records.delete")
	r.HandleFunc("/alerts", s.generateAlerts).Methods(http.MethodPost).Name("alerts.generate")
	r.HandleFunc("/alerts/from-text", s.generateAlertsFromText).Methods(http.MethodPost).Name("alerts.from-text")

	return r
}

// Fail makes the named route answer with status and body until cleared
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = Failure{Status: status, Body: body}
}

// ClearFailures removes every injected failure
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]Failure)
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route != nil {
			s.mu.Lock()
			failure, ok := s.failures[route.GetName()]
			s.mu.Unlock()
			if ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(failure.Status)
				_, _ = io.WriteString(w, failure.Body)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// AddEventType seeds a category and returns it
func (s *Server) AddEventType(name, description string, deletable bool) api.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	et := api.EventType{ID: uuid.NewString(), Name: name, Description: description, IsDeletable: deletable}
	s.eventTypes = append(s.eventTypes, et)
	return et
}

// AddRecord seeds a patient file and returns it
func (s *Server) AddRecord(filename string) api.MedicalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addRecordLocked(filename)
}

func (s *Server) addRecordLocked(filename string) api.MedicalRecord {
	rec := api.MedicalRecord{
		ID:          uuid.NewString(),
		Filename:    filename,
		CreatedTime: time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
	}
	s.records = append(s.records, rec)
	return rec
}

// AddEvent seeds a reminder
func (s *Server) AddEvent(e api.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// SetAlerts sets the response of both alert endpoints
func (s *Server) SetAlerts(resp api.AlertResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = resp
}

// OmitTotal stops /events from reporting a total
func (s *Server) OmitTotal(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitTotal = omit
}

// OnUpload sets the events generated for each uploaded record
func (s *Server) OnUpload(fn func(recordID, filename string) []api.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadedEvent = fn
}

// EventQueries returns the query of every /events request so far
func (s *Server) EventQueries() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.eventQueries...)
}

// Uploads returns the filenames received by /medical-records
func (s *Server) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

// Policies returns the clinic_policies values received by the alert endpoints
func (s *Server) Policies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.policies...)
}

// Records returns the stored patient files
func (s *Server) Records() []api.MedicalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.MedicalRecord(nil), s.records...)
}

// EventTypes returns the stored categories
func (s *Server) EventTypes() []api.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.EventType(nil), s.eventTypes...)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthStatus{Status: "ok"})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q, "page", 1)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := intParam(q, "page_size", 20)
	if err != nil || pageSize < 1 || pageSize > 100 {
		writeError(w, http.StatusBadRequest, "page_size must be between 1 and 100")
		return
	}
	for _, key := range []string{"start_date", "end_date"} {
		if v, ok := q[key]; ok {
			if _, err := time.Parse("2006-01-02", v[0]); err != nil {
				writeError(w, http.StatusBadRequest, "Input should be a valid date")
				return
			}
		}
	}

	s.mu.Lock()
	s.eventQueries = append(s.eventQueries, q)
	matched := make([]api.Event, 0, len(s.events))
	for _, e := range s.events {
		if matches(e, q) {
			matched = append(matched, e)
		}
	}
	omitTotal := s.omitTotal
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date < matched[j].Date })

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	resp := api.EventsPage{Events: matched[start:end], Page: &page, PageSize: &pageSize}
	if !omitTotal {
		resp.Total = &total
	}
	writeJSON(w, http.StatusOK, resp)
}

func matches(e api.Event, q url.Values) bool {
	if ids := q["event_type_ids"]; len(ids) > 0 && !contains(ids, e.Type.ID) {
		return false
	}
	if ids := q["medical_record_ids"]; len(ids) > 0 && !contains(ids, e.MedicalRecordID) {
		return false
	}
	if from := q.Get("start_date"); from != "" && e.Date < from {
		return false
	}
	if to := q.Get("end_date"); to != "" && e.Date > to {
		return false
	}
	return true
}

func (s *Server) listEventTypes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	types := append([]api.EventType{}, s.eventTypes...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) createEventType(w http.ResponseWriter, r *http.Request) {
	var in api.NewEventType
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, http.StatusBadRequest, "Field required")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddEventType(in.Name, in.Description, true))
}

func (s *Server) deleteEventType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, et := range s.eventTypes {
		if et.ID != id {
			continue
		}
		if !et.IsDeletable {
			writeError(w, http.StatusBadRequest, "Event type cannot be deleted")
			return
		}
		s.eventTypes = append(s.eventTypes[:i], s.eventTypes[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeError(w, http.StatusNotFound, "Event type not found")
}

func (s *Server) listRecords(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	records := append([]api.MedicalRecord{}, s.records...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"medical_records": records})
}

func (s *Server) uploadRecord(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Field required")
		return
	}
	defer func() { _ = file.Close() }()
	if !strings.HasSuffix(header.Filename, ".pdf") {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, header.Filename)
	rec := s.addRecordLocked(header.Filename)
	var created []api.Event
	if s.uploadedEvent != nil {
		created = s.uploadedEvent(rec.ID, rec.Filename)
		s.events = append(s.events, created...)
	}
	s.mu.Unlock()

	if created == nil {
		created = []api.Event{}
	}
	writeJSON(w, http.StatusOK, api.EventsPage{Events: created})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Input should be a valid UUID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID != id {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		kept := s.events[:0]
		for _, e := range s.events {
			if e.MedicalRecordID != id {
				kept = append(kept, e)
			}
		}
		s.events = kept
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeError(w, http.StatusNotFound, "Medical record not found")
}

func (s *Server) generateAlerts(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field required")
		return
	}
	defer func() { _ = file.Close() }()

	ct := header.Header.Get("Content-Type")
	if ct != "application/pdf" && ct != "application/octet-stream" {
		writeDetail(w, http.StatusBadRequest, "Only PDF uploads are supported")
		return
	}

	s.mu.Lock()
	s.policies = append(s.policies, r.FormValue("clinic_policies"))
	resp := s.alerts
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) generateAlertsFromText(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if text, _ := payload["text"].(string); text == "" {
		writeDetail(w, http.StatusBadRequest, "Missing 'text' field in payload")
		return
	}
	policies, _ := payload["clinic_policies"].(string)

	s.mu.Lock()
	s.policies = append(s.policies, policies)
	resp := s.alerts
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// SeedEvents adds n events of the given type dated one day apart from start
func (s *Server) SeedEvents(n int, et api.EventType, start time.Time) {
	for i := 0; i < n; i++ {
		s.AddEvent(api.Event{
			Type:        et,
			Description: fmt.Sprintf("Reminder %d", i+1),
			Date:        start.AddDate(0, 0, i).Format("2006-01-02"),
		})
	}
}
