// Package filters holds the event list filter and pagination state.
package filters

import (
	"sort"

	"github.com/yildizm/careminder/internal/api"
)

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 15

// State is the filter set driving the events query. Values are immutable in
// practice: every operation returns a new State.
type State struct {
	Page             int      `json:"page"`
	PageSize         int      `json:"page_size"`
	EventTypeIDs     []string `json:"event_type_ids"`
	MedicalRecordIDs []string `json:"medical_record_ids"`
	StartDate        string   `json:"start_date"` // YYYY-MM-DD or empty
	EndDate          string   `json:"end_date"`   // YYYY-MM-DD or empty
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Page             *int
	PageSize         *int
	EventTypeIDs     []string
	MedicalRecordIDs []string
	StartDate        *string
	EndDate          *string

	// set marks the id slices as present, so an empty slice can clear them
	setEventTypes     bool
	setMedicalRecords bool
}

// Default returns the first page with no predicates
func Default(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Page:             1,
		PageSize:         pageSize,
		EventTypeIDs:     []string{},
		MedicalRecordIDs: []string{},
	}
}

// WithEventTypes returns p replacing the selected categories
func (p Patch) WithEventTypes(ids []string) Patch {
	p.EventTypeIDs = ids
	p.setEventTypes = true
	return p
}

// WithMedicalRecords returns p replacing the selected patient files
func (p Patch) WithMedicalRecords(ids []string) Patch {
	p.MedicalRecordIDs = ids
	p.setMedicalRecords = true
	return p
}

// WithDates returns p replacing both date bounds
func (p Patch) WithDates(start, end string) Patch {
	p.StartDate = &start
	p.EndDate = &end
	return p
}

// WithPage returns p setting the page
func (p Patch) WithPage(page int) Patch {
	p.Page = &page
	return p
}

func (p Patch) touchesPredicate() bool {
	return p.PageSize != nil || p.setEventTypes || p.setMedicalRecords || p.StartDate != nil || p.EndDate != nil
}

// Apply merges p into s. Any change other than the page restarts from page 1.
func (s State) Apply(p Patch) State {
	next := s.clone()
	if p.PageSize != nil && *p.PageSize > 0 {
		next.PageSize = *p.PageSize
	}
	if p.setEventTypes {
		next.EventTypeIDs = dedupe(p.EventTypeIDs)
	}
	if p.setMedicalRecords {
		next.MedicalRecordIDs = dedupe(p.MedicalRecordIDs)
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		next.EndDate = *p.EndDate
	}

	switch {
	case p.touchesPredicate():
		next.Page = 1
	case p.Page != nil && *p.Page >= 1:
		next.Page = *p.Page
	}
	return next
}

// ToggleEventType adds or removes a category from the selection
func (s State) ToggleEventType(id string) State {
	return s.Apply(Patch{}.WithEventTypes(toggle(s.EventTypeIDs, id)))
}

// ToggleMedicalRecord adds or removes a patient file from the selection
func (s State) ToggleMedicalRecord(id string) State {
	return s.Apply(Patch{}.WithMedicalRecords(toggle(s.MedicalRecordIDs, id)))
}

// RemoveEventType drops a deleted category from the selection. It is a no-op
// when the category is not selected.
func (s State) RemoveEventType(id string) State {
	if !s.HasEventType(id) {
		return s
	}
	return s.Apply(Patch{}.WithEventTypes(without(s.EventTypeIDs, id)))
}

// SetDateRange replaces both date bounds
func (s State) SetDateRange(start, end string) State {
	return s.Apply(Patch{}.WithDates(start, end))
}

// NextPage advances the page, leaving the predicates unchanged
func (s State) NextPage() State {
	return s.Apply(Patch{}.WithPage(s.Page + 1))
}

// HasEventType reports whether the category is selected
func (s State) HasEventType(id string) bool {
	return contains(s.EventTypeIDs, id)
}

// HasMedicalRecord reports whether the patient file is selected
func (s State) HasMedicalRecord(id string) bool {
	return contains(s.MedicalRecordIDs, id)
}

// Active reports whether any predicate narrows the list
func (s State) Active() bool {
	return len(s.EventTypeIDs) > 0 || len(s.MedicalRecordIDs) > 0 || s.StartDate != "" || s.EndDate != ""
}

// Equal compares two states. Id selections compare as sets.
func (s State) Equal(o State) bool {
	return s.Page == o.Page &&
		s.PageSize == o.PageSize &&
		s.StartDate == o.StartDate &&
		s.EndDate == o.EndDate &&
		sameSet(s.EventTypeIDs, o.EventTypeIDs) &&
		sameSet(s.MedicalRecordIDs, o.MedicalRecordIDs)
}

// Query converts s into API query parameters. Empty bounds are omitted.
func (s State) Query() api.EventsQuery {
	return api.EventsQuery{
		Page:             s.Page,
		PageSize:         s.PageSize,
		EventTypeIDs:     append([]string(nil), s.EventTypeIDs...),
		MedicalRecordIDs: append([]string(nil), s.MedicalRecordIDs...),
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
	}
}

func (s State) clone() State {
	s.EventTypeIDs = append([]string{}, s.EventTypeIDs...)
	s.MedicalRecordIDs = append([]string{}, s.MedicalRecordIDs...)
	return s
}

func toggle(ids []string, id string) []string {
	if contains(ids, id) {
		return without(ids, id)
	}
	return append(append([]string{}, ids...), id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
