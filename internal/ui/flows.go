package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/config"
	"github.com/yildizm/careminder/internal/notify"
)

// cleanPath strips quotes left by drag and drop and expands ~
func cleanPath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	return config.ExpandPath(path)
}

// readPDF loads path and returns its base name with the contents
func (a *App) readPDF(path string) (string, []byte, error) {
	path = cleanPath(path)
	name := filepath.Base(path)
	data, err := a.opts.ReadFile(path)
	if err != nil {
		return name, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return name, data, nil
}

// startUpload uploads a patient file behind the overlay, then reloads the list
func (a *App) startUpload(path string) tea.Cmd {
	a.pending.Begin(true)
	ctx, svc := a.ctx, a.svc.Records

	return func() tea.Msg {
		msg := recordsChangedMsg{op: recordUpload}
		name, data, err := a.readPDF(path)
		if err != nil {
			msg.err = err
			return msg
		}
		if _, err := svc.Upload(ctx, name, data); err != nil {
			msg.err = err
			return msg
		}
		msg.records, msg.listErr = svc.List(ctx)
		return msg
	}
}

func (a *App) startDeleteRecord(id string) tea.Cmd {
	a.pending.Begin(false)
	ctx, svc := a.ctx, a.svc.Records

	return func() tea.Msg {
		msg := recordsChangedMsg{op: recordDelete}
		if err := svc.Remove(ctx, id); err != nil {
			msg.err = err
			return msg
		}
		msg.records, msg.listErr = svc.List(ctx)
		return msg
	}
}

// handleRecordsChanged finishes an upload or delete. Success resets the
// filters and reloads the reminders from page one.
func (a *App) handleRecordsChanged(msg recordsChangedMsg) {
	defer a.pending.End()

	if msg.err != nil {
		a.fail("patient file change failed", msg.err)
		return
	}

	switch msg.op {
	case recordUpload:
		a.notifier.Publish("Patient file uploaded successfully")
	case recordDelete:
		a.notifier.Publish("Patient file deleted")
	}

	a.resetFilters()
	if msg.listErr != nil {
		a.fail("failed to load patient files", msg.listErr)
	} else {
		a.records = msg.records
		a.recordIdx = clamp(a.recordIdx, len(a.records))
	}
	a.refreshKey++
}

func (a *App) startCreateCategory(name, description string) tea.Cmd {
	a.pending.Begin(false)
	ctx, svc := a.ctx, a.svc.EventTypes

	return func() tea.Msg {
		msg := typesChangedMsg{op: typeCreate}
		created, err := svc.Create(ctx, api.NewEventType{Name: name, Description: description})
		if err != nil {
			msg.err = err
			return msg
		}
		msg.id = created.ID
		msg.types, msg.listErr = svc.List(ctx)
		return msg
	}
}

func (a *App) startDeleteCategory(id string) tea.Cmd {
	a.pending.Begin(false)
	ctx, svc := a.ctx, a.svc.EventTypes

	return func() tea.Msg {
		msg := typesChangedMsg{op: typeDelete, id: id}
		if err := svc.Remove(ctx, id); err != nil {
			msg.err = err
			return msg
		}
		msg.types, msg.listErr = svc.List(ctx)
		return msg
	}
}

func (a *App) handleTypesChanged(msg typesChangedMsg) {
	defer a.pending.End()

	if msg.err != nil {
		a.fail("reminder category change failed", msg.err)
		return
	}

	switch msg.op {
	case typeCreate:
		a.notifier.Publish("Reminder category added")
		a.dialog = nil
	case typeDelete:
		a.notifier.Publish("Reminder category deleted")
		a.filters = a.filters.RemoveEventType(msg.id)
	}

	if msg.listErr != nil {
		a.fail("failed to load reminder categories", msg.listErr)
		return
	}
	a.types = msg.types
	a.typeIdx = clamp(a.typeIdx, len(a.types))
}

// startAlerts sends a patient file to the alert service behind the overlay
func (a *App) startAlerts(path string) tea.Cmd {
	a.pending.Begin(true)
	ctx, svc, policies := a.ctx, a.svc.Alerts, a.opts.ClinicPolicies

	return func() tea.Msg {
		name, data, err := a.readPDF(path)
		if err != nil {
			return alertsGeneratedMsg{filename: name, err: err}
		}
		resp, err := svc.Generate(ctx, name, data, policies)
		return alertsGeneratedMsg{filename: name, resp: resp, err: err}
	}
}

func (a *App) handleAlertsGenerated(msg alertsGeneratedMsg) {
	defer a.pending.End()

	if msg.err != nil {
		a.fail("alert generation failed", msg.err)
		return
	}

	a.alertsView = newAlertsView(msg.filename, msg.resp)
	a.notifier.Publish(fmt.Sprintf("Found %d alerts in %s", len(a.alertsView.alerts), msg.filename), notify.Info)
}

// alertsView lists generated alerts, soonest first
type alertsView struct {
	filename string
	patient  string
	species  string
	alerts   []api.Alert
	idx      int
}

func newAlertsView(filename string, resp *api.AlertResponse) *alertsView {
	v := &alertsView{filename: filename}
	if resp == nil {
		return v
	}
	v.patient = resp.PatientName
	v.species = resp.PatientSpecies
	v.alerts = append([]api.Alert(nil), resp.Alerts...)
	alerts.Sort(v.alerts)
	return v
}
