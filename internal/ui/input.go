package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/careminder/internal/daterange"
	"github.com/yildizm/careminder/internal/notify"
)

// dateInput marks a date field as active. The selector blurs it when its popover closes.
type dateInput struct {
	active bool
}

func (d *dateInput) Focus() { d.active = true }

// Blur implements daterange.Anchor
func (d *dateInput) Blur() { d.active = false }

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	switch {
	case a.dialog != nil:
		return a.handleDialogKey(msg)
	case a.confirm != nil:
		return a.handleConfirmKey(msg)
	case a.alertsView != nil:
		return a.handleAlertsKey(msg)
	case a.dates.OpenField() != daterange.FieldNone:
		return a.handleCalendarKey(msg)
	}

	busy := a.pending.Busy()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return nil
	case key.Matches(msg, a.keys.Next):
		a.moveFocus(1)
		return nil
	case key.Matches(msg, a.keys.Prev):
		a.moveFocus(-1)
		return nil
	case key.Matches(msg, a.keys.Refresh):
		if busy {
			return nil
		}
		a.refreshKey++
		return tea.Batch(a.loadRecords(), a.loadTypes())
	case key.Matches(msg, a.keys.Clear):
		if !busy {
			a.resetFilters()
		}
		return nil
	case key.Matches(msg, a.keys.Upload):
		if busy {
			return nil
		}
		a.dialog = newPathDialog(dialogUpload, "Upload patient file")
		return textinput.Blink
	case key.Matches(msg, a.keys.New):
		if busy {
			return nil
		}
		a.dialog = newCategoryDialog()
		return textinput.Blink
	case key.Matches(msg, a.keys.Alerts):
		if busy {
			return nil
		}
		if a.svc.Alerts == nil {
			a.notifier.Publish("Alert generation is not configured", notify.Warning)
			return nil
		}
		a.dialog = newPathDialog(dialogAlerts, "Generate alerts from a patient file")
		return textinput.Blink
	}

	switch a.focus {
	case focusRecords:
		return a.handleRecordsKey(msg, busy)
	case focusCategories:
		return a.handleCategoriesKey(msg, busy)
	case focusStartDate:
		return a.handleDateFieldKey(daterange.FieldStart, msg, busy)
	case focusEndDate:
		return a.handleDateFieldKey(daterange.FieldEnd, msg, busy)
	case focusEvents:
		return a.handleEventsKey(msg, busy)
	}
	return nil
}

// moveFocus cycles panels. Entering a date field opens its calendar.
func (a *App) moveFocus(delta int) {
	a.dates.ClosePicker()
	a.focus = (a.focus + focus(delta) + focusCount) % focusCount

	switch a.focus {
	case focusStartDate:
		a.startInput.Focus()
		a.dates.Focus(daterange.FieldStart)
	case focusEndDate:
		a.endInput.Focus()
		a.dates.Focus(daterange.FieldEnd)
	}
}

func (a *App) handleRecordsKey(msg tea.KeyMsg, busy bool) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.recordIdx = clamp(a.recordIdx-1, len(a.records))
	case key.Matches(msg, a.keys.Down):
		a.recordIdx = clamp(a.recordIdx+1, len(a.records))
	case key.Matches(msg, a.keys.Toggle), key.Matches(msg, a.keys.Select):
		if busy || len(a.records) == 0 {
			return nil
		}
		a.filters = a.filters.ToggleMedicalRecord(a.records[a.recordIdx].ID)
	case key.Matches(msg, a.keys.Delete):
		if busy || len(a.records) == 0 {
			return nil
		}
		rec := a.records[a.recordIdx]
		a.confirm = &confirmation{kind: confirmDeleteRecord, id: rec.ID, label: rec.Filename}
	}
	return nil
}

func (a *App) handleCategoriesKey(msg tea.KeyMsg, busy bool) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.typeIdx = clamp(a.typeIdx-1, len(a.types))
	case key.Matches(msg, a.keys.Down):
		a.typeIdx = clamp(a.typeIdx+1, len(a.types))
	case key.Matches(msg, a.keys.Toggle), key.Matches(msg, a.keys.Select):
		if busy || len(a.types) == 0 {
			return nil
		}
		a.filters = a.filters.ToggleEventType(a.types[a.typeIdx].ID)
	case key.Matches(msg, a.keys.Delete):
		if busy || len(a.types) == 0 {
			return nil
		}
		et := a.types[a.typeIdx]
		if !et.IsDeletable {
			a.notifier.Publish("Built-in reminder categories cannot be deleted", notify.Warning)
			return nil
		}
		a.confirm = &confirmation{kind: confirmDeleteCategory, id: et.ID, label: et.Name}
	}
	return nil
}

func (a *App) handleDateFieldKey(field daterange.Field, msg tea.KeyMsg, busy bool) tea.Cmd {
	if key.Matches(msg, a.keys.ClearBnd) {
		if busy {
			return nil
		}
		r := a.dates.Value()
		if field == daterange.FieldStart {
			r.Start = time.Time{}
		} else {
			r.End = time.Time{}
		}
		a.dates.SetValue(r)
		start, end := r.Strings()
		a.filters = a.filters.SetDateRange(start, end)
		return nil
	}

	if a.dates.HandleKey(field, msg.String()) {
		if a.dates.OpenField() == field {
			a.inputFor(field).Focus()
		}
	}
	return nil
}

func (a *App) handleEventsKey(msg tea.KeyMsg, busy bool) tea.Cmd {
	items := len(a.list.Items())
	switch {
	case key.Matches(msg, a.keys.Up):
		a.eventIdx = clamp(a.eventIdx-1, items)
	case key.Matches(msg, a.keys.Down):
		a.eventIdx = clamp(a.eventIdx+1, items)
	case key.Matches(msg, a.keys.More), key.Matches(msg, a.keys.Select):
		if next, ok := a.list.LoadMore(a.filters, busy); ok {
			a.filters = next
		}
	}
	return nil
}

func (a *App) handleCalendarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.dates.ClosePicker()
	case key.Matches(msg, a.keys.Next):
		a.moveFocus(1)
	case key.Matches(msg, a.keys.Prev):
		a.moveFocus(-1)
	case key.Matches(msg, a.keys.Left):
		a.dates.MoveCursor(-1)
	case key.Matches(msg, a.keys.Right):
		a.dates.MoveCursor(1)
	case key.Matches(msg, a.keys.Up):
		a.dates.MoveCursor(-7)
	case key.Matches(msg, a.keys.Down):
		a.dates.MoveCursor(7)
	case key.Matches(msg, a.keys.PageUp):
		a.dates.MoveCursorMonths(-1)
	case key.Matches(msg, a.keys.PageDown):
		a.dates.MoveCursorMonths(1)
	case key.Matches(msg, a.keys.Select), key.Matches(msg, a.keys.Toggle):
		a.dates.SelectCursor()
		// selecting a start date moves on to the end field
		if a.dates.OpenField() == daterange.FieldEnd {
			a.focus = focusEndDate
			a.endInput.Focus()
		}
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	}
	return nil
}

func (a *App) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	d := a.dialog
	switch msg.Type {
	case tea.KeyEsc:
		if !a.pending.Busy() {
			a.dialog = nil
		}
		return nil
	case tea.KeyTab:
		return d.move(1)
	case tea.KeyShiftTab:
		return d.move(-1)
	case tea.KeyEnter:
		if !d.onLast() {
			return d.move(1)
		}
		if a.pending.Busy() {
			return nil
		}
		return a.submitDialog()
	}
	return d.update(msg)
}

func (a *App) submitDialog() tea.Cmd {
	d := a.dialog
	values := d.values()

	switch d.kind {
	case dialogUpload:
		if values[0] == "" {
			return nil
		}
		a.dialog = nil
		return a.startUpload(values[0])
	case dialogAlerts:
		if values[0] == "" {
			return nil
		}
		a.dialog = nil
		return a.startAlerts(values[0])
	case dialogCategory:
		if values[0] == "" || values[1] == "" {
			return nil
		}
		return a.startCreateCategory(values[0], values[1])
	}
	return nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	if a.pending.Busy() {
		return nil
	}
	switch msg.String() {
	case "y", "Y", "enter":
		c := a.confirm
		a.confirm = nil
		if c.kind == confirmDeleteRecord {
			return a.startDeleteRecord(c.id)
		}
		return a.startDeleteCategory(c.id)
	case "n", "N", "esc":
		a.confirm = nil
	}
	return nil
}

func (a *App) handleAlertsKey(msg tea.KeyMsg) tea.Cmd {
	v := a.alertsView
	switch {
	case key.Matches(msg, a.keys.Back):
		a.alertsView = nil
	case key.Matches(msg, a.keys.Up):
		v.idx = clamp(v.idx-1, len(v.alerts))
	case key.Matches(msg, a.keys.Down):
		v.idx = clamp(v.idx+1, len(v.alerts))
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	}
	return nil
}

func (a *App) inputFor(field daterange.Field) *dateInput {
	if field == daterange.FieldEnd {
		return a.endInput
	}
	return a.startInput
}
