package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/daterange"
	"github.com/yildizm/careminder/internal/emoji"
	"github.com/yildizm/careminder/internal/eventlist"
)

const (
	sidebarWidth  = 40
	skeletonRows  = 5
	skeletonBlock = "░░░░░░░░░░░░░░░░░░░░░░░░"
)

// View renders the app
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.pending.OverlayVisible() {
		return a.renderOverlay()
	}

	var body string
	switch {
	case a.alertsView != nil:
		body = a.renderAlerts()
	default:
		left := lipgloss.JoinVertical(lipgloss.Left,
			a.renderRecords(),
			a.renderCategories(),
			a.renderDates(),
			a.styles.Render(a.styles.Muted, " c clear filters"),
		)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", a.renderEvents())
	}

	if modal := a.renderModal(); modal != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, modal)
	}

	title := a.styles.Render(a.styles.Title, emoji.GetEmoji("paw")+" careminder")
	footer := []string{a.help.View(a.keys)}
	if t := a.renderToast(); t != "" {
		footer = append([]string{t}, footer...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, strings.Join(footer, "\n"))
}

func (a *App) renderModal() string {
	switch {
	case a.dialog != nil:
		return a.dialog.view(a.styles, a.pending.Busy())
	case a.confirm != nil:
		return a.confirm.view(a.styles)
	}
	return ""
}

func (a *App) panel(f focus, content string, width int) string {
	style := a.styles.Panel
	if a.focus == f || (f == focusStartDate && a.focus == focusEndDate) {
		style = a.styles.PanelFocused
	}
	if IsColorDisabled() {
		return content
	}
	return style.Width(width).Render(content)
}

func (a *App) renderRecords() string {
	s := a.styles
	rows := []string{s.Render(s.Header, emoji.GetEmoji("record")+" Patient files")}

	switch {
	case a.recordsLoading:
		for i := 0; i < 4; i++ {
			rows = append(rows, s.Render(s.Skeleton, skeletonBlock))
		}
	case len(a.records) == 0:
		rows = append(rows, s.Render(s.Muted, "No patient files uploaded yet."))
	default:
		for i, rec := range a.records {
			uploaded := rec.CreatedTime
			if t, ok := rec.Created(); ok {
				uploaded = t.Local().Format(a.opts.DateLayout + " 15:04")
			}
			line := fmt.Sprintf("%s %s %s", a.checkbox(a.filters.HasMedicalRecord(rec.ID)), emoji.GetEmoji("record"), truncate(rec.Filename, 26))
			rows = append(rows, a.cursorLine(a.focus == focusRecords && i == a.recordIdx, line))
			rows = append(rows, s.Render(s.Muted, "     Uploaded "+uploaded))
		}
	}

	return a.panel(focusRecords, strings.Join(rows, "\n"), sidebarWidth)
}

func (a *App) renderCategories() string {
	s := a.styles
	rows := []string{s.Render(s.Header, emoji.GetEmoji("category")+" Reminder categories")}

	switch {
	case a.typesLoading:
		for i := 0; i < 4; i++ {
			rows = append(rows, s.Render(s.Skeleton, skeletonBlock))
		}
	case len(a.types) == 0:
		rows = append(rows, s.Render(s.Muted, "No reminder categories yet."))
	default:
		for i, et := range a.types {
			name := truncate(et.Name, 28)
			if !et.IsDeletable {
				name += " " + emoji.GetEmoji("locked")
			}
			line := fmt.Sprintf("%s %s", a.checkbox(a.filters.HasEventType(et.ID)), name)
			rows = append(rows, a.cursorLine(a.focus == focusCategories && i == a.typeIdx, line))
		}
	}

	return a.panel(focusCategories, strings.Join(rows, "\n"), sidebarWidth)
}

func (a *App) renderDates() string {
	s := a.styles
	placeholder := strings.ToLower(strings.NewReplacer("01", "mm", "02", "dd", "2006", "yyyy").Replace(a.opts.DateLayout))

	field := func(label string, f daterange.Field, in *dateInput, focused bool) string {
		value := a.dates.Label(f, a.opts.DateLayout)
		if value == "" {
			value = s.Render(s.Muted, placeholder)
		}
		line := fmt.Sprintf("%-6s [ %s ]", label, value)
		if a.dates.Disabled() {
			return s.Render(s.Muted, line)
		}
		return a.cursorLine(focused || in.active, line)
	}

	rows := []string{
		s.Render(s.Header, emoji.GetEmoji("calendar")+" Date filter"),
		field("Start", daterange.FieldStart, a.startInput, a.focus == focusStartDate),
		field("End", daterange.FieldEnd, a.endInput, a.focus == focusEndDate),
	}
	if a.dates.OpenField() != daterange.FieldNone {
		rows = append(rows, "", a.renderCalendar())
	}

	return a.panel(focusStartDate, strings.Join(rows, "\n"), sidebarWidth)
}

func (a *App) renderEvents() string {
	s := a.styles
	width := a.width - sidebarWidth - 4
	if width < 60 {
		width = 60
	}

	rows := []string{
		s.Render(s.Header, emoji.GetEmoji("reminder")+" Upcoming care reminders"),
		s.Render(s.Muted, fmt.Sprintf("%-12s  %-30s  %-20s  %s", "Date", "Description", "Patient file", "Type")),
	}

	items := a.list.Items()
	switch {
	case a.list.Phase() == eventlist.LoadingInitial:
		for i := 0; i < skeletonRows; i++ {
			rows = append(rows, s.Render(s.Skeleton, skeletonBlock+skeletonBlock))
		}
	case len(items) == 0:
		rows = append(rows, "", s.Render(s.Muted, "No reminders found. Adjust filters or upload a patient file."))
	default:
		for i, e := range items {
			line := fmt.Sprintf("%-12s  %-30s  %-20s  %s",
				formatEventDate(e.Date, a.opts.DateLayout),
				truncate(e.Description, 30),
				truncate(recordLabel(e), 20),
				e.Type.Name)
			rows = append(rows, a.cursorLine(a.focus == focusEvents && i == a.eventIdx, line))
		}
	}

	switch {
	case a.list.Phase() == eventlist.LoadingMore:
		rows = append(rows, a.spinner.View()+" Loading more reminders...")
	case a.list.HasMore():
		more := "Show more (m)"
		if a.pending.Busy() {
			rows = append(rows, s.Render(s.Muted, more))
		} else {
			rows = append(rows, s.Render(s.Info, more))
		}
	}

	if a.list.Phase() != eventlist.LoadingInitial && len(items) > 0 {
		rows = append(rows, "", s.Render(s.Muted, a.list.Summary()))
	}

	return a.panel(focusEvents, strings.Join(rows, "\n"), width)
}

func (a *App) renderAlerts() string {
	s := a.styles
	v := a.alertsView
	now := a.opts.Now()

	patient := v.patient
	if patient == "" {
		patient = "Unknown patient"
	}
	if v.species != "" {
		patient += " (" + v.species + ")"
	}

	rows := []string{
		s.Render(s.Header, emoji.GetEmoji("alert")+" Alerts for "+v.filename),
		s.Render(s.Muted, patient),
		"",
	}

	if len(v.alerts) == 0 {
		rows = append(rows, s.Render(s.Muted, "No alerts found in this record."))
	}
	for i, al := range v.alerts {
		urgency := alerts.Classify(al, now, a.opts.Thresholds)
		badge := s.Render(s.Urgency(urgency), fmt.Sprintf("%-6s", urgency))
		line := fmt.Sprintf("%s  %-32s  %-20s  %-12s  %3.0f%%",
			badge,
			truncate(al.Title, 32),
			alerts.FormatType(al.AlertType),
			alerts.DueLabel(al, a.opts.DateLayout),
			al.Confidence*100)
		rows = append(rows, a.cursorLine(i == v.idx, line))

		if i == v.idx {
			if al.SourceExcerpt != "" {
				rows = append(rows, s.Render(s.Muted, "    \""+al.SourceExcerpt+"\""))
			}
			if al.Notes != "" {
				rows = append(rows, s.Render(s.Muted, "    "+al.Notes))
			}
		}
	}

	rows = append(rows, "", s.Render(s.Muted, "↑↓ navigate • esc back"))
	return a.panel(focusEvents, strings.Join(rows, "\n"), max(a.width-2, 60))
}

func (a *App) checkbox(checked bool) string {
	if checked {
		return emoji.GetEmoji("selected")
	}
	return emoji.GetEmoji("unselected")
}

func (a *App) cursorLine(active bool, line string) string {
	if active {
		return a.styles.Render(a.styles.Cursor, "› "+line)
	}
	return "  " + line
}

func formatEventDate(iso, layout string) string {
	t, err := time.Parse(daterange.ISODate, iso)
	if err != nil {
		return iso
	}
	return t.Format(layout)
}

func recordLabel(e api.Event) string {
	if e.MedicalRecordFilename != "" {
		return e.MedicalRecordFilename
	}
	if e.MedicalRecordID != "" {
		return e.MedicalRecordID
	}
	return "-"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
