package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/careminder/internal/daterange"
)

// renderCalendar draws the month around the selector cursor
func (a *App) renderCalendar() string {
	s := a.styles
	month := a.dates.DisplayedMonth()
	value := a.dates.Value()
	cursor := a.dates.Cursor()

	var b strings.Builder
	title := "Choose start date"
	if a.dates.OpenField() == daterange.FieldEnd {
		title = "Choose end date"
	}
	b.WriteString(s.Render(s.Muted, title) + "\n")
	b.WriteString(s.Render(s.Header, fmt.Sprintf("%-20s", month.Format("January 2006"))) + "\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")

	cells := make([]string, 0, 42)
	for i := 0; i < int(month.Weekday()); i++ {
		cells = append(cells, "   ")
	}
	for d := 1; d <= daterange.DaysIn(month); d++ {
		day := time.Date(month.Year(), month.Month(), d, 0, 0, 0, 0, month.Location())
		cells = append(cells, a.renderDay(day, value, cursor))
	}

	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		b.WriteString(strings.Join(cells[i:end], "") + "\n")
	}

	if !cursor.IsZero() {
		b.WriteString(s.Render(s.Muted, "Cursor: "+cursor.Format(a.opts.DateLayout)) + "\n")
	}
	b.WriteString(s.Render(s.Muted, "←→ day • ↑↓ week • pgup/pgdown month\nenter select • esc close"))
	return b.String()
}

func (a *App) renderDay(day time.Time, value daterange.Range, cursor time.Time) string {
	s := a.styles
	text := fmt.Sprintf("%2d", day.Day())

	style := s.DayNormal
	switch daterange.StateOf(day, value.Start, value.End) {
	case daterange.DayStart, daterange.DayEnd, daterange.DaySingle:
		style = s.DayEdge
	case daterange.DayBetween:
		style = s.DayBetween
	}
	if a.dates.IsDateDisabled(day) {
		style = s.DayDisabled
	}
	if !daterange.SameDay(day, cursor) {
		return s.Render(style, text) + " "
	}
	if IsColorDisabled() {
		return text + "*"
	}
	return style.Inherit(s.DayCursor).Render(text) + " "
}
