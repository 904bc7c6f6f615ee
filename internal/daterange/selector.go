package daterange

import "time"

// Anchor is the input a popover attaches to. It is blurred when the popover closes.
type Anchor interface {
	Blur()
}

// Options configures a Selector
type Options struct {
	MinDate       time.Time            // zero means unbounded
	MaxDate       time.Time            // zero means unbounded
	ShouldDisable func(time.Time) bool // extra per-day predicate
	OnChange      func(Range)          // called on every accepted selection
	Now           func() time.Time     // defaults to time.Now
}

// Selector tracks the selected range, the open field and the calendar cursor
type Selector struct {
	opts     Options
	value    Range
	open     Field
	anchors  map[Field]Anchor
	anchor   Anchor
	disabled bool
	cursor   time.Time
}

// New creates a closed selector with an empty range
func New(opts Options) *Selector {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Selector{
		opts:    opts,
		anchors: make(map[Field]Anchor),
	}
}

// SetAnchor registers the input for field. A nil anchor unregisters it.
func (s *Selector) SetAnchor(field Field, a Anchor) {
	if a == nil {
		delete(s.anchors, field)
		return
	}
	s.anchors[field] = a
}

// SetValue replaces the range without emitting a change
func (s *Selector) SetValue(r Range) {
	s.value = Range{Start: Normalize(r.Start), End: Normalize(r.End)}
}

// Value returns the current range
func (s *Selector) Value() Range {
	return s.value
}

// SetDisabled enables or disables the control. Disabling closes the picker.
func (s *Selector) SetDisabled(disabled bool) {
	s.disabled = disabled
	if disabled && s.open != FieldNone {
		s.ClosePicker()
	}
}

// Disabled reports whether the control ignores input
func (s *Selector) Disabled() bool {
	return s.disabled
}

// OpenField returns the field currently accepting input
func (s *Selector) OpenField() Field {
	return s.open
}

// OpenPicker opens the popover on field, closing any other. It is a no-op when
// the control is disabled or field has no anchor.
func (s *Selector) OpenPicker(field Field) {
	if s.disabled || field == FieldNone {
		return
	}
	a, ok := s.anchors[field]
	if !ok {
		return
	}
	if s.anchor != nil && s.anchor != a {
		s.anchor.Blur()
	}
	s.anchor = a
	s.open = field
	s.cursor = s.initialCursor()
}

// ClosePicker closes the popover and blurs the anchored input
func (s *Selector) ClosePicker() {
	if s.anchor != nil {
		s.anchor.Blur()
	}
	s.open = FieldNone
	s.anchor = nil
}

// Focus is called when a field gains focus or is clicked
func (s *Selector) Focus(field Field) {
	s.OpenPicker(field)
}

// HandleKey applies a key pressed on field's input and reports whether it was consumed
func (s *Selector) HandleKey(field Field, key string) bool {
	switch key {
	case "enter", " ", "space", "down":
		s.OpenPicker(field)
		return true
	case "esc":
		s.ClosePicker()
		return true
	}
	return false
}

// IsDateDisabled reports whether candidate may not be selected right now
func (s *Selector) IsDateDisabled(candidate time.Time) bool {
	if candidate.IsZero() {
		return false
	}
	day := Normalize(candidate)

	if !s.opts.MinDate.IsZero() && before(day, s.opts.MinDate) {
		return true
	}
	if !s.opts.MaxDate.IsZero() && before(s.opts.MaxDate, day) {
		return true
	}
	if s.opts.ShouldDisable != nil && s.opts.ShouldDisable(day) {
		return true
	}
	if s.open == FieldEnd && !s.value.Start.IsZero() && before(day, s.value.Start) {
		return true
	}
	if s.open == FieldStart && !s.value.End.IsZero() && before(s.value.End, day) {
		return true
	}
	return false
}

// SelectDate applies candidate to the open field and reports whether it was
// accepted. Zero or disabled candidates are ignored. Selecting a start moves on
// to the end field; selecting an end closes the picker.
func (s *Selector) SelectDate(candidate time.Time) bool {
	if candidate.IsZero() || s.open == FieldNone || s.IsDateDisabled(candidate) {
		return false
	}

	day := Normalize(candidate)
	next := s.value
	var nextField Field

	switch s.open {
	case FieldStart:
		next.Start = day
		if !next.End.IsZero() && before(next.End, next.Start) {
			next.End = next.Start
		}
		nextField = FieldEnd
	case FieldEnd:
		next.End = day
		if !next.Start.IsZero() && before(next.End, next.Start) {
			next.Start = day
		}
	}

	s.value = next
	if s.opts.OnChange != nil {
		s.opts.OnChange(next)
	}

	if nextField != FieldNone {
		s.OpenPicker(nextField)
	} else {
		s.ClosePicker()
	}
	return true
}

// Cursor returns the highlighted calendar day
func (s *Selector) Cursor() time.Time {
	return s.cursor
}

// MoveCursor moves the highlighted day by days
func (s *Selector) MoveCursor(days int) {
	if s.open == FieldNone {
		return
	}
	s.cursor = s.cursor.AddDate(0, 0, days)
}

// MoveCursorMonths moves the highlighted day by months, clamping to the month end
func (s *Selector) MoveCursorMonths(months int) {
	if s.open == FieldNone {
		return
	}
	y, m, d := s.cursor.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, s.cursor.Location())
	if last := DaysIn(first); d > last {
		d = last
	}
	s.cursor = time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, s.cursor.Location())
}

// SelectCursor selects the highlighted day
func (s *Selector) SelectCursor() bool {
	return s.SelectDate(s.cursor)
}

// DisplayedMonth is the first day of the month the calendar shows
func (s *Selector) DisplayedMonth() time.Time {
	c := s.cursor
	if c.IsZero() {
		c = s.initialCursor()
	}
	return time.Date(c.Year(), c.Month(), 1, 0, 0, 0, 0, c.Location())
}

// initialCursor follows the open field's value, then either bound, then today
func (s *Selector) initialCursor() time.Time {
	switch {
	case s.open == FieldStart && !s.value.Start.IsZero():
		return s.value.Start
	case s.open == FieldEnd && !s.value.End.IsZero():
		return s.value.End
	case !s.value.Start.IsZero():
		return s.value.Start
	case !s.value.End.IsZero():
		return s.value.End
	}

	today := Normalize(s.opts.Now())
	if !s.opts.MinDate.IsZero() && before(today, s.opts.MinDate) {
		return Normalize(s.opts.MinDate)
	}
	return today
}

// Label formats a bound for display using layout, empty when unset
func (s *Selector) Label(field Field, layout string) string {
	var t time.Time
	switch field {
	case FieldStart:
		t = s.value.Start
	case FieldEnd:
		t = s.value.End
	}
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// DaysIn returns the number of days in t's month
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
