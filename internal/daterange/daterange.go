// Package daterange implements a two-field date range picker state machine.
// All comparisons are day-granular.
package daterange

import "time"

// ISODate is the wire format of filter dates
const ISODate = "2006-01-02"

// Field identifies which half of the range is accepting input
type Field int

const (
	FieldNone Field = iota
	FieldStart
	FieldEnd
)

func (f Field) String() string {
	switch f {
	case FieldStart:
		return "start"
	case FieldEnd:
		return "end"
	default:
		return "none"
	}
}

// Range is an ordered pair of days. A zero time means the bound is unset.
type Range struct {
	Start time.Time
	End   time.Time
}

// Strings formats the range as YYYY-MM-DD, empty for unset bounds
func (r Range) Strings() (string, string) {
	return format(r.Start), format(r.End)
}

// ParseDay parses a YYYY-MM-DD string in the local zone, zero on failure
func ParseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(ISODate, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ISODate)
}

// Normalize truncates t to the start of its calendar day. The zero time stays zero.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// before reports a < b at day granularity
func before(a, b time.Time) bool {
	return Normalize(a).Before(Normalize(b)) && !SameDay(a, b)
}

// DayState is how a calendar day renders relative to a range
type DayState int

const (
	DayNone DayState = iota
	DayStart
	DayEnd
	DaySingle
	DayBetween
)

// StateOf returns how day renders given the range bounds
func StateOf(day, start, end time.Time) DayState {
	isStart := !start.IsZero() && SameDay(day, start)
	isEnd := !end.IsZero() && SameDay(day, end)

	switch {
	case isStart && isEnd:
		return DaySingle
	case isStart:
		return DayStart
	case isEnd:
		return DayEnd
	case !start.IsZero() && !end.IsZero() && before(start, day) && before(day, end):
		return DayBetween
	default:
		return DayNone
	}
}
