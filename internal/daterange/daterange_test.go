package daterange

import (
	"testing"
	"time"
)

func TestStateOf(t *testing.T) {
	start := day(2024, time.June, 10)
	end := day(2024, time.June, 14)

	tests := []struct {
		name  string
		day   time.Time
		start time.Time
		end   time.Time
		want  DayState
	}{
		{name: "start cap", day: start.Add(5 * time.Hour), start: start, end: end, want: DayStart},
		{name: "end cap", day: end, start: start, end: end, want: DayEnd},
		{name: "between", day: day(2024, time.June, 12), start: start, end: end, want: DayBetween},
		{name: "outside", day: day(2024, time.June, 15), start: start, end: end, want: DayNone},
		{name: "single day", day: start, start: start, end: start, want: DaySingle},
		{name: "open ended", day: day(2024, time.June, 12), start: start, end: time.Time{}, want: DayNone},
		{name: "start only", day: start, start: start, end: time.Time{}, want: DayStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.day, tt.start, tt.end); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	r := Range{Start: ParseDay("2024-01-05"), End: ParseDay("garbage")}
	if r.Start.IsZero() || !r.End.IsZero() {
		t.Errorf("Unexpected range %+v", r)
	}

	start, end := r.Strings()
	if start != "2024-01-05" || end != "" {
		t.Errorf("Strings() = %q, %q", start, end)
	}
}

func TestNormalize(t *testing.T) {
	in := time.Date(2024, time.February, 3, 17, 45, 12, 99, time.UTC)
	got := Normalize(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Day() != 3 {
		t.Errorf("Normalize() = %v", got)
	}
	if !Normalize(time.Time{}).IsZero() {
		t.Error("Expected zero to stay zero")
	}
}

func TestDaysIn(t *testing.T) {
	if DaysIn(day(2023, time.February, 1)) != 28 {
		t.Error("Expected 28 days in Feb 2023")
	}
	if DaysIn(day(2024, time.February, 10)) != 29 {
		t.Error("Expected 29 days in Feb 2024")
	}
}
