package event

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_RegistrationStatus_DayBoundaries(t *testing.T) {
	cal := NewCalendar(time.UTC)
	regStart := day(2025, 2, 1)
	regEnd := day(2025, 2, 20)

	tests := []struct {
		name string
		now  time.Time
		want RegistrationStatus
	}{
		{name: "before window", now: time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC), want: RegistrationNotStarted},
		{name: "day before start late evening", now: time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC), want: RegistrationNotStarted},
		{name: "start day midnight", now: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), want: RegistrationOpen},
		{name: "mid window", now: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), want: RegistrationOpen},
		{name: "end day last second", now: time.Date(2025, 2, 20, 23, 59, 59, 0, time.UTC), want: RegistrationOpen},
		{name: "day after end", now: time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC), want: RegistrationClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.RegistrationStatus(tt.now, regStart, regEnd); got != tt.want {
				t.Fatalf("RegistrationStatus(%s)=%s want=%s", tt.now, got, tt.want)
			}
		})
	}
}

func TestCalendar_RegistrationStatus_UsesCalendarZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	cal := NewCalendar(loc)

	// 2025-02-20 20:00 UTC is already 2025-02-21 in IST.
	now := time.Date(2025, 2, 20, 20, 0, 0, 0, time.UTC)
	if got := cal.RegistrationStatus(now, day(2025, 2, 1), day(2025, 2, 20)); got != RegistrationClosed {
		t.Fatalf("expected closed in calendar zone, got %s", got)
	}
}

func TestCalendar_ValidateDates(t *testing.T) {
	cal := NewCalendar(time.UTC)
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	valid := Dates{
		Start:             day(2025, 3, 1),
		End:               day(2025, 3, 5),
		RegistrationStart: day(2025, 2, 1),
		RegistrationEnd:   day(2025, 3, 1),
	}
	if err := cal.ValidateDates(now, valid, true); err != nil {
		t.Fatalf("expected valid dates, got %v", err)
	}

	invalid := Dates{
		Start:             day(2025, 3, 1),
		End:               day(2025, 2, 28),
		RegistrationStart: day(2025, 1, 10),
		RegistrationEnd:   day(2025, 3, 2),
	}
	err := cal.ValidateDates(now, invalid, true)
	var dateErr *DateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected DateError, got %v", err)
	}
	if len(dateErr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", dateErr.Violations)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Fatalf("expected violations joined with '; ', got %q", err.Error())
	}

	if err := cal.ValidateDates(now, Dates{
		Start:             day(2025, 3, 1),
		End:               day(2025, 3, 5),
		RegistrationStart: day(2025, 1, 1),
		RegistrationEnd:   day(2025, 2, 1),
	}, false); err != nil {
		t.Fatalf("past registration start should be allowed when not checked: %v", err)
	}
}

func TestCalendar_Conflicts_FourWay(t *testing.T) {
	cal := NewCalendar(time.UTC)
	base := Dates{
		Start:             day(2025, 3, 1),
		End:               day(2025, 3, 5),
		RegistrationStart: day(2025, 2, 1),
		RegistrationEnd:   day(2025, 2, 20),
	}

	tests := []struct {
		name  string
		other Dates
		want  bool
	}{
		{
			name: "disjoint",
			other: Dates{
				Start: day(2025, 5, 1), End: day(2025, 5, 3),
				RegistrationStart: day(2025, 4, 1), RegistrationEnd: day(2025, 4, 20),
			},
			want: false,
		},
		{
			name: "registration inside other event span",
			other: Dates{
				Start: day(2025, 2, 10), End: day(2025, 2, 12),
				RegistrationStart: day(2025, 1, 20), RegistrationEnd: day(2025, 1, 25),
			},
			want: true,
		},
		{
			name: "event span touches other registration on shared day",
			other: Dates{
				Start: day(2025, 4, 1), End: day(2025, 4, 2),
				RegistrationStart: day(2025, 3, 5), RegistrationEnd: day(2025, 3, 20),
			},
			want: true,
		},
		{
			name: "registrations overlap only",
			other: Dates{
				Start: day(2025, 4, 1), End: day(2025, 4, 2),
				RegistrationStart: day(2025, 2, 15), RegistrationEnd: day(2025, 2, 25),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.Conflicts(base, tt.other); got != tt.want {
				t.Fatalf("Conflicts=%v want=%v", got, tt.want)
			}
			if got := cal.Conflicts(tt.other, base); got != tt.want {
				t.Fatalf("Conflicts not symmetric: %v want=%v", got, tt.want)
			}
		})
	}
}

func TestCalendar_Contains_EndInclusive(t *testing.T) {
	cal := NewCalendar(time.UTC)
	start, end := day(2025, 3, 1), day(2025, 3, 5)

	if !cal.Contains(start, end, time.Date(2025, 3, 5, 21, 59, 0, 0, time.UTC)) {
		t.Fatalf("expected last day evening to be inside")
	}
	if cal.Contains(start, end, time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected day after end to be outside")
	}
	if cal.Contains(start, end, time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected day before start to be outside")
	}
}

func TestCalendar_ParseDateTime(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	cal := NewCalendar(loc)

	local, err := cal.ParseDateTime("2025-03-02 09:30")
	if err != nil {
		t.Fatalf("parse local: %v", err)
	}
	if local.Hour() != 9 || local.Location() != loc {
		t.Fatalf("expected 09:30 in calendar zone, got %s", local)
	}

	utc, err := cal.ParseDateTime("2025-03-02T04:00:00Z")
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if utc.In(loc).Hour() != 9 {
		t.Fatalf("expected 09:30 local, got %s", utc.In(loc))
	}

	if _, err := cal.ParseDateTime("tomorrow"); err == nil {
		t.Fatalf("expected parse error")
	}
}
