package event

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// dateTimeLayouts are accepted for match times without an explicit offset.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Calendar interprets date-only fields and wall-clock instants in the
// tournament's time zone.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Day returns the calendar date carried by t (in t's own zone) as midnight in
// the calendar zone. Stored DATE columns come back as UTC midnight, so the
// date is read before converting.
func (c Calendar) Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// Today is the current calendar date in the calendar zone.
func (c Calendar) Today(now time.Time) time.Time {
	y, m, d := now.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.Location())
}

// EndOfDay is the last representable instant of the date carried by t.
func (c Calendar) EndOfDay(t time.Time) time.Time {
	return c.Day(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDate parses YYYY-MM-DD into a calendar day.
func (c Calendar) ParseDate(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return parsed, nil
}

// ParseDateTime parses an RFC 3339 instant, or a local wall-clock time which
// is read in the calendar zone.
func (c Calendar) ParseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date time %q, expected YYYY-MM-DD HH:MM", raw)
}

// RegistrationStatus maps today against [regStart, regEnd] at day
// granularity; regEnd is inclusive through 23:59:59.
func (c Calendar) RegistrationStatus(now, regStart, regEnd time.Time) RegistrationStatus {
	today := c.Today(now)
	if today.Before(c.Day(regStart)) {
		return RegistrationNotStarted
	}
	if today.After(c.EndOfDay(regEnd)) {
		return RegistrationClosed
	}
	return RegistrationOpen
}

// ValidateDates checks the ordering rules for an event calendar. When
// checkPastStart is false the registration start may lie in the past, which
// is used for edits that keep the original start date.
func (c Calendar) ValidateDates(now time.Time, d Dates, checkPastStart bool) error {
	today := c.Today(now)
	regStart := c.Day(d.RegistrationStart)
	regEnd := c.Day(d.RegistrationEnd)
	start := c.Day(d.Start)
	end := c.Day(d.End)

	var violations []string
	if checkPastStart && regStart.Before(today) {
		violations = append(violations, "Registration start date cannot be in the past")
	}
	if regEnd.Before(regStart) {
		violations = append(violations, "Registration end date cannot be before start date")
	}
	if regEnd.After(start) {
		violations = append(violations, "Registration must close on or before event starts")
	}
	if end.Before(start) {
		violations = append(violations, "Event end date cannot be before start date")
	}
	if len(violations) == 0 {
		return nil
	}
	return &DateError{Violations: violations}
}

// Conflicts reports whether any interval of a (event span or registration
// span) intersects any interval of b. Intervals are inclusive calendar days.
func (c Calendar) Conflicts(a, b Dates) bool {
	aSpans := [2][2]time.Time{
		{c.Day(a.Start), c.Day(a.End)},
		{c.Day(a.RegistrationStart), c.Day(a.RegistrationEnd)},
	}
	bSpans := [2][2]time.Time{
		{c.Day(b.Start), c.Day(b.End)},
		{c.Day(b.RegistrationStart), c.Day(b.RegistrationEnd)},
	}
	for _, x := range aSpans {
		for _, y := range bSpans {
			if daysIntersect(x[0], x[1], y[0], y[1]) {
				return true
			}
		}
	}
	return false
}

// RegistrationConflicts compares only the registration windows of a and b.
func (c Calendar) RegistrationConflicts(a, b Dates) bool {
	return daysIntersect(
		c.Day(a.RegistrationStart), c.Day(a.RegistrationEnd),
		c.Day(b.RegistrationStart), c.Day(b.RegistrationEnd),
	)
}

// Contains reports whether instant t falls within [start 00:00, end 23:59:59].
func (c Calendar) Contains(start, end, t time.Time) bool {
	t = t.In(c.Location())
	return !t.Before(c.Day(start)) && !t.After(c.EndOfDay(end))
}

func daysIntersect(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// DateError carries every violated date rule.
type DateError struct {
	Violations []string
}

func (e *DateError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// FormatDate renders a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
