package event

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPlanned          Status = "planned"
	StatusRegistrationOpen Status = "registration_open"
	StatusActive           Status = "active"
	StatusCompleted        Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusRegistrationOpen, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// RegistrationStatus is derived from the registration window and cached on the event row.
type RegistrationStatus string

const (
	RegistrationNotStarted RegistrationStatus = "not_started"
	RegistrationOpen       RegistrationStatus = "open"
	RegistrationClosed     RegistrationStatus = "closed"
)

// Event is one tournament instance with its own calendar and registration window.
type Event struct {
	ID                 string
	Name               string
	Description        string
	Location           string
	StartDate          time.Time
	EndDate            time.Time
	RegistrationStart  time.Time
	RegistrationEnd    time.Time
	Status             Status
	RegistrationStatus RegistrationStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	name := strings.TrimSpace(e.Name)
	if len(name) < 3 || len(name) > 100 {
		return fmt.Errorf("event name must be between 3 and 100 characters")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("invalid event status %q", e.Status)
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return fmt.Errorf("event start and end dates are required")
	}
	if e.RegistrationStart.IsZero() || e.RegistrationEnd.IsZero() {
		return fmt.Errorf("registration start and end dates are required")
	}
	return nil
}

func (e Event) Dates() Dates {
	return Dates{
		Start:             e.StartDate,
		End:               e.EndDate,
		RegistrationStart: e.RegistrationStart,
		RegistrationEnd:   e.RegistrationEnd,
	}
}

func (e Event) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// Dates groups the four calendar fields of an event. All values are calendar
// days; the time-of-day part is ignored.
type Dates struct {
	Start             time.Time
	End               time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
}

// SortRank orders events for listings: active first, completed last.
func SortRank(s Status) int {
	switch s {
	case StatusActive:
		return 0
	case StatusRegistrationOpen:
		return 1
	case StatusPlanned:
		return 2
	default:
		return 3
	}
}
