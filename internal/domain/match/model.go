package match

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// OccupyingStatuses are the statuses that hold a team or venue slot.
var OccupyingStatuses = []Status{StatusScheduled, StatusLive}

const (
	// ConflictWindow is the minimum distance between two matches sharing a team or venue.
	ConflictWindow = 120 * time.Minute
	FirstStartHour = 8
	LastStartHour  = 22
	MaxScore       = 100
)

// Match is a fixture between two approved teams of one sport within an event.
type Match struct {
	ID           string
	EventID      string
	SportID      string
	Team1ID      string
	Team2ID      string
	VenueID      string
	MatchDate    time.Time
	Status       Status
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Team1Name string
	Team2Name string
	VenueName string
	SportName string
	EventName string
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.EventID == "" || m.SportID == "" {
		return fmt.Errorf("match event and sport are required")
	}
	if m.Team1ID == "" || m.Team2ID == "" {
		return fmt.Errorf("both teams are required")
	}
	if m.Team1ID == m.Team2ID {
		return fmt.Errorf("A team cannot play against itself")
	}
	if m.MatchDate.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid match status %q", m.Status)
	}
	return nil
}

func (m Match) Involves(teamID string) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// Occupies reports whether the match still holds its team and venue slots.
func (m Match) Occupies() bool {
	return m.Status == StatusScheduled || m.Status == StatusLive
}

// OpponentOf returns the other team's id.
func (m Match) OpponentOf(teamID string) string {
	if m.Team1ID == teamID {
		return m.Team2ID
	}
	return m.Team1ID
}

// WithinPlayingHours reports whether t starts in [08:00, 22:00) local time.
func WithinPlayingHours(t time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	return hour >= FirstStartHour && hour < LastStartHour
}

// Clashes reports whether two start times are closer than ConflictWindow.
func Clashes(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < ConflictWindow
}

// Filter narrows match listings. Zero fields match everything. After and
// Before are exclusive bounds on MatchDate.
type Filter struct {
	EventID  string
	SportID  string
	VenueID  string
	TeamIDs  []string
	Statuses []Status
	After    time.Time
	Before   time.Time
}

// Matches reports whether m satisfies every set field of f.
func (f Filter) Matches(m Match) bool {
	if f.EventID != "" && m.EventID != f.EventID {
		return false
	}
	if f.SportID != "" && m.SportID != f.SportID {
		return false
	}
	if f.VenueID != "" && m.VenueID != f.VenueID {
		return false
	}
	if len(f.TeamIDs) > 0 {
		involved := false
		for _, id := range f.TeamIDs {
			if m.Involves(id) {
				involved = true
				break
			}
		}
		if !involved {
			return false
		}
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if m.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.After.IsZero() && !m.MatchDate.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !m.MatchDate.Before(f.Before) {
		return false
	}
	return true
}

// ConflictQuery finds occupying matches near At that share a team or the venue.
type ConflictQuery struct {
	TeamIDs   []string
	VenueID   string
	At        time.Time
	ExcludeID string
}
