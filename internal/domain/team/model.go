package team

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusDisqualified Status = "disqualified"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDisqualified:
		return true
	default:
		return false
	}
}

// BlockingStatuses are the statuses that prevent a manager from registering
// another team for the same event and sport. Rejected teams do not block.
var BlockingStatuses = []Status{StatusPending, StatusApproved, StatusDisqualified}

const (
	MinNameLength = 3
	MaxNameLength = 50
)

// Team is one manager's entry for a sport within an event.
type Team struct {
	ID              string
	Name            string
	EventID         string
	SportID         string
	ManagerID       string
	LogoURL         string
	PaymentProofURL string
	Status          Status
	StatusReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ManagerUsername string
	ManagerEmail    string
	SportName       string
	EventName       string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if t.EventID == "" || t.SportID == "" || t.ManagerID == "" {
		return fmt.Errorf("team event, sport and manager are required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid team status %q", t.Status)
	}
	return nil
}

func ValidateName(name string) error {
	n := len(strings.TrimSpace(name))
	if n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("Team name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return nil
}

// Key identifies the (event, sport, manager) slot a team occupies.
type Key struct {
	EventID   string
	SportID   string
	ManagerID string
}

func (t Team) Key() Key {
	return Key{EventID: t.EventID, SportID: t.SportID, ManagerID: t.ManagerID}
}

// BlockingMessage explains why an existing team prevents a new registration.
func BlockingMessage(existing Status) string {
	switch existing {
	case StatusPending:
		return "You already have a pending registration for this sport. Please wait for admin approval."
	case StatusApproved:
		return "You already have an approved team for this sport in this event"
	case StatusDisqualified:
		return "Your previous team was disqualified. You cannot register another team for this sport in this event."
	default:
		return ""
	}
}

// Filter narrows team listings. Empty fields match everything.
type Filter struct {
	EventID   string
	SportID   string
	ManagerID string
	Statuses  []Status
	// NameContains matches case-insensitively.
	NameContains string
	Limit        int
}

// Matches reports whether t satisfies every set field of f. Limit is ignored.
func (f Filter) Matches(t Team) bool {
	if f.EventID != "" && t.EventID != f.EventID {
		return false
	}
	if f.SportID != "" && t.SportID != f.SportID {
		return false
	}
	if f.ManagerID != "" && t.ManagerID != f.ManagerID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if t.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		if !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}
