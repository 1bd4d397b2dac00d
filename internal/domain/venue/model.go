package venue

import (
	"fmt"
	"strings"
	"time"
)

// Venue is a playing ground. An empty SportID marks a general venue usable by any sport.
type Venue struct {
	ID        string
	Name      string
	Location  string
	Capacity  int
	SportID   string
	SportName string
	CreatedAt time.Time
}

func (v Venue) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("venue id is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("Venue name is required")
	}
	if len(v.Name) > 100 {
		return fmt.Errorf("Venue name must be at most 100 characters")
	}
	if v.Capacity < 0 {
		return fmt.Errorf("Venue capacity cannot be negative")
	}
	return nil
}

// Serves reports whether a match of sportID may be played here.
func (v Venue) Serves(sportID string) bool {
	return v.SportID == "" || v.SportID == sportID
}
