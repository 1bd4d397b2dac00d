package sport

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinTeamSize = 1
	MaxTeamSize = 50
	MinFee      = 200
	MaxFee      = 5000
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Sport is a competition discipline with fixed roster-size rules.
type Sport struct {
	ID              string
	Name            string
	Format          Format
	TeamSize        int
	MaxSubstitutes  int
	RegistrationFee int
	Status          Status
	CreatedAt       time.Time
}

func (s Sport) Validate() error {
	var violations []string
	name := strings.TrimSpace(s.Name)
	if len(name) < 2 || len(name) > 50 {
		violations = append(violations, "Sport name must be between 2 and 50 characters")
	}
	if s.TeamSize < MinTeamSize || s.TeamSize > MaxTeamSize {
		violations = append(violations, fmt.Sprintf("Team size must be between %d and %d", MinTeamSize, MaxTeamSize))
	}
	if s.MaxSubstitutes < 0 || s.MaxSubstitutes > MaxTeamSize {
		violations = append(violations, fmt.Sprintf("Max substitutes must be between 0 and %d", MaxTeamSize))
	}
	if s.RegistrationFee != 0 && (s.RegistrationFee < MinFee || s.RegistrationFee > MaxFee) {
		violations = append(violations, fmt.Sprintf("Registration fee must be 0 or between %d and %d", MinFee, MaxFee))
	}
	if _, ok := LookupFormat(s.Format); !ok {
		violations = append(violations, fmt.Sprintf("Unknown sport format %q", s.Format))
	}
	if len(violations) > 0 {
		return fmt.Errorf("%s", strings.Join(violations, "; "))
	}
	return nil
}

// RequiresPayment reports whether registering a team needs a payment proof.
func (s Sport) RequiresPayment() bool {
	return s.RegistrationFee > 0
}

// Rules returns the roster rules applied when registering a team for s.
func (s Sport) Rules() RosterRules {
	spec, _ := LookupFormat(s.Format)
	return RosterRules{
		MainPlayers:    s.TeamSize,
		MaxSubstitutes: s.MaxSubstitutes,
		Positions:      spec,
	}
}

// RosterRules is what team roster validation needs to know about a sport.
type RosterRules struct {
	MainPlayers    int
	MaxSubstitutes int
	Positions      FormatSpec
}
