package team

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
)

type PlayerType string

const (
	PlayerMain       PlayerType = "main"
	PlayerSubstitute PlayerType = "substitute"
)

const (
	maxJersey        = 99
	minPlayerNameLen = 2
	maxPlayerNameLen = 50
)

var (
	playerNamePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	jerseyPattern     = regexp.MustCompile(`^\d+$`)
)

// Player is one roster entry. Rosters are replaced wholesale on edit.
type Player struct {
	ID       string
	TeamID   string
	Name     string
	JerseyNo string
	Age      *int
	Position sport.Position
	Type     PlayerType
}

// RosterError lists every roster rule a submission violates.
type RosterError struct {
	Violations []string
}

func (e *RosterError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// NormalizeRoster trims names, jerseys and positions in place and returns players.
func NormalizeRoster(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		p.JerseyNo = strings.TrimSpace(p.JerseyNo)
		p.Position = sport.Position(strings.TrimSpace(string(p.Position)))
		p.Type = PlayerType(strings.ToLower(strings.TrimSpace(string(p.Type))))
		out = append(out, p)
	}
	return out
}

// ValidateRoster checks a full roster against the sport's rules and returns a
// *RosterError carrying every violation, or nil.
func ValidateRoster(players []Player, rules sport.RosterRules) error {
	var violations []string

	main, subs := 0, 0
	for _, p := range players {
		switch p.Type {
		case PlayerMain:
			main++
		case PlayerSubstitute:
			subs++
		}
	}

	if main != rules.MainPlayers {
		violations = append(violations, fmt.Sprintf("Exactly %d main players required, got %d", rules.MainPlayers, main))
	}
	if subs > rules.MaxSubstitutes {
		violations = append(violations, fmt.Sprintf("Maximum %d substitutes allowed, got %d", rules.MaxSubstitutes, subs))
	}

	seen := make(map[int]int, len(players))
	for idx, p := range players {
		label := fmt.Sprintf("player %d", idx+1)
		if p.Type != PlayerMain && p.Type != PlayerSubstitute {
			violations = append(violations, fmt.Sprintf("Invalid player type %q for %s", p.Type, label))
		}
		if p.Age != nil && (*p.Age < 0 || *p.Age > 120) {
			violations = append(violations, fmt.Sprintf("Invalid age for %s", label))
		}
		if p.Name == "" || p.JerseyNo == "" {
			violations = append(violations, fmt.Sprintf("Player name and jersey number required for %s", label))
			continue
		}
		if !playerNamePattern.MatchString(p.Name) {
			violations = append(violations, fmt.Sprintf("Invalid player name: %s", p.Name))
		} else if n := len(p.Name); n < minPlayerNameLen || n > maxPlayerNameLen {
			violations = append(violations, fmt.Sprintf("Player name must be between %d and %d characters: %s", minPlayerNameLen, maxPlayerNameLen, p.Name))
		}
		if !jerseyPattern.MatchString(p.JerseyNo) {
			violations = append(violations, fmt.Sprintf("Invalid jersey number: %s", p.JerseyNo))
			continue
		}
		jersey, err := strconv.Atoi(p.JerseyNo)
		if err != nil || jersey > maxJersey {
			violations = append(violations, fmt.Sprintf("Jersey number must be between 0 and %d: %s", maxJersey, p.JerseyNo))
			continue
		}
		seen[jersey]++
	}

	var duplicates []int
	for jersey, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, jersey)
		}
	}
	if len(duplicates) > 0 {
		sort.Ints(duplicates)
		parts := make([]string, 0, len(duplicates))
		for _, d := range duplicates {
			parts = append(parts, strconv.Itoa(d))
		}
		violations = append(violations, "Duplicate jersey numbers: "+strings.Join(parts, ", "))
	}

	if rules.Positions.HasVocabulary() {
		for idx, p := range players {
			if p.Position != "" && !rules.Positions.Allows(p.Position) {
				violations = append(violations, fmt.Sprintf("Invalid position %q for player %d", p.Position, idx+1))
			}
		}
		for _, position := range rules.Positions.RequiredPositions() {
			want := rules.Positions.Required[position]
			got := 0
			for _, p := range players {
				if p.Type == PlayerMain && p.Position == position {
					got++
				}
			}
			if got != want {
				violations = append(violations, fmt.Sprintf("Exactly %d %s required in main players", want, position))
			}
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &RosterError{Violations: violations}
}
