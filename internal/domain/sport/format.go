package sport

import (
	"sort"
	"strings"
)

// Format identifies a sport's rule set and position vocabulary.
type Format string

const (
	FormatGeneric          Format = "generic"
	FormatFootball11       Format = "football_11"
	FormatCricketT20       Format = "cricket_t20"
	FormatBasketball5      Format = "basketball_5"
	FormatVolleyball6      Format = "volleyball_6"
	FormatBadmintonSingles Format = "badminton_singles"
)

type Position string

const (
	PositionGoalkeeper    Position = "Goalkeeper"
	PositionDefender      Position = "Defender"
	PositionMidfielder    Position = "Midfielder"
	PositionForward       Position = "Forward"
	PositionBatsman       Position = "Batsman"
	PositionBowler        Position = "Bowler"
	PositionAllRounder    Position = "All-rounder"
	PositionWicketKeeper  Position = "Wicket-keeper"
	PositionPointGuard    Position = "Point Guard"
	PositionShootingGuard Position = "Shooting Guard"
	PositionSmallForward  Position = "Small Forward"
	PositionPowerForward  Position = "Power Forward"
	PositionCenter        Position = "Center"
	PositionSetter        Position = "Setter"
	PositionOutsideHitter Position = "Outside Hitter"
	PositionMiddleBlocker Position = "Middle Blocker"
	PositionOpposite      Position = "Opposite"
	PositionLibero        Position = "Libero"
	PositionSingles       Position = "Singles Player"
)

// FormatSpec lists the positions a format allows and how many main players
// must hold each required position.
type FormatSpec struct {
	Format    Format
	Label     string
	Positions []Position
	Required  map[Position]int
}

// HasVocabulary is false for formats that accept free-form rosters.
func (f FormatSpec) HasVocabulary() bool {
	return len(f.Positions) > 0
}

func (f FormatSpec) Allows(p Position) bool {
	for _, candidate := range f.Positions {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiredPositions returns Required in a stable order.
func (f FormatSpec) RequiredPositions() []Position {
	out := make([]Position, 0, len(f.Required))
	for p := range f.Required {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var formats = map[Format]FormatSpec{
	FormatGeneric: {
		Format: FormatGeneric,
		Label:  "Generic",
	},
	FormatFootball11: {
		Format:    FormatFootball11,
		Label:     "Football (11v11)",
		Positions: []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward},
		Required:  map[Position]int{PositionGoalkeeper: 1},
	},
	FormatCricketT20: {
		Format:    FormatCricketT20,
		Label:     "Cricket (T20)",
		Positions: []Position{PositionBatsman, PositionBowler, PositionAllRounder, PositionWicketKeeper},
		Required:  map[Position]int{PositionWicketKeeper: 1},
	},
	FormatBasketball5: {
		Format:    FormatBasketball5,
		Label:     "Basketball (5v5)",
		Positions: []Position{PositionPointGuard, PositionShootingGuard, PositionSmallForward, PositionPowerForward, PositionCenter},
	},
	FormatVolleyball6: {
		Format:    FormatVolleyball6,
		Label:     "Volleyball (6v6)",
		Positions: []Position{PositionSetter, PositionOutsideHitter, PositionMiddleBlocker, PositionOpposite, PositionLibero},
	},
	FormatBadmintonSingles: {
		Format:    FormatBadmintonSingles,
		Label:     "Badminton (Singles)",
		Positions: []Position{PositionSingles},
	},
}

// LookupFormat resolves a format key. The empty format is treated as generic.
func LookupFormat(f Format) (FormatSpec, bool) {
	if strings.TrimSpace(string(f)) == "" {
		f = FormatGeneric
	}
	spec, ok := formats[f]
	return spec, ok
}

// FormatByLabel resolves a display label such as "Cricket (T20)".
func FormatByLabel(label string) (FormatSpec, bool) {
	label = strings.TrimSpace(label)
	for _, spec := range formats {
		if strings.EqualFold(spec.Label, label) {
			return spec, true
		}
	}
	return FormatSpec{}, false
}

// Formats lists every known format ordered by key.
func Formats() []FormatSpec {
	out := make([]FormatSpec, 0, len(formats))
	for _, spec := range formats {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format < out[j].Format })
	return out
}
