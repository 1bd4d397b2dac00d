package memory

import (
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
)

// SeedSports returns a starter catalog for local runs on the memory store.
func SeedSports() []sport.Sport {
	created := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []sport.Sport{
		{ID: "sport-football", Name: "Football (11v11)", Format: sport.FormatFootball11, TeamSize: 11, MaxSubstitutes: 5, RegistrationFee: 1000, Status: sport.StatusActive, CreatedAt: created},
		{ID: "sport-cricket", Name: "Cricket (T20)", Format: sport.FormatCricketT20, TeamSize: 11, MaxSubstitutes: 4, RegistrationFee: 1500, Status: sport.StatusActive, CreatedAt: created},
		{ID: "sport-basketball", Name: "Basketball (5v5)", Format: sport.FormatBasketball5, TeamSize: 5, MaxSubstitutes: 7, Status: sport.StatusActive, CreatedAt: created},
		{ID: "sport-volleyball", Name: "Volleyball (6v6)", Format: sport.FormatVolleyball6, TeamSize: 6, MaxSubstitutes: 6, Status: sport.StatusActive, CreatedAt: created},
		{ID: "sport-badminton", Name: "Badminton (Singles)", Format: sport.FormatBadmintonSingles, TeamSize: 1, MaxSubstitutes: 1, RegistrationFee: 200, Status: sport.StatusActive, CreatedAt: created},
	}
}

// NewSeededStore returns a store preloaded with sports.
func NewSeededStore(sports []sport.Sport) *Store {
	s := NewStore()
	for _, sp := range sports {
		s.data.sports[sp.ID] = sp
	}
	return s
}
