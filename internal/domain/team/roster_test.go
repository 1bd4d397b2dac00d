package team

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
)

func footballSport() sport.Sport {
	return sport.Sport{
		ID:             "football",
		Name:           "Football (11v11)",
		Format:         sport.FormatFootball11,
		TeamSize:       11,
		MaxSubstitutes: 5,
	}
}

func footballRoster(goalkeepers, subs int) []Player {
	players := make([]Player, 0, 11+subs)
	for i := 0; i < 11; i++ {
		position := sport.PositionDefender
		if i < goalkeepers {
			position = sport.PositionGoalkeeper
		}
		players = append(players, Player{
			Name:     fmt.Sprintf("Main Player %s", string(rune('A'+i))),
			JerseyNo: fmt.Sprintf("%d", i+1),
			Position: position,
			Type:     PlayerMain,
		})
	}
	for i := 0; i < subs; i++ {
		players = append(players, Player{
			Name:     fmt.Sprintf("Sub Player %s", string(rune('A'+i))),
			JerseyNo: fmt.Sprintf("%d", 20+i),
			Position: sport.PositionForward,
			Type:     PlayerSubstitute,
		})
	}
	return players
}

func TestValidateRoster_FootballWithGoalkeeperPasses(t *testing.T) {
	t.Parallel()

	if err := ValidateRoster(footballRoster(1, 3), footballSport().Rules()); err != nil {
		t.Fatalf("expected roster to pass, got %v", err)
	}
}

func TestValidateRoster_FootballWithoutGoalkeeperFails(t *testing.T) {
	t.Parallel()

	err := ValidateRoster(footballRoster(0, 3), footballSport().Rules())
	var rosterErr *RosterError
	if !errors.As(err, &rosterErr) {
		t.Fatalf("expected RosterError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Exactly 1 Goalkeeper required in main players") {
		t.Fatalf("expected goalkeeper message, got %q", err.Error())
	}
}

func TestValidateRoster_CollectsEveryViolation(t *testing.T) {
	t.Parallel()

	players := footballRoster(1, 6)
	players[1].JerseyNo = "1"
	players[2].Name = "R2-D2"
	players[3].JerseyNo = "100"
	players[4].Position = "Pitcher"

	err := ValidateRoster(players, footballSport().Rules())
	var rosterErr *RosterError
	if !errors.As(err, &rosterErr) {
		t.Fatalf("expected RosterError, got %v", err)
	}

	wants := []string{
		"Maximum 5 substitutes allowed, got 6",
		"Duplicate jersey numbers: 1",
		"Invalid player name: R2-D2",
		"Jersey number must be between 0 and 99: 100",
		`Invalid position "Pitcher" for player 5`,
	}
	for _, want := range wants {
		found := false
		for _, v := range rosterErr.Violations {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing violation %q in %v", want, rosterErr.Violations)
		}
	}
}

func TestValidateRoster_MainPlayerCount(t *testing.T) {
	t.Parallel()

	players := footballRoster(1, 0)[:10]
	err := ValidateRoster(players, footballSport().Rules())
	if err == nil || !strings.Contains(err.Error(), "Exactly 11 main players required, got 10") {
		t.Fatalf("expected main player count error, got %v", err)
	}
}

func TestValidateRoster_CricketWicketKeeper(t *testing.T) {
	t.Parallel()

	cricket := sport.Sport{Name: "Cricket (T20)", Format: sport.FormatCricketT20, TeamSize: 2, MaxSubstitutes: 0}
	players := []Player{
		{Name: "Alpha", JerseyNo: "7", Position: sport.PositionBatsman, Type: PlayerMain},
		{Name: "Bravo", JerseyNo: "8", Position: sport.PositionBowler, Type: PlayerMain},
	}
	err := ValidateRoster(players, cricket.Rules())
	if err == nil || !strings.Contains(err.Error(), "Exactly 1 Wicket-keeper required in main players") {
		t.Fatalf("expected wicket-keeper error, got %v", err)
	}

	players[1].Position = sport.PositionWicketKeeper
	if err := ValidateRoster(players, cricket.Rules()); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestValidateRoster_GenericSportIgnoresPositions(t *testing.T) {
	t.Parallel()

	generic := sport.Sport{Name: "Kabaddi", Format: sport.FormatGeneric, TeamSize: 1, MaxSubstitutes: 1}
	players := []Player{
		{Name: "O'Neil Smith-Jones", JerseyNo: "0", Position: "Raider", Type: PlayerMain},
		{Name: "Backup", JerseyNo: "00", Type: PlayerSubstitute},
	}
	err := ValidateRoster(players, generic.Rules())
	if err == nil || !strings.Contains(err.Error(), "Duplicate jersey numbers: 0") {
		t.Fatalf("expected numeric duplicate detection, got %v", err)
	}
}

func TestBlockingMessage_DistinguishesCauses(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, status := range BlockingStatuses {
		msg := BlockingMessage(status)
		if msg == "" {
			t.Fatalf("expected message for %s", status)
		}
		if seen[msg] {
			t.Fatalf("duplicate message for %s", status)
		}
		seen[msg] = true
	}
	if BlockingMessage(StatusRejected) != "" {
		t.Fatalf("rejected teams must not block")
	}
}
