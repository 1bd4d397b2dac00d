package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
)

func TestTranslateError(t *testing.T) {
	t.Run("maps unique violation to duplicate", func(t *testing.T) {
		err := translateError("insert team", fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "teams_live_registration_uidx"}))
		if !errors.Is(err, store.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
		if !strings.Contains(err.Error(), "teams_live_registration_uidx") {
			t.Fatalf("expected constraint name in %q", err.Error())
		}
	})

	t.Run("keeps other errors", func(t *testing.T) {
		base := &pq.Error{Code: "23503"}
		err := translateError("insert match", base)
		if errors.Is(err, store.ErrDuplicate) {
			t.Fatalf("foreign key violation must not map to duplicate")
		}
		if !errors.Is(err, base) {
			t.Fatalf("expected wrapped original error")
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if err := translateError("noop", nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("unexpected not found")
	}
}

func TestContainsPattern(t *testing.T) {
	got := containsPattern(`50%_off\`)
	if got != `%50\%\_off\\%` {
		t.Fatalf("unexpected pattern: %s", got)
	}
}

func TestNullHelpers(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("empty string should be null")
	}
	if v := nullString("venue-1"); !v.Valid || v.String != "venue-1" {
		t.Fatalf("unexpected null string: %+v", v)
	}

	age := 21
	if got := intPtrFromNull(nullIntPtr(&age)); got == nil || *got != 21 {
		t.Fatalf("expected age round trip, got %v", got)
	}
	if got := intPtrFromNull(nullIntPtr(nil)); got != nil {
		t.Fatalf("expected nil age, got %v", *got)
	}
}

func TestConflictSelect(t *testing.T) {
	at := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

	t.Run("teams and venue", func(t *testing.T) {
		b, ok := conflictSelect(match.ConflictQuery{
			TeamIDs:   []string{"team-a", "team-b"},
			VenueID:   "venue-1",
			At:        at,
			ExcludeID: "match-9",
		})
		if !ok {
			t.Fatalf("expected query")
		}
		query, args, err := b.ToSQL()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		for _, fragment := range []string{
			"m.status IN ($1, $2)",
			"m.match_date > $3",
			"m.match_date < $4",
			"(m.venue_id = $5 OR m.team1_id IN ($6, $7) OR m.team2_id IN ($8, $9))",
			"m.id <> $10",
		} {
			if !strings.Contains(query, fragment) {
				t.Fatalf("expected %q in %s", fragment, query)
			}
		}
		if args[2] != at.Add(-match.ConflictWindow) || args[3] != at.Add(match.ConflictWindow) {
			t.Fatalf("unexpected window args: %v %v", args[2], args[3])
		}
	})

	t.Run("nothing shared", func(t *testing.T) {
		if _, ok := conflictSelect(match.ConflictQuery{At: at}); ok {
			t.Fatalf("expected no query without teams or venue")
		}
	})
}

func TestTeamConditions(t *testing.T) {
	b := teamSelect().Where(teamConditions(team.Filter{
		EventID:      "event-1",
		Statuses:     []team.Status{team.StatusApproved},
		NameContains: "  tig ",
	})...)
	query, args, err := b.ToSQL()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(query, "WHERE t.event_id = $1 AND t.status IN ($2) AND t.name ILIKE $3") {
		t.Fatalf("unexpected query: %s", query)
	}
	if args[2] != "%tig%" {
		t.Fatalf("unexpected pattern arg: %v", args[2])
	}
}

func TestMatchConditions_UnprefixedForUpdates(t *testing.T) {
	conds := matchConditions(match.Filter{TeamIDs: []string{"team-a"}, Statuses: []match.Status{match.StatusScheduled}}, "")
	if len(conds) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(conds))
	}
}
