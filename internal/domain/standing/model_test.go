package standing

import (
	"testing"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
)

func applyAll(rows map[string]Row, deltas [2]Delta) {
	for _, d := range deltas {
		rows[d.TeamID] = rows[d.TeamID].Apply(d)
	}
}

func TestOutcome_CorrectionEqualsDirectApply(t *testing.T) {
	t.Parallel()

	m := match.Match{ID: "m1", Team1ID: "a", Team2ID: "b"}
	first, _ := match.NewScore(m, 2, 2)
	second, _ := match.NewScore(m, 3, 1)

	corrected := map[string]Row{}
	applyAll(corrected, Outcome(m, first))
	applyAll(corrected, Reversal(m, first))
	applyAll(corrected, Outcome(m, second))

	direct := map[string]Row{}
	applyAll(direct, Outcome(m, second))

	for _, id := range []string{"a", "b"} {
		if corrected[id] != direct[id] {
			t.Fatalf("team %s: corrected=%+v direct=%+v", id, corrected[id], direct[id])
		}
	}
	if direct["a"].Points != PointsWin || direct["a"].Wins != 1 || direct["b"].Losses != 1 {
		t.Fatalf("unexpected outcome %+v %+v", direct["a"], direct["b"])
	}
}

func TestOutcome_Draw(t *testing.T) {
	t.Parallel()

	m := match.Match{ID: "m1", Team1ID: "a", Team2ID: "b"}
	s, _ := match.NewScore(m, 2, 2)
	deltas := Outcome(m, s)
	for _, d := range deltas {
		if d.Draws != 1 || d.Points != PointsDraw || d.GoalsFor != 2 || d.GoalsAgainst != 2 {
			t.Fatalf("unexpected draw delta %+v", d)
		}
	}
}

func TestSort_DisqualifiedLast(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{TeamID: "dq", Points: 9, Disqualified: true},
		{TeamID: "low", Points: 1},
		{TeamID: "gd", Points: 4, GoalsFor: 5, GoalsAgainst: 1},
		{TeamID: "gf", Points: 4, GoalsFor: 6, GoalsAgainst: 2},
		{TeamID: "top", Points: 6},
		{TeamID: "dq2", Points: 0, Disqualified: true},
	}
	Sort(rows)

	want := []string{"top", "gf", "gd", "low", "dq", "dq2"}
	for i, id := range want {
		if rows[i].TeamID != id {
			t.Fatalf("position %d: got %s want %s", i, rows[i].TeamID, id)
		}
	}
}
