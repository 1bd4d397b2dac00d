package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tally struct {
	played, wins, draws, losses, goalsFor, goalsAgainst, points int
}

func tallyOf(r standing.Row) tally {
	return tally{r.MatchesPlayed, r.Wins, r.Draws, r.Losses, r.GoalsFor, r.GoalsAgainst, r.Points}
}

func tableByTeam(t *testing.T, w *testWorld, l league) map[string]tally {
	t.Helper()

	rows, err := w.standings.Table(t.Context(), l.event.ID, l.sport.ID)
	require.NoError(t, err)
	out := make(map[string]tally, len(rows))
	for _, r := range rows {
		out[r.TeamID] = tallyOf(r)
	}
	return out
}

func TestStandingsService_SubmitScore_AppliesResult(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo := l.teams[0], l.teams[1]

	m, err := w.schedule(l, alpha, bravo, "2026-03-06 10:00", "")
	require.NoError(t, err)
	w.now = time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)

	result, err := w.standings.SubmitScore(t.Context(), w.admin, m.ID, 3, 1)
	require.NoError(t, err)
	assert.False(t, result.Corrected)
	assert.Equal(t, "Alpha", result.WinnerName)
	assert.Equal(t, match.StatusCompleted, result.Match.Status)

	table := tableByTeam(t, w, l)
	assert.Equal(t, tally{played: 1, wins: 1, goalsFor: 3, goalsAgainst: 1, points: 3}, table[alpha.ID])
	assert.Equal(t, tally{played: 1, losses: 1, goalsFor: 1, goalsAgainst: 3}, table[bravo.ID])
}

func TestStandingsService_SubmitScore_CorrectionMatchesDirectScoring(t *testing.T) {
	t.Parallel()

	score := func(results ...[2]int) map[string]tally {
		w := newTestWorld(t)
		l := w.activeLeague()
		m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-06 10:00", "")
		require.NoError(t, err)
		w.now = time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)
		for _, r := range results {
			_, err := w.standings.SubmitScore(t.Context(), w.admin, m.ID, r[0], r[1])
			require.NoError(t, err)
		}

		byName := make(map[string]tally)
		for id, row := range tableByTeam(t, w, l) {
			for _, tm := range l.teams {
				if tm.ID == id {
					byName[tm.Name] = row
				}
			}
		}
		return byName
	}

	direct := score([2]int{1, 1})
	corrected := score([2]int{2, 0}, [2]int{0, 4}, [2]int{1, 1})
	assert.Equal(t, direct, corrected)
	assert.Equal(t, tally{played: 1, draws: 1, goalsFor: 1, goalsAgainst: 1, points: 1}, corrected["Alpha"])
}

func TestStandingsService_SubmitScore_CorrectionKeepsDisqualifiedResultsAtZero(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo := l.teams[0], l.teams[1]
	m, err := w.schedule(l, alpha, bravo, "2026-03-06 10:00", "")
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 3, 1)
	require.NoError(t, err)
	_, _, err = w.teams.Disqualify(t.Context(), w.admin, alpha.ID, "")
	require.NoError(t, err)

	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 1, 1)
	require.NoError(t, err)
	rows := tableByTeam(t, w, l)
	assert.Equal(t, tally{played: 1, goalsFor: 1, goalsAgainst: 1}, rows[alpha.ID])
	assert.Equal(t, tally{played: 1, draws: 1, goalsFor: 1, goalsAgainst: 1, points: 1}, rows[bravo.ID])

	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 0, 2)
	require.NoError(t, err)
	rows = tableByTeam(t, w, l)
	assert.Equal(t, tally{played: 1, losses: 1, goalsAgainst: 2}, rows[alpha.ID])
	assert.Equal(t, tally{played: 1, wins: 1, goalsFor: 2, points: 3}, rows[bravo.ID])

	row, _, err := w.store.Standings().Get(t.Context(), l.event.ID, l.sport.ID, alpha.ID)
	require.NoError(t, err)
	assert.True(t, row.Disqualified)
}

func TestStandingsService_SubmitScore_ReportsCorrection(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-06 10:00", "")
	require.NoError(t, err)
	w.now = time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)

	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 2, 0)
	require.NoError(t, err)
	result, err := w.standings.SubmitScore(t.Context(), w.admin, m.ID, 2, 2)
	require.NoError(t, err)
	assert.True(t, result.Corrected)
	assert.Empty(t, result.WinnerName)

	details, err := w.matches.Get(t.Context(), m.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Score)
	assert.Equal(t, "2-2", details.Score.String())
	last := details.History[len(details.History)-1]
	assert.Equal(t, "2-0", last.OldValue)
	assert.Equal(t, "2-2", last.NewValue)
}

func TestStandingsService_SubmitScore_Guards(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	early, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-06 10:00", "")
	require.NoError(t, err)
	cancelled, err := w.schedule(l, l.teams[1], l.teams[2], "2026-03-06 14:00", "")
	require.NoError(t, err)
	_, err = w.matches.Cancel(t.Context(), w.admin, cancelled.ID, "Rain")
	require.NoError(t, err)

	_, err = w.standings.SubmitScore(t.Context(), w.admin, early.ID, 1, 0)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Cannot complete match before scheduled time")

	w.now = time.Date(2026, time.March, 6, 18, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, cancelled.ID, 1, 0)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Cannot score a cancelled match")

	_, err = w.standings.SubmitScore(t.Context(), w.admin, early.ID, -1, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = w.standings.SubmitScore(t.Context(), w.admin, "missing", 1, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStandingsService_Table_OrdersByPointsThenGoalDifference(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	ab, err := w.schedule(l, alpha, bravo, "2026-03-06 10:00", "")
	require.NoError(t, err)
	bc, err := w.schedule(l, bravo, charlie, "2026-03-06 13:00", "")
	require.NoError(t, err)
	ca, err := w.schedule(l, charlie, alpha, "2026-03-06 16:00", "")
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 20, 0, 0, 0, time.UTC)
	for _, r := range []struct {
		id     string
		s1, s2 int
	}{{ab.ID, 1, 0}, {bc.ID, 4, 0}, {ca.ID, 1, 1}} {
		_, err := w.standings.SubmitScore(t.Context(), w.admin, r.id, r.s1, r.s2)
		require.NoError(t, err)
	}

	rows, err := w.standings.Table(t.Context(), l.event.ID, "overall")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Alpha 4 pts, Bravo 3 pts (+3), Charlie 1 pt.
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, []string{rows[0].TeamName, rows[1].TeamName, rows[2].TeamName})

	_, _, err = w.teams.Disqualify(t.Context(), w.admin, alpha.ID, "Ineligible player")
	require.NoError(t, err)
	rows, err = w.standings.Table(t.Context(), l.event.ID, l.sport.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", rows[2].TeamName)
	assert.True(t, rows[2].Disqualified)
}
