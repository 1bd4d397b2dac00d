package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchService_Schedule_TeamConflictWindow(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	first, err := w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, first.Status)
	assert.Equal(t, "Main Court", first.VenueName)
	assert.Len(t, w.notifier.byKind(notification.KindMatchScheduled), 2)

	_, err = w.schedule(l, alpha, charlie, "2026-03-07 11:59", "")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Match conflict: Alpha or Bravo already has a match within 2 hours of this time")

	_, err = w.schedule(l, alpha, charlie, "2026-03-07 08:01", "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = w.schedule(l, alpha, charlie, "2026-03-07 12:00", "")
	require.NoError(t, err)
}

func TestMatchService_Schedule_VenueConflictReportedFirst(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	_, err := w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	_, err = w.schedule(l, bravo, charlie, "2026-03-07 11:00", l.venue.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), `Venue conflict: "Main Court" has another match within 2 hours of this time`)
}

func TestMatchService_Schedule_PlayingHoursAndEventWindow(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo := l.teams[0], l.teams[1]

	tests := []struct {
		name    string
		at      string
		wantErr string
	}{
		{name: "before opening", at: "2026-03-10 07:59", wantErr: "Match time must be between 8:00 AM and 10:00 PM"},
		{name: "at closing", at: "2026-03-10 22:00", wantErr: "Match time must be between 8:00 AM and 10:00 PM"},
		{name: "after event", at: "2026-03-16 10:00", wantErr: "Match date must be between 2026-03-06 and 2026-03-15"},
		{name: "before event", at: "2026-03-05 10:00", wantErr: "Match date must be between 2026-03-06 and 2026-03-15"},
		{name: "opening", at: "2026-03-10 08:00"},
		{name: "last slot", at: "2026-03-12 21:59"},
		{name: "last event day", at: "2026-03-15 20:00"},
	}

	for _, tc := range tests {
		_, err := w.schedule(l, alpha, bravo, tc.at, "")
		if tc.wantErr == "" {
			require.NoError(t, err, tc.name)
			continue
		}
		require.ErrorIs(t, err, ErrInvalidInput, tc.name)
		assert.Contains(t, err.Error(), tc.wantErr, tc.name)
	}
}

func TestMatchService_Schedule_ValidatesParticipants(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo := l.teams[0], l.teams[1]

	_, err := w.schedule(l, alpha, alpha, "2026-03-07 10:00", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Teams must be different")

	other := w.createSport("Netball", 2, 0)
	courtB := w.createVenue("Court B", other.ID)
	_, err = w.schedule(l, alpha, bravo, "2026-03-07 10:00", courtB.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Selected venue is not suitable for this sport")

	shared := w.createVenue("Shared Hall", "")
	_, err = w.schedule(l, alpha, bravo, "2026-03-07 10:00", shared.ID)
	require.NoError(t, err)
}

func TestMatchService_Schedule_RequiresTwoApprovedTeams(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Autumn Cup", "2026-03-02", "2026-03-20", "2026-03-21", "2026-03-28")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alpha := w.approvedTeam(w.manager("alice"), e, sp, "Alpha")
	pending, err := w.register(w.manager("bob"), e, sp, "Bravo")
	require.NoError(t, err)

	_, err = w.matches.Schedule(t.Context(), w.admin, ScheduleMatchInput{
		EventID:   e.ID,
		SportID:   sp.ID,
		Team1ID:   alpha.ID,
		Team2ID:   pending.ID,
		MatchDate: "2026-03-22 10:00",
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "At least 2 teams required in this sport to schedule a match")

	w.approvedTeam(w.manager("carol"), e, sp, "Charlie")
	_, err = w.matches.Schedule(t.Context(), w.admin, ScheduleMatchInput{
		EventID:   e.ID,
		SportID:   sp.ID,
		Team1ID:   alpha.ID,
		Team2ID:   pending.ID,
		MatchDate: "2026-03-22 10:00",
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Both teams must be approved")
}

func TestMatchService_Reschedule(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	m, err := w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)
	_, err = w.schedule(l, charlie, bravo, "2026-03-08 10:00", "")
	require.NoError(t, err)

	completed := string(match.StatusCompleted)
	_, err = w.matches.Reschedule(t.Context(), w.admin, m.ID, RescheduleMatchInput{Status: &completed})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Matches are completed by submitting a score")

	clash := "2026-03-08 11:00"
	_, err = w.matches.Reschedule(t.Context(), w.admin, m.ID, RescheduleMatchInput{MatchDate: &clash})
	require.ErrorIs(t, err, ErrConflict)

	later := "2026-03-09 15:30"
	noVenue := ""
	moved, err := w.matches.Reschedule(t.Context(), w.admin, m.ID, RescheduleMatchInput{MatchDate: &later, VenueID: &noVenue})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 9, 15, 30, 0, 0, time.UTC), moved.MatchDate)
	assert.Empty(t, moved.VenueID)
	assert.Len(t, w.notifier.byKind(notification.KindMatchRescheduled), 2)

	details, err := w.matches.Get(t.Context(), m.ID)
	require.NoError(t, err)
	require.Len(t, details.History, 2)
	assert.Equal(t, audit.ActionRescheduled, details.History[1].Action)
	assert.Equal(t, "2026-03-07 10:00", details.History[1].OldValue)
	assert.Equal(t, "2026-03-09 15:30", details.History[1].NewValue)

	w.now = time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 1, 0)
	require.NoError(t, err)
	_, err = w.matches.Reschedule(t.Context(), w.admin, m.ID, RescheduleMatchInput{MatchDate: &later})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Cannot modify completed matches")
}

func TestMatchService_CancelFreesTheSlot(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo := l.teams[0], l.teams[1]

	m, err := w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	cancelled, err := w.matches.Cancel(t.Context(), w.admin, m.ID, "")
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, cancelled.Status)
	assert.Equal(t, "No show", cancelled.CancelReason)
	assert.Len(t, w.notifier.byKind(notification.KindMatchCancelled), 2)

	_, err = w.matches.Cancel(t.Context(), w.admin, m.ID, "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)
}

func TestMatchService_Reschedule_RestoringCancelledMatchRequiresApprovedTeams(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	withAlpha, err := w.schedule(l, alpha, bravo, "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)
	withoutAlpha, err := w.schedule(l, bravo, charlie, "2026-03-08 10:00", l.venue.ID)
	require.NoError(t, err)

	_, cancelled, err := w.teams.Disqualify(t.Context(), w.admin, alpha.ID, "")
	require.NoError(t, err)
	require.Equal(t, 1, cancelled)

	scheduled := string(match.StatusScheduled)
	_, err = w.matches.Reschedule(t.Context(), w.admin, withAlpha.ID, RescheduleMatchInput{Status: &scheduled})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Both teams must be approved")

	live := string(match.StatusLive)
	_, err = w.matches.Reschedule(t.Context(), w.admin, withAlpha.ID, RescheduleMatchInput{Status: &live})
	require.ErrorIs(t, err, ErrConflict)

	got, err := w.matches.Get(t.Context(), withAlpha.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, got.Match.Status)

	_, err = w.matches.Cancel(t.Context(), w.admin, withoutAlpha.ID, "")
	require.NoError(t, err)
	restored, err := w.matches.Reschedule(t.Context(), w.admin, withoutAlpha.ID, RescheduleMatchInput{Status: &scheduled})
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, restored.Status)
}

func TestMatchService_Delete(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	future, err := w.schedule(l, alpha, bravo, "2026-03-08 10:00", "")
	require.NoError(t, err)
	past, err := w.schedule(l, alpha, charlie, "2026-03-06 10:00", "")
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 13, 0, 0, 0, time.UTC)
	require.NoError(t, w.matches.Delete(t.Context(), future.ID))
	_, err = w.matches.Get(t.Context(), future.ID)
	require.ErrorIs(t, err, ErrNotFound)
	history, err := w.store.Audit().ListMatch(t.Context(), future.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionCreated, history[0].Action)

	err = w.matches.Delete(t.Context(), past.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Cannot delete past matches")

	_, err = w.standings.SubmitScore(t.Context(), w.admin, past.ID, 2, 2)
	require.NoError(t, err)
	err = w.matches.Delete(t.Context(), past.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Cannot delete completed match")
}

func TestMatchService_ListAndMine(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	_, err := w.schedule(l, bravo, charlie, "2026-03-09 10:00", "")
	require.NoError(t, err)
	_, err = w.schedule(l, alpha, bravo, "2026-03-07 10:00", "")
	require.NoError(t, err)

	all, err := w.matches.List(t.Context(), MatchListInput{EventID: l.event.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].MatchDate.Before(all[1].MatchDate))

	day, err := w.matches.List(t.Context(), MatchListInput{From: "2026-03-09", To: "2026-03-09"})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Bravo", day[0].Team1Name)

	_, err = w.matches.List(t.Context(), MatchListInput{Status: "postponed"})
	require.ErrorIs(t, err, ErrInvalidInput)

	mine, err := w.matches.Mine(t.Context(), w.manager("nobody"))
	require.NoError(t, err)
	assert.Empty(t, mine)

	alphaManager := w.principalFor(alpha.ManagerID)
	mine, err = w.matches.Mine(t.Context(), alphaManager)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alpha.ID, mine[0].Team1ID)
}
