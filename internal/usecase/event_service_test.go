package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_Create_DefaultsAndRegistrationStatus(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")

	assert.Equal(t, event.StatusPlanned, e.Status)
	assert.Equal(t, event.RegistrationOpen, e.RegistrationStatus)
	assert.Equal(t, "TBD", e.Location)

	later := w.createEvent("Summer Cup", "2026-04-01", "2026-04-05", "2026-04-10", "2026-04-12")
	assert.Equal(t, event.RegistrationNotStarted, later.RegistrationStatus)
}

func TestEventService_Create_RejectsInvalidDates(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	_, err := w.events.Create(t.Context(), CreateEventInput{
		Name:              "Backwards",
		StartDate:         "2026-03-10",
		EndDate:           "2026-03-08",
		RegistrationStart: "2026-03-01",
		RegistrationEnd:   "2026-03-12",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Registration start date cannot be in the past")
	assert.Contains(t, err.Error(), "Registration must close on or before event starts")
	assert.Contains(t, err.Error(), "Event end date cannot be before start date")
}

func TestEventService_Create_RejectsOverlapAcrossSpans(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")

	// Registration of the new event runs into the first event's playing days.
	_, err := w.events.Create(t.Context(), CreateEventInput{
		Name:              "Clash Cup",
		StartDate:         "2026-03-20",
		EndDate:           "2026-03-22",
		RegistrationStart: "2026-03-15",
		RegistrationEnd:   "2026-03-18",
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), `Date conflict with "Spring Cup"`)

	_, err = w.events.Create(t.Context(), CreateEventInput{
		Name:              "Next Cup",
		StartDate:         "2026-03-20",
		EndDate:           "2026-03-22",
		RegistrationStart: "2026-03-16",
		RegistrationEnd:   "2026-03-18",
	})
	require.NoError(t, err)
}

func TestEventService_List_OrdersByLifecycle(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	w.now = time.Date(2026, time.March, 6, 9, 0, 0, 0, time.UTC)
	planned := w.createEvent("Autumn Cup", "2026-09-01", "2026-09-05", "2026-09-10", "2026-09-12")
	winter := w.createEvent("Winter Cup", "2026-11-01", "2026-11-05", "2026-11-10", "2026-11-12")

	events, err := w.events.List(t.Context())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, l.event.ID, events[0].ID)
	assert.Equal(t, winter.ID, events[1].ID)
	assert.Equal(t, planned.ID, events[2].ID)
}

func TestEventService_Refresh_NeverReopensManualClose(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")

	closed, err := w.events.CloseRegistrations(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, event.RegistrationClosed, closed.RegistrationStatus)

	got, err := w.events.Get(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, event.RegistrationClosed, got.RegistrationStatus)
}

func TestEventService_Refresh_MovesForwardOnRead(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Summer Cup", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-15")
	require.Equal(t, event.RegistrationNotStarted, e.RegistrationStatus)

	w.now = time.Date(2026, time.March, 4, 0, 30, 0, 0, time.UTC)
	got, err := w.events.Get(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, event.RegistrationOpen, got.RegistrationStatus)

	// Still open through the last second of the closing day.
	w.now = time.Date(2026, time.March, 5, 23, 59, 59, 0, time.UTC)
	got, err = w.events.Get(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, event.RegistrationOpen, got.RegistrationStatus)

	w.now = time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	changed, err := w.events.RefreshRegistrationStatuses(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
}

func TestEventService_CloseRegistrations_BlockedByPendingTeams(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	_, err := w.register(w.manager("alice"), e, sp, "Alpha")
	require.NoError(t, err)

	_, err = w.events.CloseRegistrations(t.Context(), e.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "1 team registration is still pending")
}

func TestEventService_Activate_RequiresClosedRegistrations(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")

	_, err := w.events.Activate(t.Context(), e.ID, false)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Registrations must be closed before activating event")
}

func TestEventService_Activate_RequiresNoPendingTeams(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	_, err := w.register(w.manager("alice"), e, sp, "Alpha")
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 7, 0, 0, 0, time.UTC)
	_, err = w.events.Activate(t.Context(), e.ID, false)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "1 team registrations still pending approval")
}

func TestEventService_Activate_ForceCancelsPreviousEventMatches(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	next := w.createEvent("Next Cup", "2026-03-16", "2026-03-18", "2026-03-20", "2026-03-25")
	w.now = time.Date(2026, time.March, 19, 9, 0, 0, 0, time.UTC)

	_, err = w.events.Activate(t.Context(), next.ID, false)
	var forceErr *ForceRequiredError
	require.True(t, errors.As(err, &forceErr), "expected ForceRequiredError, got %v", err)
	assert.Equal(t, "Spring Cup", forceErr.ActiveEventName)
	assert.Equal(t, 1, forceErr.PendingMatches)
	require.ErrorIs(t, err, ErrConflict)

	result, err := w.events.Activate(t.Context(), next.ID, true)
	require.NoError(t, err)
	assert.Equal(t, event.StatusActive, result.Event.Status)
	require.NotNil(t, result.CompletedEvent)
	assert.Equal(t, l.event.ID, result.CompletedEvent.ID)
	assert.Equal(t, 1, result.CancelledMatches)

	cancelled, err := w.matches.Get(t.Context(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, cancelled.Match.Status)

	previous, err := w.events.Get(t.Context(), l.event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.StatusCompleted, previous.Status)

	active, err := w.store.Events().ListByStatus(t.Context(), event.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestEventService_Activate_WithoutOpenMatchesCompletesPrevious(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	next := w.createEvent("Next Cup", "2026-03-16", "2026-03-18", "2026-03-20", "2026-03-25")
	w.now = time.Date(2026, time.March, 19, 9, 0, 0, 0, time.UTC)

	result, err := w.events.Activate(t.Context(), next.ID, false)
	require.NoError(t, err)
	require.NotNil(t, result.CompletedEvent)
	assert.Equal(t, l.event.ID, result.CompletedEvent.ID)
	assert.Zero(t, result.CancelledMatches)
}

func TestEventService_Reopen_RefusedWhileAnotherEventIsActive(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	_, err := w.events.Complete(t.Context(), l.event.ID)
	require.NoError(t, err)

	next := w.createEvent("Next Cup", "2026-03-16", "2026-03-18", "2026-03-20", "2026-03-25")
	w.now = time.Date(2026, time.March, 19, 9, 0, 0, 0, time.UTC)
	_, err = w.events.Activate(t.Context(), next.ID, false)
	require.NoError(t, err)

	_, err = w.events.Reopen(t.Context(), l.event.ID)
	require.ErrorIs(t, err, ErrConflict)

	_, err = w.events.Complete(t.Context(), next.ID)
	require.NoError(t, err)
	reopened, err := w.events.Reopen(t.Context(), l.event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.StatusActive, reopened.Status)
}

func TestEventService_Update_CompletedEventIsImmutable(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	_, err := w.events.Complete(t.Context(), l.event.ID)
	require.NoError(t, err)

	name := "Renamed"
	_, err = w.events.Update(t.Context(), l.event.ID, UpdateEventInput{Name: &name})
	require.ErrorIs(t, err, ErrConflict)
}

func TestEventService_Update_EventDatesRevalidated(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")

	start, end := "2026-03-03", "2026-03-01"
	_, err := w.events.Update(t.Context(), e.ID, UpdateEventInput{StartDate: &start, EndDate: &end})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Registration must close on or before event starts")
	assert.Contains(t, err.Error(), "Event end date cannot be before start date")

	onlyEnd := "2026-03-04"
	_, err = w.events.Update(t.Context(), e.ID, UpdateEventInput{EndDate: &onlyEnd})
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := w.events.Get(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-06", event.FormatDate(stored.StartDate))
	assert.Equal(t, "2026-03-15", event.FormatDate(stored.EndDate))

	later := "2026-03-20"
	moved, err := w.events.Update(t.Context(), e.ID, UpdateEventInput{EndDate: &later})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-20", event.FormatDate(moved.EndDate))
}

func TestEventService_Delete_BlockedByCompletedMatches(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 1, 0)
	require.NoError(t, err)

	err = w.events.Delete(t.Context(), l.event.ID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestEventService_Details_ReportsWinnerOfCompletedEvent(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)
	w.now = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, m.ID, 0, 2)
	require.NoError(t, err)
	_, err = w.events.Complete(t.Context(), l.event.ID)
	require.NoError(t, err)

	details, err := w.events.Details(t.Context(), l.event.ID)
	require.NoError(t, err)
	require.Len(t, details.Sports, 1)
	assert.Equal(t, 3, details.ApprovedTeams)
	assert.Equal(t, 1, details.Matches)
	require.NotNil(t, details.Sports[0].Winner)
	assert.Equal(t, l.teams[1].ID, details.Sports[0].Winner.TeamID)
}
