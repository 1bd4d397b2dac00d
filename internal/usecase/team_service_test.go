package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type blobStoreMock struct {
	mock.Mock
}

func (m *blobStoreMock) Save(ctx context.Context, category string, upload Upload) (string, error) {
	args := m.Called(ctx, category, upload)
	return args.String(0), args.Error(1)
}

func (m *blobStoreMock) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func TestTeamService_Register_CreatesPendingTeamAndNotifies(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice := w.manager("alice")

	registered, err := w.register(alice, e, sp, "  Alpha  ")
	require.NoError(t, err)
	assert.Equal(t, team.StatusPending, registered.Status)
	assert.Equal(t, "Alpha", registered.Name)

	players, err := w.teams.Players(t.Context(), registered.ID)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	details, err := w.teams.Details(t.Context(), registered.ID)
	require.NoError(t, err)
	require.Len(t, details.History, 1)
	assert.Equal(t, audit.ActionCreated, details.History[0].Action)
	assert.Equal(t, "alice", details.Team.ManagerUsername)

	sent := w.notifier.byKind(notification.KindRegistrationReceived)
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
}

func TestTeamService_Register_BlockingMessagesDependOnExistingStatus(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice := w.manager("alice")

	first, err := w.register(alice, e, sp, "Alpha")
	require.NoError(t, err)

	_, err = w.register(alice, e, sp, "Alpha Two")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "pending registration")

	_, err = w.teams.Approve(t.Context(), w.admin, first.ID)
	require.NoError(t, err)
	_, err = w.register(alice, e, sp, "Alpha Two")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already have an approved team")

	_, _, err = w.teams.Disqualify(t.Context(), w.admin, first.ID, "")
	require.NoError(t, err)
	_, err = w.register(alice, e, sp, "Alpha Two")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "previous team was disqualified")
}

func TestTeamService_Register_AllowedAfterRejection(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice := w.manager("alice")

	first, err := w.register(alice, e, sp, "Alpha")
	require.NoError(t, err)
	rejected, err := w.teams.Reject(t.Context(), w.admin, first.ID, "Incomplete roster")
	require.NoError(t, err)
	assert.Equal(t, team.StatusRejected, rejected.Status)

	_, err = w.register(alice, e, sp, "Alpha Again")
	require.NoError(t, err)
}

func TestTeamService_Register_RespectsRegistrationWindow(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-03", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice := w.manager("alice")

	_, err := w.register(alice, e, sp, "Alpha")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Registrations not yet open")

	w.now = time.Date(2026, time.March, 5, 23, 59, 0, 0, time.UTC)
	_, err = w.register(alice, e, sp, "Alpha")
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 0, 0, 1, 0, time.UTC)
	_, err = w.register(w.manager("bob"), e, sp, "Bravo")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Registration deadline passed")
}

func TestTeamService_Register_RejectsManualClose(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	_, err := w.events.CloseRegistrations(t.Context(), e.ID)
	require.NoError(t, err)

	_, err = w.register(w.manager("alice"), e, sp, "Alpha")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Registrations closed")
}

func TestTeamService_Register_ReportsEveryRosterViolation(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)

	_, err := w.teams.Register(t.Context(), w.manager("alice"), RegisterTeamInput{
		EventID: e.ID,
		SportID: sp.ID,
		Name:    "Alpha",
		Players: []PlayerInput{
			{Name: "Neo", JerseyNo: "7", Type: "main"},
			{Name: "Trinity 2", JerseyNo: "7", Type: "main"},
			{Name: "Morpheus", JerseyNo: "9", Type: "main"},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	var rosterErr *team.RosterError
	require.True(t, errors.As(err, &rosterErr))
	assert.Contains(t, rosterErr.Violations, "Exactly 2 main players required, got 3")
	assert.Contains(t, rosterErr.Violations, "Duplicate jersey numbers: 7")
	assert.Contains(t, rosterErr.Violations, "Invalid player name: Trinity 2")
}

func TestTeamService_Register_RequiresLinkedSport(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)

	_, err := w.register(w.manager("alice"), e, sp, "Alpha")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "is not offered in")
}

func TestTeamService_Register_PaymentProofAndUploadCleanup(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	blobs := &blobStoreMock{}
	w.teams.blobs = blobs

	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Cricket Sixes", 2, 500)
	w.link(e, sp)
	alice := w.manager("alice")

	_, err := w.register(alice, e, sp, "Alpha")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Payment screenshot required. Registration fee: Rs.500")

	blobs.On("Save", mock.Anything, blobCategoryLogo, mock.Anything).Return("/uploads/logo/a.png", nil).Once()
	blobs.On("Save", mock.Anything, blobCategoryPayment, mock.Anything).Return("/uploads/payment/b.png", nil).Once()
	blobs.On("Remove", mock.Anything, "/uploads/logo/a.png").Return(nil).Once()
	blobs.On("Remove", mock.Anything, "/uploads/payment/b.png").Return(nil).Once()

	_, err = w.teams.Register(t.Context(), alice, RegisterTeamInput{
		EventID:      e.ID,
		SportID:      sp.ID,
		Name:         "A",
		Players:      roster(2),
		Logo:         &Upload{Filename: "logo.png", Content: strings.NewReader("png")},
		PaymentProof: &Upload{Filename: "pay.png", Content: strings.NewReader("png")},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Team name must be between 3 and 50 characters")
	blobs.AssertExpectations(t)

	blobs.On("Save", mock.Anything, blobCategoryLogo, mock.Anything).Return("/uploads/logo/c.png", nil).Once()
	blobs.On("Save", mock.Anything, blobCategoryPayment, mock.Anything).Return("/uploads/payment/d.png", nil).Once()
	registered, err := w.teams.Register(t.Context(), alice, RegisterTeamInput{
		EventID:      e.ID,
		SportID:      sp.ID,
		Name:         "Alpha",
		Players:      roster(2),
		Logo:         &Upload{Filename: "logo.png", Content: strings.NewReader("png")},
		PaymentProof: &Upload{Filename: "pay.png", Content: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo/c.png", registered.LogoURL)
	assert.Equal(t, "/uploads/payment/d.png", registered.PaymentProofURL)
	blobs.AssertExpectations(t)
}

func TestTeamService_Approve_OnlyFromPending(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	approved := w.approvedTeam(w.manager("alice"), e, sp, "Alpha")

	row, ok, err := w.store.Standings().Get(t.Context(), e.ID, sp.ID, approved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, row.Points)

	_, err = w.teams.Approve(t.Context(), w.admin, approved.ID)
	require.ErrorIs(t, err, ErrConflict)
	_, err = w.teams.Reject(t.Context(), w.admin, approved.ID, "")
	require.ErrorIs(t, err, ErrConflict)

	assert.Len(t, w.notifier.byKind(notification.KindTeamApproved), 1)
}

func TestTeamService_Disqualify_ResetsPointsAndCancelsFutureMatches(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha, bravo, charlie := l.teams[0], l.teams[1], l.teams[2]

	played, err := w.schedule(l, alpha, bravo, "2026-03-06 10:00", l.venue.ID)
	require.NoError(t, err)
	upcoming, err := w.schedule(l, alpha, charlie, "2026-03-08 10:00", l.venue.ID)
	require.NoError(t, err)
	other, err := w.schedule(l, bravo, charlie, "2026-03-09 10:00", l.venue.ID)
	require.NoError(t, err)

	w.now = time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)
	_, err = w.standings.SubmitScore(t.Context(), w.admin, played.ID, 3, 1)
	require.NoError(t, err)

	disqualified, cancelled, err := w.teams.Disqualify(t.Context(), w.admin, alpha.ID, "")
	require.NoError(t, err)
	assert.Equal(t, team.StatusDisqualified, disqualified.Status)
	assert.Equal(t, "Disqualified by admin", disqualified.StatusReason)
	assert.Equal(t, 1, cancelled)

	row, _, err := w.store.Standings().Get(t.Context(), l.event.ID, l.sport.ID, alpha.ID)
	require.NoError(t, err)
	assert.Zero(t, row.Points)
	assert.Zero(t, row.Wins)
	assert.Equal(t, 1, row.MatchesPlayed)
	assert.Equal(t, 3, row.GoalsFor)
	assert.True(t, row.Disqualified)

	got, err := w.matches.Get(t.Context(), upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, got.Match.Status)
	got, err = w.matches.Get(t.Context(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusScheduled, got.Match.Status)
	got, err = w.matches.Get(t.Context(), played.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, got.Match.Status)

	table, err := w.standings.Table(t.Context(), l.event.ID, l.sport.ID)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, alpha.ID, table[2].TeamID)

	_, _, err = w.teams.Disqualify(t.Context(), w.admin, alpha.ID, "")
	require.ErrorIs(t, err, ErrConflict)
}

func TestTeamService_Update_EnforcesOwnershipAndStatus(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice, bob := w.manager("alice"), w.manager("bob")

	registered, err := w.register(alice, e, sp, "Alpha")
	require.NoError(t, err)

	name := "Alpha Prime"
	_, err = w.teams.Update(t.Context(), bob, registered.ID, UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, ErrForbidden)

	updated, err := w.teams.Update(t.Context(), alice, registered.ID, UpdateTeamInput{Name: &name, Players: roster(2)})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Prime", updated.Name)

	_, err = w.teams.Approve(t.Context(), w.admin, registered.ID)
	require.NoError(t, err)
	_, err = w.teams.Update(t.Context(), alice, registered.ID, UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, ErrConflict)

	_, err = w.teams.Update(t.Context(), w.admin, registered.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
}

func TestTeamService_Delete_CascadesOpenMatches(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	m, err := w.schedule(l, l.teams[0], l.teams[1], "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	require.NoError(t, w.teams.Delete(t.Context(), w.admin, l.teams[0].ID))

	_, err = w.matches.Get(t.Context(), m.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, ok, err := w.store.Standings().Get(t.Context(), l.event.ID, l.sport.ID, l.teams[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeamService_Delete_KeepsAuditHistory(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	l := w.activeLeague()
	alpha := l.teams[0]
	m, err := w.schedule(l, alpha, l.teams[1], "2026-03-07 10:00", l.venue.ID)
	require.NoError(t, err)

	teamBefore, err := w.store.Audit().ListTeam(t.Context(), alpha.ID)
	require.NoError(t, err)
	require.NotEmpty(t, teamBefore)
	matchBefore, err := w.store.Audit().ListMatch(t.Context(), m.ID)
	require.NoError(t, err)
	require.NotEmpty(t, matchBefore)

	require.NoError(t, w.teams.Delete(t.Context(), w.admin, alpha.ID))

	teamAfter, err := w.store.Audit().ListTeam(t.Context(), alpha.ID)
	require.NoError(t, err)
	assert.Len(t, teamAfter, len(teamBefore))
	matchAfter, err := w.store.Audit().ListMatch(t.Context(), m.ID)
	require.NoError(t, err)
	assert.Len(t, matchAfter, len(matchBefore))
}

func TestTeamService_SearchAndLists(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	alice := w.manager("alice")
	w.approvedTeam(alice, e, sp, "Thunder Hawks")
	_, err := w.register(w.manager("bob"), e, sp, "Thunder Bolts")
	require.NoError(t, err)

	found, err := w.teams.Search(t.Context(), "thunder", "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Thunder Hawks", found[0].Name)

	pending, err := w.teams.Pending(t.Context())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Thunder Bolts", pending[0].Name)

	mine, err := w.teams.Mine(t.Context(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
