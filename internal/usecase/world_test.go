package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) byKind(kind notification.Kind) []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []notification.Message
	for _, msg := range n.messages {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}

// testWorld wires every service to one memory store and one movable clock.
type testWorld struct {
	t        *testing.T
	store    *memory.Store
	now      time.Time
	notifier *recordingNotifier

	events    *EventService
	sports    *SportService
	venues    *VenueService
	teams     *TeamService
	matches   *MatchService
	standings *StandingsService

	admin user.Principal
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	w := &testWorld{
		t:        t,
		store:    memory.NewStore(),
		now:      time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}
	clock := func() time.Time { return w.now }
	calendar := event.NewCalendar(time.UTC)
	ids := idgen.NewSequence("id")
	logger := logging.NewNop()

	w.events = NewEventService(w.store, calendar, ids, w.notifier, logger)
	w.events.now = clock
	w.sports = NewSportService(w.store, nil, ids, logger)
	w.sports.now = clock
	w.venues = NewVenueService(w.store, ids)
	w.teams = NewTeamService(w.store, calendar, nil, ids, w.notifier, logger)
	w.teams.now = clock
	w.matches = NewMatchService(w.store, calendar, ids, w.notifier, logger)
	w.matches.now = clock
	w.standings = NewStandingsService(w.store, ids, logger)
	w.standings.now = clock

	w.admin = w.addUser("admin", user.RoleAdmin)
	return w
}

func (w *testWorld) addUser(username string, role user.Role) user.Principal {
	w.t.Helper()

	u := user.User{
		ID:           "user-" + username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    w.now,
		UpdatedAt:    w.now,
	}
	require.NoError(w.t, w.store.Users().Create(w.t.Context(), u))
	return user.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (w *testWorld) manager(username string) user.Principal {
	return w.addUser(username, user.RoleManager)
}

func (w *testWorld) principalFor(userID string) user.Principal {
	w.t.Helper()

	u, ok, err := w.store.Users().GetByID(w.t.Context(), userID)
	require.NoError(w.t, err)
	require.True(w.t, ok)
	return user.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (w *testWorld) createEvent(name, regStart, regEnd, start, end string) event.Event {
	w.t.Helper()

	e, err := w.events.Create(w.t.Context(), CreateEventInput{
		Name:              name,
		StartDate:         start,
		EndDate:           end,
		RegistrationStart: regStart,
		RegistrationEnd:   regEnd,
	})
	require.NoError(w.t, err)
	return e
}

// createSport adds a generic sport with the given main roster size.
func (w *testWorld) createSport(name string, teamSize, fee int) sport.Sport {
	w.t.Helper()

	sp, err := w.sports.Create(w.t.Context(), CreateSportInput{
		Name:            name,
		Format:          string(sport.FormatGeneric),
		TeamSize:        teamSize,
		MaxSubstitutes:  1,
		RegistrationFee: fee,
	})
	require.NoError(w.t, err)
	return sp
}

func (w *testWorld) link(e event.Event, sp sport.Sport) {
	w.t.Helper()
	require.NoError(w.t, w.events.LinkSport(w.t.Context(), e.ID, sp.ID))
}

func (w *testWorld) createVenue(name, sportID string) venue.Venue {
	w.t.Helper()

	v, err := w.venues.Create(w.t.Context(), CreateVenueInput{Name: name, Location: "Campus", Capacity: 100, SportID: sportID})
	require.NoError(w.t, err)
	return v
}

func roster(size int) []PlayerInput {
	players := make([]PlayerInput, 0, size)
	for i := 0; i < size; i++ {
		players = append(players, PlayerInput{
			Name:     "Player " + string(rune('A'+i)),
			JerseyNo: fmt.Sprintf("%d", i+1),
			Type:     string(team.PlayerMain),
		})
	}
	return players
}

func (w *testWorld) register(manager user.Principal, e event.Event, sp sport.Sport, name string) (team.Team, error) {
	return w.teams.Register(w.t.Context(), manager, RegisterTeamInput{
		EventID: e.ID,
		SportID: sp.ID,
		Name:    name,
		Players: roster(sp.TeamSize),
	})
}

func (w *testWorld) approvedTeam(manager user.Principal, e event.Event, sp sport.Sport, name string) team.Team {
	w.t.Helper()

	t, err := w.register(manager, e, sp, name)
	require.NoError(w.t, err)
	approved, err := w.teams.Approve(w.t.Context(), w.admin, t.ID)
	require.NoError(w.t, err)
	return approved
}

// league is an active event with one sport, one venue and three approved teams.
type league struct {
	event event.Event
	sport sport.Sport
	venue venue.Venue
	teams []team.Team
}

func (w *testWorld) activeLeague() league {
	w.t.Helper()

	e := w.createEvent("Spring Cup", "2026-03-02", "2026-03-05", "2026-03-06", "2026-03-15")
	sp := w.createSport("Futsal", 2, 0)
	w.link(e, sp)
	v := w.createVenue("Main Court", sp.ID)

	l := league{event: e, sport: sp, venue: v}
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		l.teams = append(l.teams, w.approvedTeam(w.manager("mgr"+name), e, sp, name))
	}

	w.now = time.Date(2026, time.March, 6, 7, 0, 0, 0, time.UTC)
	activated, err := w.events.Activate(w.t.Context(), e.ID, false)
	require.NoError(w.t, err)
	l.event = activated.Event
	return l
}

func (w *testWorld) schedule(l league, team1, team2 team.Team, at string, venueID string) (match.Match, error) {
	return w.matches.Schedule(w.t.Context(), w.admin, ScheduleMatchInput{
		EventID:   l.event.ID,
		SportID:   l.sport.ID,
		Team1ID:   team1.ID,
		Team2ID:   team2.ID,
		VenueID:   venueID,
		MatchDate: at,
	})
}
