package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
)

type standingKey struct {
	eventID string
	sportID string
	teamID  string
}

// state is one consistent snapshot of every table.
type state struct {
	users        map[string]user.User
	events       map[string]event.Event
	eventSports  map[string]map[string]struct{}
	sports       map[string]sport.Sport
	venues       map[string]venue.Venue
	teams        map[string]team.Team
	players      map[string][]team.Player
	matches      map[string]match.Match
	scores       map[string]match.Score
	standings    map[standingKey]standing.Row
	teamHistory  []audit.Entry
	matchHistory []audit.Entry
}

func newState() *state {
	return &state{
		users:       make(map[string]user.User),
		events:      make(map[string]event.Event),
		eventSports: make(map[string]map[string]struct{}),
		sports:      make(map[string]sport.Sport),
		venues:      make(map[string]venue.Venue),
		teams:       make(map[string]team.Team),
		players:     make(map[string][]team.Player),
		matches:     make(map[string]match.Match),
		scores:      make(map[string]match.Score),
		standings:   make(map[standingKey]standing.Row),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.events {
		out.events[k] = v
	}
	for k, links := range s.eventSports {
		copied := make(map[string]struct{}, len(links))
		for id := range links {
			copied[id] = struct{}{}
		}
		out.eventSports[k] = copied
	}
	for k, v := range s.sports {
		out.sports[k] = v
	}
	for k, v := range s.venues {
		out.venues[k] = v
	}
	for k, v := range s.teams {
		out.teams[k] = v
	}
	for k, v := range s.players {
		out.players[k] = append([]team.Player(nil), v...)
	}
	for k, v := range s.matches {
		out.matches[k] = v
	}
	for k, v := range s.scores {
		out.scores[k] = v
	}
	for k, v := range s.standings {
		out.standings[k] = v
	}
	out.teamHistory = append([]audit.Entry(nil), s.teamHistory...)
	out.matchHistory = append([]audit.Entry(nil), s.matchHistory...)
	return out
}

// Store keeps every table in process memory. Transactions are serialized
// and work on a copy that replaces the live state only on commit, so a
// failed transaction leaves no trace.
type Store struct {
	mu   sync.RWMutex
	data *state
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

type txState struct {
	owner *Store
	data  *state
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	if current, ok := ctx.Value(txKey{}).(*txState); ok && current.owner == s {
		return fn(ctx, view{s: s})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.data.clone()
	txCtx := context.WithValue(ctx, txKey{}, &txState{owner: s, data: draft})
	if err := fn(txCtx, view{s: s}); err != nil {
		return err
	}
	s.data = draft
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// read runs fn against the transaction snapshot carried by ctx, or against
// the live state under a read lock.
func (s *Store) read(ctx context.Context, fn func(d *state)) {
	if current, ok := ctx.Value(txKey{}).(*txState); ok && current.owner == s {
		fn(current.data)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write runs fn against the transaction snapshot carried by ctx, or against
// the live state under the write lock.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if current, ok := ctx.Value(txKey{}).(*txState); ok && current.owner == s {
		return fn(current.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) Events() event.Repository       { return eventRepository{s: s} }
func (s *Store) Sports() sport.Repository       { return sportRepository{s: s} }
func (s *Store) Venues() venue.Repository       { return venueRepository{s: s} }
func (s *Store) Teams() team.Repository         { return teamRepository{s: s} }
func (s *Store) Matches() match.Repository      { return matchRepository{s: s} }
func (s *Store) Standings() standing.Repository { return standingRepository{s: s} }
func (s *Store) Audit() audit.Repository        { return auditRepository{s: s} }
func (s *Store) Users() user.Repository         { return userRepository{s: s} }

// view is the store.Tx handed to transaction callbacks. Its repositories
// resolve the transaction snapshot through the callback context.
type view struct {
	s *Store
}

func (v view) Events() event.Repository       { return v.s.Events() }
func (v view) Sports() sport.Repository       { return v.s.Sports() }
func (v view) Venues() venue.Repository       { return v.s.Venues() }
func (v view) Teams() team.Repository         { return v.s.Teams() }
func (v view) Matches() match.Repository      { return v.s.Matches() }
func (v view) Standings() standing.Repository { return v.s.Standings() }
func (v view) Audit() audit.Repository        { return v.s.Audit() }
func (v view) Users() user.Repository         { return v.s.Users() }
