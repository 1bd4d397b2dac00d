package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
)

type teamRepository struct {
	s *Store
}

func (r teamRepository) Create(ctx context.Context, t team.Team) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.teams[t.ID]; ok {
			return fmt.Errorf("create team %s: %w", t.ID, store.ErrDuplicate)
		}
		if isBlocking(t.Status) {
			if _, ok := findBlocking(d, t.Key(), ""); ok {
				return fmt.Errorf("create team %s: %w", t.ID, store.ErrDuplicate)
			}
		}
		d.teams[t.ID] = stripTeamJoins(t)
		return nil
	})
}

func (r teamRepository) Update(ctx context.Context, t team.Team) error {
	return r.s.write(ctx, func(d *state) error {
		current, ok := d.teams[t.ID]
		if !ok {
			return fmt.Errorf("team %s not found", t.ID)
		}
		t.CreatedAt = current.CreatedAt
		d.teams[t.ID] = stripTeamJoins(t)
		return nil
	})
}

func (r teamRepository) UpdateStatus(ctx context.Context, id string, status team.Status, reason string) error {
	return r.s.write(ctx, func(d *state) error {
		t, ok := d.teams[id]
		if !ok {
			return fmt.Errorf("team %s not found", id)
		}
		t.Status = status
		t.StatusReason = reason
		t.UpdatedAt = time.Now().UTC()
		d.teams[id] = t
		return nil
	})
}

// Delete removes the team with its roster, history, standings row and any
// match it was drawn into.
func (r teamRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *state) error {
		deleteTeam(d, id)
		return nil
	})
}

func (r teamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	var (
		out team.Team
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.teams[id]
		if ok {
			out = decorateTeam(d, out)
		}
	})
	return out, ok, nil
}

func (r teamRepository) GetForUpdate(ctx context.Context, id string) (team.Team, bool, error) {
	return r.GetByID(ctx, id)
}

func (r teamRepository) List(ctx context.Context, filter team.Filter) ([]team.Team, error) {
	var out []team.Team
	r.s.read(ctx, func(d *state) {
		out = make([]team.Team, 0)
		for _, t := range d.teams {
			if filter.Matches(t) {
				out = append(out, decorateTeam(d, t))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r teamRepository) FindBlocking(ctx context.Context, key team.Key) (team.Team, bool, error) {
	var (
		out team.Team
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = findBlocking(d, key, "")
		if ok {
			out = decorateTeam(d, out)
		}
	})
	return out, ok, nil
}

func (r teamRepository) Count(ctx context.Context, filter team.Filter) (int, error) {
	count := 0
	r.s.read(ctx, func(d *state) {
		for _, t := range d.teams {
			if filter.Matches(t) {
				count++
			}
		}
	})
	return count, nil
}

func (r teamRepository) ListManagerIDs(ctx context.Context, filter team.Filter) ([]string, error) {
	seen := make(map[string]struct{})
	r.s.read(ctx, func(d *state) {
		for _, t := range d.teams {
			if filter.Matches(t) {
				seen[t.ManagerID] = struct{}{}
			}
		}
	})
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r teamRepository) ReplacePlayers(ctx context.Context, teamID string, players []team.Player) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.teams[teamID]; !ok {
			return fmt.Errorf("team %s not found", teamID)
		}
		roster := make([]team.Player, 0, len(players))
		for _, p := range players {
			p.TeamID = teamID
			roster = append(roster, p)
		}
		d.players[teamID] = roster
		return nil
	})
}

func (r teamRepository) ListPlayers(ctx context.Context, teamID string) ([]team.Player, error) {
	var out []team.Player
	r.s.read(ctx, func(d *state) {
		out = append([]team.Player(nil), d.players[teamID]...)
	})
	return out, nil
}

func isBlocking(status team.Status) bool {
	for _, s := range team.BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func findBlocking(d *state, key team.Key, exceptID string) (team.Team, bool) {
	for id, t := range d.teams {
		if id == exceptID || t.Key() != key {
			continue
		}
		if isBlocking(t.Status) {
			return t, true
		}
	}
	return team.Team{}, false
}

func stripTeamJoins(t team.Team) team.Team {
	t.ManagerUsername = ""
	t.ManagerEmail = ""
	t.SportName = ""
	t.EventName = ""
	return t
}

func decorateTeam(d *state, t team.Team) team.Team {
	if u, ok := d.users[t.ManagerID]; ok {
		t.ManagerUsername = u.Username
		t.ManagerEmail = u.Email
	}
	if sp, ok := d.sports[t.SportID]; ok {
		t.SportName = sp.Name
	}
	if e, ok := d.events[t.EventID]; ok {
		t.EventName = e.Name
	}
	return t
}

func deleteTeam(d *state, id string) {
	t, ok := d.teams[id]
	if !ok {
		return
	}
	for matchID, m := range d.matches {
		if m.Involves(id) && m.Status != match.StatusCompleted {
			deleteMatch(d, matchID)
		}
	}
	delete(d.standings, standingKey{eventID: t.EventID, sportID: t.SportID, teamID: id})
	delete(d.players, id)
	delete(d.teams, id)
}
