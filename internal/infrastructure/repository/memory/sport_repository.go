package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
)

type sportRepository struct {
	s *Store
}

func (r sportRepository) Create(ctx context.Context, sp sport.Sport) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.sports[sp.ID]; ok {
			return fmt.Errorf("create sport %s: %w", sp.ID, store.ErrDuplicate)
		}
		for _, existing := range d.sports {
			if strings.EqualFold(existing.Name, sp.Name) {
				return fmt.Errorf("create sport %q: %w", sp.Name, store.ErrDuplicate)
			}
		}
		d.sports[sp.ID] = sp
		return nil
	})
}

// Delete removes the sport, its event links and its remaining teams. Venues
// dedicated to the sport become general venues.
func (r sportRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *state) error {
		for teamID, t := range d.teams {
			if t.SportID == id {
				deleteTeam(d, teamID)
			}
		}
		for key := range d.standings {
			if key.sportID == id {
				delete(d.standings, key)
			}
		}
		for venueID, v := range d.venues {
			if v.SportID == id {
				v.SportID = ""
				d.venues[venueID] = v
			}
		}
		for _, links := range d.eventSports {
			delete(links, id)
		}
		delete(d.sports, id)
		return nil
	})
}

func (r sportRepository) GetByID(ctx context.Context, id string) (sport.Sport, bool, error) {
	var (
		out sport.Sport
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.sports[id]
	})
	return out, ok, nil
}

func (r sportRepository) GetByName(ctx context.Context, name string) (sport.Sport, bool, error) {
	name = strings.TrimSpace(name)
	var (
		out sport.Sport
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		for _, sp := range d.sports {
			if strings.EqualFold(sp.Name, name) {
				out, ok = sp, true
				return
			}
		}
	})
	return out, ok, nil
}

func (r sportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	var out []sport.Sport
	r.s.read(ctx, func(d *state) {
		out = make([]sport.Sport, 0, len(d.sports))
		for _, sp := range d.sports {
			out = append(out, sp)
		}
	})
	sortSports(out)
	return out, nil
}

func (r sportRepository) ListByIDs(ctx context.Context, ids []string) ([]sport.Sport, error) {
	var out []sport.Sport
	r.s.read(ctx, func(d *state) {
		out = make([]sport.Sport, 0, len(ids))
		for _, id := range ids {
			if sp, ok := d.sports[id]; ok {
				out = append(out, sp)
			}
		}
	})
	sortSports(out)
	return out, nil
}

func sortSports(items []sport.Sport) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
