package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
)

type venueRepository struct {
	s *Store
}

func (r venueRepository) Create(ctx context.Context, v venue.Venue) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.venues[v.ID]; ok {
			return fmt.Errorf("create venue %s: %w", v.ID, store.ErrDuplicate)
		}
		if v.SportID != "" {
			if _, ok := d.sports[v.SportID]; !ok {
				return fmt.Errorf("sport %s not found", v.SportID)
			}
		}
		v.SportName = ""
		d.venues[v.ID] = v
		return nil
	})
}

func (r venueRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *state) error {
		delete(d.venues, id)
		return nil
	})
}

func (r venueRepository) GetByID(ctx context.Context, id string) (venue.Venue, bool, error) {
	var (
		out venue.Venue
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.venues[id]
		if ok {
			out = decorateVenue(d, out)
		}
	})
	return out, ok, nil
}

func (r venueRepository) GetForUpdate(ctx context.Context, id string) (venue.Venue, bool, error) {
	return r.GetByID(ctx, id)
}

func (r venueRepository) List(ctx context.Context, sportID string) ([]venue.Venue, error) {
	var out []venue.Venue
	r.s.read(ctx, func(d *state) {
		out = make([]venue.Venue, 0, len(d.venues))
		for _, v := range d.venues {
			if sportID != "" && !v.Serves(sportID) {
				continue
			}
			out = append(out, decorateVenue(d, v))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func decorateVenue(d *state, v venue.Venue) venue.Venue {
	if sp, ok := d.sports[v.SportID]; ok {
		v.SportName = sp.Name
	}
	return v
}
