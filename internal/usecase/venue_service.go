package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
)

type CreateVenueInput struct {
	Name     string
	Location string
	Capacity int
	SportID  string
}

type VenueService struct {
	store store.Store
	idGen idgen.Generator
	now   func() time.Time
}

func NewVenueService(st store.Store, idGen idgen.Generator) *VenueService {
	return &VenueService{
		store: st,
		idGen: idGen,
		now:   time.Now,
	}
}

// List returns every venue, or the venues usable for sportID.
func (s *VenueService) List(ctx context.Context, sportID string) ([]venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.List")
	defer span.End()

	venues, err := s.store.Venues().List(ctx, strings.TrimSpace(sportID))
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

func (s *VenueService) Create(ctx context.Context, input CreateVenueInput) (venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.Create")
	defer span.End()

	if strings.TrimSpace(input.Name) == "" {
		return venue.Venue{}, fmt.Errorf("%w: Venue name required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return venue.Venue{}, fmt.Errorf("generate venue id: %w", err)
	}
	created := venue.Venue{
		ID:        id,
		Name:      strings.TrimSpace(input.Name),
		Location:  strings.TrimSpace(input.Location),
		Capacity:  input.Capacity,
		SportID:   strings.TrimSpace(input.SportID),
		CreatedAt: s.now().UTC(),
	}
	if err := created.Validate(); err != nil {
		return venue.Venue{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	if created.SportID != "" {
		sp, exists, err := s.store.Sports().GetByID(ctx, created.SportID)
		if err != nil {
			return venue.Venue{}, fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return venue.Venue{}, fmt.Errorf("%w: Sport not found", ErrInvalidInput)
		}
		created.SportName = sp.Name
	}

	if err := s.store.Venues().Create(ctx, created); err != nil {
		return venue.Venue{}, fmt.Errorf("create venue: %w", err)
	}
	return created, nil
}

// Delete removes a venue that no match has ever referenced.
func (s *VenueService) Delete(ctx context.Context, id string) (venue.Venue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.Delete")
	defer span.End()

	var deleted venue.Venue
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		v, exists, err := tx.Venues().GetForUpdate(ctx, strings.TrimSpace(id))
		if err != nil {
			return fmt.Errorf("get venue: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Venue not found", ErrNotFound)
		}

		matches, err := tx.Matches().Count(ctx, match.Filter{VenueID: v.ID})
		if err != nil {
			return fmt.Errorf("count venue matches: %w", err)
		}
		if matches > 0 {
			return fmt.Errorf("%w: Cannot delete venue %q. It has %d match%s scheduled or played there.",
				ErrConflict, v.Name, matches, plural(matches, "es"))
		}

		if err := tx.Venues().Delete(ctx, v.ID); err != nil {
			return fmt.Errorf("delete venue: %w", err)
		}
		deleted = v
		return nil
	})
	if err != nil {
		return venue.Venue{}, err
	}
	return deleted, nil
}
