package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/platform/cache"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

const sportCachePrefix = "sports:"

type CreateSportInput struct {
	Name            string
	Format          string
	TeamSize        int
	MaxSubstitutes  int
	RegistrationFee int
	Status          string
}

// SportDetails is a sport with its approved teams, matches and table in the
// active event.
type SportDetails struct {
	Sport       sport.Sport
	ActiveEvent *event.Event
	Teams       []team.Team
	Matches     []match.Match
	Leaderboard []standing.Row
}

type SportService struct {
	store  store.Store
	cache  *cache.Store
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

// NewSportService builds the sport catalog service. A nil cache disables caching.
func NewSportService(st store.Store, cacheStore *cache.Store, idGen idgen.Generator, logger *logging.Logger) *SportService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SportService{
		store:  st,
		cache:  cacheStore,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SportService) List(ctx context.Context) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.List")
	defer span.End()

	sports, err := cache.Load(ctx, s.cache, sportCachePrefix+"list", func(ctx context.Context) ([]sport.Sport, error) {
		return s.store.Sports().List(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	out := append([]sport.Sport(nil), sports...)
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (s *SportService) Get(ctx context.Context, id string) (sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return sport.Sport{}, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}

	type lookup struct {
		sport  sport.Sport
		exists bool
	}
	found, err := cache.Load(ctx, s.cache, sportCachePrefix+"id:"+id, func(ctx context.Context) (lookup, error) {
		sp, exists, err := s.store.Sports().GetByID(ctx, id)
		return lookup{sport: sp, exists: exists}, err
	})
	if err != nil {
		return sport.Sport{}, fmt.Errorf("get sport: %w", err)
	}
	if !found.exists {
		return sport.Sport{}, fmt.Errorf("%w: Sport not found", ErrNotFound)
	}
	return found.sport, nil
}

func (s *SportService) Details(ctx context.Context, id string) (SportDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.Details")
	defer span.End()

	sp, err := s.Get(ctx, id)
	if err != nil {
		return SportDetails{}, err
	}
	details := SportDetails{Sport: sp}

	active, err := s.store.Events().ListByStatus(ctx, event.StatusActive)
	if err != nil {
		return SportDetails{}, fmt.Errorf("list active events: %w", err)
	}
	if len(active) == 0 {
		return details, nil
	}
	current := active[0]
	details.ActiveEvent = &current

	details.Teams, err = s.store.Teams().List(ctx, team.Filter{
		EventID:  current.ID,
		SportID:  sp.ID,
		Statuses: []team.Status{team.StatusApproved},
	})
	if err != nil {
		return SportDetails{}, fmt.Errorf("list teams: %w", err)
	}
	details.Matches, err = s.store.Matches().List(ctx, match.Filter{EventID: current.ID, SportID: sp.ID})
	if err != nil {
		return SportDetails{}, fmt.Errorf("list matches: %w", err)
	}
	details.Leaderboard, err = s.store.Standings().List(ctx, standing.Filter{EventID: current.ID, SportID: sp.ID})
	if err != nil {
		return SportDetails{}, fmt.Errorf("list standings: %w", err)
	}
	standing.Sort(details.Leaderboard)
	return details, nil
}

func (s *SportService) Create(ctx context.Context, input CreateSportInput) (sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.Create")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" || input.TeamSize == 0 {
		return sport.Sport{}, fmt.Errorf("%w: Sport name and team size required", ErrInvalidInput)
	}

	status := sport.Status(strings.TrimSpace(input.Status))
	if status == "" {
		status = sport.StatusActive
	}
	if status != sport.StatusActive && status != sport.StatusInactive {
		return sport.Sport{}, fmt.Errorf("%w: invalid sport status %q", ErrInvalidInput, status)
	}

	format := sport.Format(strings.TrimSpace(input.Format))
	if format == "" {
		if spec, ok := sport.FormatByLabel(name); ok {
			format = spec.Format
		} else {
			format = sport.FormatGeneric
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return sport.Sport{}, fmt.Errorf("generate sport id: %w", err)
	}
	created := sport.Sport{
		ID:              id,
		Name:            name,
		Format:          format,
		TeamSize:        input.TeamSize,
		MaxSubstitutes:  input.MaxSubstitutes,
		RegistrationFee: input.RegistrationFee,
		Status:          status,
		CreatedAt:       s.now().UTC(),
	}
	if err := created.Validate(); err != nil {
		return sport.Sport{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, exists, err := tx.Sports().GetByName(ctx, name)
		if err != nil {
			return fmt.Errorf("get sport by name: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: Sport with this name already exists", ErrConflict)
		}
		if err := tx.Sports().Create(ctx, created); err != nil {
			return fmt.Errorf("create sport: %w", err)
		}
		return nil
	})
	if err != nil {
		return sport.Sport{}, err
	}

	s.invalidate(ctx)
	return created, nil
}

// Delete removes a sport and its event links. Sports with approved teams or
// any match history stay.
func (s *SportService) Delete(ctx context.Context, id string) (sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.Delete")
	defer span.End()

	var deleted sport.Sport
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		sp, exists, err := tx.Sports().GetByID(ctx, strings.TrimSpace(id))
		if err != nil {
			return fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Sport not found", ErrNotFound)
		}

		approved, err := tx.Teams().Count(ctx, team.Filter{SportID: sp.ID, Statuses: []team.Status{team.StatusApproved}})
		if err != nil {
			return fmt.Errorf("count approved teams: %w", err)
		}
		if approved > 0 {
			return fmt.Errorf("%w: Cannot delete sport. %d approved team%s registered.", ErrConflict, approved, plural(approved, "s"))
		}
		matches, err := tx.Matches().Count(ctx, match.Filter{SportID: sp.ID})
		if err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		if matches > 0 {
			return fmt.Errorf("%w: Cannot delete sport. %d match%s recorded.", ErrConflict, matches, plural(matches, "es"))
		}

		if err := tx.Sports().Delete(ctx, sp.ID); err != nil {
			return fmt.Errorf("delete sport: %w", err)
		}
		deleted = sp
		return nil
	})
	if err != nil {
		return sport.Sport{}, err
	}

	s.invalidate(ctx)
	return deleted, nil
}

// Positions resolves the position vocabulary by sport name, format key or
// format label. Unknown names yield an empty list.
func (s *SportService) Positions(ctx context.Context, nameOrFormat string) ([]sport.Position, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.Positions")
	defer span.End()

	key := strings.TrimSpace(nameOrFormat)
	if spec, ok := sport.LookupFormat(sport.Format(key)); ok && key != "" {
		return spec.Positions, nil
	}
	if spec, ok := sport.FormatByLabel(key); ok {
		return spec.Positions, nil
	}

	sp, exists, err := s.store.Sports().GetByName(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get sport by name: %w", err)
	}
	if !exists {
		return []sport.Position{}, nil
	}
	positions := sp.Rules().Positions.Positions
	if positions == nil {
		positions = []sport.Position{}
	}
	return positions, nil
}

func (s *SportService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, sportCachePrefix)
}

func plural(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
