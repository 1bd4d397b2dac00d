package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

// CreateEventInput carries calendar fields as YYYY-MM-DD strings.
type CreateEventInput struct {
	Name              string
	Description       string
	Location          string
	StartDate         string
	EndDate           string
	RegistrationStart string
	RegistrationEnd   string
}

// UpdateEventInput changes only the non-nil fields.
type UpdateEventInput struct {
	Name              *string
	Description       *string
	Location          *string
	StartDate         *string
	EndDate           *string
	RegistrationStart *string
	RegistrationEnd   *string
}

type ActivationResult struct {
	Event            event.Event
	CompletedEvent   *event.Event
	CancelledMatches int
}

type ReopenRegistrationsResult struct {
	Event            event.Event
	NotifiedManagers int
}

// SportSummary is one sport's slice of an event overview.
type SportSummary struct {
	Sport         sport.Sport
	ApprovedTeams int
	Matches       int
	Winner        *standing.Row
}

type EventDetails struct {
	Event         event.Event
	Sports        []SportSummary
	ApprovedTeams int
	Matches       int
}

type EventService struct {
	store    store.Store
	calendar event.Calendar
	idGen    idgen.Generator
	notifier Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewEventService(
	st store.Store,
	calendar event.Calendar,
	idGen idgen.Generator,
	notifier Notifier,
	logger *logging.Logger,
) *EventService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EventService{
		store:    st,
		calendar: calendar,
		idGen:    idGen,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		now:      time.Now,
	}
}

// List returns every event with refreshed registration status, active first.
func (s *EventService) List(ctx context.Context) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.List")
	defer span.End()

	events, err := s.store.Events().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for i := range events {
		events[i], err = s.refresh(ctx, s.store.Events(), events[i])
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		ri, rj := event.SortRank(events[i].Status), event.SortRank(events[j].Status)
		if ri != rj {
			return ri < rj
		}
		return events[i].StartDate.After(events[j].StartDate)
	})
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Get")
	defer span.End()

	e, err := s.load(ctx, s.store.Events(), id, false)
	if err != nil {
		return event.Event{}, err
	}
	return s.refresh(ctx, s.store.Events(), e)
}

// Current returns the active event, or else the earliest event whose
// registrations are open.
func (s *EventService) Current(ctx context.Context) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Current")
	defer span.End()

	active, err := s.store.Events().ListByStatus(ctx, event.StatusActive)
	if err != nil {
		return event.Event{}, fmt.Errorf("list active events: %w", err)
	}
	if len(active) > 0 {
		return active[0], nil
	}

	open, err := s.store.Events().ListByStatus(ctx, event.StatusRegistrationOpen)
	if err != nil {
		return event.Event{}, fmt.Errorf("list registration open events: %w", err)
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].StartDate.Before(open[j].StartDate) })
	for _, e := range open {
		e, err = s.refresh(ctx, s.store.Events(), e)
		if err != nil {
			return event.Event{}, err
		}
		if e.RegistrationStatus == event.RegistrationOpen {
			return e, nil
		}
	}
	return event.Event{}, fmt.Errorf("%w: no active event", ErrNotFound)
}

// Details returns the event with its linked sports, per-sport counts and,
// for completed events, the table leader of each sport.
func (s *EventService) Details(ctx context.Context, id string) (EventDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Details")
	defer span.End()

	e, err := s.Get(ctx, id)
	if err != nil {
		return EventDetails{}, err
	}

	sportIDs, err := s.store.Events().ListSportIDs(ctx, e.ID)
	if err != nil {
		return EventDetails{}, fmt.Errorf("list event sports: %w", err)
	}
	sports, err := s.store.Sports().ListByIDs(ctx, sportIDs)
	if err != nil {
		return EventDetails{}, fmt.Errorf("list sports: %w", err)
	}

	details := EventDetails{Event: e, Sports: make([]SportSummary, 0, len(sports))}
	for _, sp := range sports {
		summary := SportSummary{Sport: sp}
		summary.ApprovedTeams, err = s.store.Teams().Count(ctx, team.Filter{
			EventID:  e.ID,
			SportID:  sp.ID,
			Statuses: []team.Status{team.StatusApproved},
		})
		if err != nil {
			return EventDetails{}, fmt.Errorf("count approved teams: %w", err)
		}
		summary.Matches, err = s.store.Matches().Count(ctx, match.Filter{EventID: e.ID, SportID: sp.ID})
		if err != nil {
			return EventDetails{}, fmt.Errorf("count matches: %w", err)
		}
		if e.IsCompleted() {
			rows, err := s.store.Standings().List(ctx, standing.Filter{EventID: e.ID, SportID: sp.ID})
			if err != nil {
				return EventDetails{}, fmt.Errorf("list standings: %w", err)
			}
			standing.Sort(rows)
			if len(rows) > 0 && !rows[0].Disqualified {
				winner := rows[0]
				summary.Winner = &winner
			}
		}
		details.ApprovedTeams += summary.ApprovedTeams
		details.Matches += summary.Matches
		details.Sports = append(details.Sports, summary)
	}
	return details, nil
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Create")
	defer span.End()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.StartDate) == "" || strings.TrimSpace(input.EndDate) == "" {
		return event.Event{}, fmt.Errorf("%w: Event name, start date, and end date are required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.RegistrationStart) == "" || strings.TrimSpace(input.RegistrationEnd) == "" {
		return event.Event{}, fmt.Errorf("%w: Registration start and end dates are required", ErrInvalidInput)
	}

	dates, err := s.parseDates(input.StartDate, input.EndDate, input.RegistrationStart, input.RegistrationEnd)
	if err != nil {
		return event.Event{}, err
	}

	now := s.now()
	if err := s.calendar.ValidateDates(now, dates, true); err != nil {
		return event.Event{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = "TBD"
	}
	created := event.Event{
		ID:                 id,
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		Location:           location,
		StartDate:          dates.Start,
		EndDate:            dates.End,
		RegistrationStart:  dates.RegistrationStart,
		RegistrationEnd:    dates.RegistrationEnd,
		Status:             event.StatusPlanned,
		RegistrationStatus: s.calendar.RegistrationStatus(now, dates.RegistrationStart, dates.RegistrationEnd),
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}
	if err := created.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.Events().LockCalendar(ctx); err != nil {
			return fmt.Errorf("lock event calendar: %w", err)
		}
		if err := s.checkOverlap(ctx, tx, created, "Cannot create event."); err != nil {
			return err
		}
		if err := tx.Events().Create(ctx, created); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}

	s.logger.InfoContext(ctx, "event created", "event_id", created.ID, "registration_status", created.RegistrationStatus)
	return created, nil
}

func (s *EventService) Update(ctx context.Context, id string, input UpdateEventInput) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Update")
	defer span.End()

	var updated event.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.Events().LockCalendar(ctx); err != nil {
			return fmt.Errorf("lock event calendar: %w", err)
		}
		current, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if current.IsCompleted() {
			return fmt.Errorf("%w: Cannot modify completed event", ErrConflict)
		}

		updated = current
		if input.Name != nil {
			if name := strings.TrimSpace(*input.Name); name != "" {
				updated.Name = name
			}
		}
		if input.Description != nil {
			updated.Description = strings.TrimSpace(*input.Description)
		}
		if input.Location != nil {
			updated.Location = strings.TrimSpace(*input.Location)
		}

		datesChanged := false
		regChanged := false
		for _, field := range []struct {
			raw    *string
			target *time.Time
			reg    bool
		}{
			{input.StartDate, &updated.StartDate, false},
			{input.EndDate, &updated.EndDate, false},
			{input.RegistrationStart, &updated.RegistrationStart, true},
			{input.RegistrationEnd, &updated.RegistrationEnd, true},
		} {
			if field.raw == nil || strings.TrimSpace(*field.raw) == "" {
				continue
			}
			parsed, err := s.calendar.ParseDate(*field.raw)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
			}
			*field.target = parsed
			datesChanged = true
			regChanged = regChanged || field.reg
		}

		now := s.now()
		if datesChanged {
			startMoved := !s.calendar.Day(updated.RegistrationStart).Equal(s.calendar.Day(current.RegistrationStart))
			if err := s.calendar.ValidateDates(now, updated.Dates(), startMoved); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
			}
			if regChanged {
				updated.RegistrationStatus = s.calendar.RegistrationStatus(now, updated.RegistrationStart, updated.RegistrationEnd)
			}
			if err := s.checkOverlap(ctx, tx, updated, "Cannot update event."); err != nil {
				return err
			}
		}
		if err := updated.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		updated.UpdatedAt = now.UTC()
		if err := tx.Events().Update(ctx, updated); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Delete")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		completed, err := tx.Matches().Count(ctx, match.Filter{
			EventID:  e.ID,
			Statuses: []match.Status{match.StatusCompleted},
		})
		if err != nil {
			return fmt.Errorf("count completed matches: %w", err)
		}
		if completed > 0 {
			return fmt.Errorf("%w: Cannot delete event with completed matches", ErrConflict)
		}
		if err := tx.Events().Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

func (s *EventService) OpenRegistrations(ctx context.Context, id string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.OpenRegistrations")
	defer span.End()

	var opened event.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.Events().LockCalendar(ctx); err != nil {
			return fmt.Errorf("lock event calendar: %w", err)
		}
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		switch e.Status {
		case event.StatusRegistrationOpen:
			return fmt.Errorf("%w: Registrations are already open for this event", ErrConflict)
		case event.StatusActive, event.StatusCompleted:
			return fmt.Errorf("%w: Cannot open registrations for %s event", ErrConflict, e.Status)
		}
		if e.RegistrationStart.IsZero() || e.RegistrationEnd.IsZero() {
			return fmt.Errorf("%w: Please set registration dates before opening registrations", ErrInvalidInput)
		}
		if err := s.checkRegistrationOverlap(ctx, tx, e, "Cannot open registrations. Registration period"); err != nil {
			return err
		}

		switch s.calendar.RegistrationStatus(s.now(), e.RegistrationStart, e.RegistrationEnd) {
		case event.RegistrationNotStarted:
			return fmt.Errorf("%w: Registrations cannot be opened yet. They will automatically open on %s",
				ErrConflict, event.FormatDate(e.RegistrationStart))
		case event.RegistrationClosed:
			return fmt.Errorf("%w: Registration period has ended on %s. Use \"Reopen Registrations\" to set new dates.",
				ErrConflict, event.FormatDate(e.RegistrationEnd))
		}

		if err := tx.Events().UpdateStatus(ctx, e.ID, event.StatusRegistrationOpen, event.RegistrationOpen); err != nil {
			return fmt.Errorf("open registrations: %w", err)
		}
		opened = e
		opened.Status = event.StatusRegistrationOpen
		opened.RegistrationStatus = event.RegistrationOpen
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}

	s.notifyRegistrationsOpened(ctx, opened, "Registrations Open!")
	return opened, nil
}

func (s *EventService) CloseRegistrations(ctx context.Context, id string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.CloseRegistrations")
	defer span.End()

	var closed event.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if e.Status == event.StatusActive || e.Status == event.StatusCompleted {
			return fmt.Errorf("%w: Cannot close registrations for %s event", ErrConflict, e.Status)
		}
		if e.RegistrationStatus == event.RegistrationClosed {
			return fmt.Errorf("%w: Registrations are already closed", ErrConflict)
		}

		pending, err := tx.Teams().Count(ctx, team.Filter{EventID: e.ID, Statuses: []team.Status{team.StatusPending}})
		if err != nil {
			return fmt.Errorf("count pending teams: %w", err)
		}
		if pending > 0 {
			return fmt.Errorf("%w: Cannot close registrations. %s still pending. Please approve or reject them first.",
				ErrConflict, pluralRegistrations(pending))
		}

		if err := tx.Events().UpdateRegistrationStatus(ctx, e.ID, event.RegistrationClosed); err != nil {
			return fmt.Errorf("close registrations: %w", err)
		}
		closed = e
		closed.RegistrationStatus = event.RegistrationClosed
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	return closed, nil
}

// ReopenRegistrations sets a new registration window before the event
// starts and notifies managers with approved or pending teams.
func (s *EventService) ReopenRegistrations(ctx context.Context, id, regStart, regEnd string) (ReopenRegistrationsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ReopenRegistrations")
	defer span.End()

	if strings.TrimSpace(regStart) == "" || strings.TrimSpace(regEnd) == "" {
		return ReopenRegistrationsResult{}, fmt.Errorf("%w: Registration dates required", ErrInvalidInput)
	}
	start, err := s.calendar.ParseDate(regStart)
	if err != nil {
		return ReopenRegistrationsResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	end, err := s.calendar.ParseDate(regEnd)
	if err != nil {
		return ReopenRegistrationsResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	var (
		reopened   event.Event
		managerIDs []string
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.Events().LockCalendar(ctx); err != nil {
			return fmt.Errorf("lock event calendar: %w", err)
		}
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if e.Status == event.StatusCompleted {
			return fmt.Errorf("%w: Cannot reopen registrations for completed event", ErrConflict)
		}
		if e.Status == event.StatusActive {
			return fmt.Errorf("%w: Cannot reopen registrations for active event", ErrConflict)
		}

		now := s.now()
		if !s.calendar.Today(now).Before(s.calendar.Day(e.StartDate)) {
			return fmt.Errorf("%w: Cannot reopen registrations after event has started", ErrConflict)
		}

		e.RegistrationStart = start
		e.RegistrationEnd = end
		if err := s.calendar.ValidateDates(now, e.Dates(), true); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		if err := s.checkRegistrationOverlap(ctx, tx, e, "Cannot reopen registrations. Period"); err != nil {
			return err
		}

		e.Status = event.StatusRegistrationOpen
		e.RegistrationStatus = s.calendar.RegistrationStatus(now, start, end)
		e.UpdatedAt = now.UTC()
		if err := tx.Events().Update(ctx, e); err != nil {
			return fmt.Errorf("reopen registrations: %w", err)
		}

		managerIDs, err = tx.Teams().ListManagerIDs(ctx, team.Filter{
			EventID:  e.ID,
			Statuses: []team.Status{team.StatusApproved, team.StatusPending},
		})
		if err != nil {
			return fmt.Errorf("list managers: %w", err)
		}
		reopened = e
		return nil
	})
	if err != nil {
		return ReopenRegistrationsResult{}, err
	}

	notified := notifyUsers(ctx, s.store.Users(), s.notifier, s.logger, managerIDs, func(u user.User) notification.Message {
		return notification.Message{
			Kind:    notification.KindRegistrationsOpened,
			Subject: "Registrations Reopened!",
			Body: greeting(u) + fmt.Sprintf(
				"Team registrations have been reopened for %s.\nOpens: %s\nCloses: %s\n",
				reopened.Name, event.FormatDate(reopened.RegistrationStart), event.FormatDate(reopened.RegistrationEnd),
			),
		}
	})
	return ReopenRegistrationsResult{Event: reopened, NotifiedManagers: notified}, nil
}

// Activate makes the event the single active event. A currently active event
// is completed in the same transaction; its scheduled or live matches are
// cancelled only when force is set.
func (s *EventService) Activate(ctx context.Context, id string, force bool) (ActivationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Activate")
	defer span.End()

	var result ActivationResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		active, err := tx.Events().LockActive(ctx)
		if err != nil {
			return fmt.Errorf("lock active events: %w", err)
		}
		target, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if target.Status == event.StatusActive {
			return fmt.Errorf("%w: Event is already active", ErrConflict)
		}
		if target.Status == event.StatusCompleted {
			return fmt.Errorf("%w: Completed events cannot be activated. Use reopen instead.", ErrConflict)
		}
		target, err = s.refresh(ctx, tx.Events(), target)
		if err != nil {
			return err
		}
		if target.RegistrationStatus != event.RegistrationClosed {
			return fmt.Errorf("%w: Registrations must be closed before activating event", ErrConflict)
		}

		pending, err := tx.Teams().Count(ctx, team.Filter{EventID: target.ID, Statuses: []team.Status{team.StatusPending}})
		if err != nil {
			return fmt.Errorf("count pending teams: %w", err)
		}
		if pending > 0 {
			return fmt.Errorf("%w: Cannot activate: %d team registrations still pending approval", ErrConflict, pending)
		}

		for _, current := range active {
			if current.ID == target.ID {
				continue
			}
			filter := match.Filter{EventID: current.ID, Statuses: match.OccupyingStatuses}
			open, err := tx.Matches().Count(ctx, filter)
			if err != nil {
				return fmt.Errorf("count pending matches: %w", err)
			}
			if open > 0 {
				if !force {
					return &ForceRequiredError{ActiveEventName: current.Name, PendingMatches: open}
				}
				cancelled, err := tx.Matches().Cancel(ctx, filter, fmt.Sprintf("Event %q completed on activation of %q", current.Name, target.Name))
				if err != nil {
					return fmt.Errorf("cancel pending matches: %w", err)
				}
				result.CancelledMatches += len(cancelled)
			}
			if err := tx.Events().UpdateStatus(ctx, current.ID, event.StatusCompleted, current.RegistrationStatus); err != nil {
				return fmt.Errorf("complete previous event: %w", err)
			}
			completed := current
			completed.Status = event.StatusCompleted
			result.CompletedEvent = &completed
		}

		if err := tx.Events().UpdateStatus(ctx, target.ID, event.StatusActive, target.RegistrationStatus); err != nil {
			return fmt.Errorf("activate event: %w", err)
		}
		target.Status = event.StatusActive
		result.Event = target
		return nil
	})
	if err != nil {
		return ActivationResult{}, err
	}

	s.logger.InfoContext(ctx, "event activated",
		"event_id", result.Event.ID,
		"cancelled_matches", result.CancelledMatches,
	)
	return result, nil
}

func (s *EventService) Complete(ctx context.Context, id string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Complete")
	defer span.End()

	return s.transition(ctx, id, event.StatusActive, event.StatusCompleted, "Only active events can be marked as completed")
}

// Reopen moves a completed event back to active. It refuses while another
// event is active.
func (s *EventService) Reopen(ctx context.Context, id string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Reopen")
	defer span.End()

	var reopened event.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		active, err := tx.Events().LockActive(ctx)
		if err != nil {
			return fmt.Errorf("lock active events: %w", err)
		}
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if e.Status != event.StatusCompleted {
			return fmt.Errorf("%w: Only completed events can be reopened", ErrConflict)
		}
		if len(active) > 0 {
			return fmt.Errorf("%w: Cannot reopen while %q is active", ErrConflict, active[0].Name)
		}
		if err := tx.Events().UpdateStatus(ctx, e.ID, event.StatusActive, e.RegistrationStatus); err != nil {
			return fmt.Errorf("reopen event: %w", err)
		}
		reopened = e
		reopened.Status = event.StatusActive
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	return reopened, nil
}

func (s *EventService) LinkSport(ctx context.Context, eventID, sportID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.LinkSport")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		e, err := s.load(ctx, tx.Events(), eventID, true)
		if err != nil {
			return err
		}
		if e.IsCompleted() {
			return fmt.Errorf("%w: Cannot modify completed event", ErrConflict)
		}
		if _, exists, err := tx.Sports().GetByID(ctx, strings.TrimSpace(sportID)); err != nil {
			return fmt.Errorf("get sport: %w", err)
		} else if !exists {
			return fmt.Errorf("%w: Sport not found", ErrNotFound)
		}
		linked, err := tx.Events().HasSport(ctx, e.ID, sportID)
		if err != nil {
			return fmt.Errorf("check event sport: %w", err)
		}
		if linked {
			return fmt.Errorf("%w: Sport already added to this event", ErrConflict)
		}
		if err := tx.Events().LinkSport(ctx, e.ID, sportID); err != nil {
			return fmt.Errorf("link sport: %w", err)
		}
		return nil
	})
}

func (s *EventService) UnlinkSport(ctx context.Context, eventID, sportID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UnlinkSport")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		e, err := s.load(ctx, tx.Events(), eventID, true)
		if err != nil {
			return err
		}
		linked, err := tx.Events().HasSport(ctx, e.ID, sportID)
		if err != nil {
			return fmt.Errorf("check event sport: %w", err)
		}
		if !linked {
			return fmt.Errorf("%w: Sport is not part of this event", ErrNotFound)
		}
		approved, err := tx.Teams().Count(ctx, team.Filter{
			EventID:  e.ID,
			SportID:  sportID,
			Statuses: []team.Status{team.StatusApproved},
		})
		if err != nil {
			return fmt.Errorf("count approved teams: %w", err)
		}
		if approved > 0 {
			return fmt.Errorf("%w: Cannot remove sport. %d approved team(s) registered for it in this event.", ErrConflict, approved)
		}
		if err := tx.Events().UnlinkSport(ctx, e.ID, sportID); err != nil {
			return fmt.Errorf("unlink sport: %w", err)
		}
		return nil
	})
}

func (s *EventService) ListSports(ctx context.Context, eventID string) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListSports")
	defer span.End()

	e, err := s.load(ctx, s.store.Events(), eventID, false)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.Events().ListSportIDs(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("list event sports: %w", err)
	}
	sports, err := s.store.Sports().ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return sports, nil
}

// RefreshRegistrationStatuses recalculates every non-completed event and
// returns how many rows changed.
func (s *EventService) RefreshRegistrationStatuses(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RefreshRegistrationStatuses")
	defer span.End()

	events, err := s.store.Events().ListByStatus(ctx, event.StatusPlanned, event.StatusRegistrationOpen)
	if err != nil {
		return 0, fmt.Errorf("list events: %w", err)
	}
	changed := 0
	for _, e := range events {
		refreshed, err := s.refresh(ctx, s.store.Events(), e)
		if err != nil {
			return changed, err
		}
		if refreshed.RegistrationStatus != e.RegistrationStatus {
			changed++
		}
	}
	return changed, nil
}

// refresh persists the calculated registration status when it has moved
// forward. A manual close is never undone by the calendar.
func (s *EventService) refresh(ctx context.Context, repo event.Repository, e event.Event) (event.Event, error) {
	if e.RegistrationStart.IsZero() || e.RegistrationEnd.IsZero() {
		return e, nil
	}
	if e.Status == event.StatusActive || e.Status == event.StatusCompleted {
		return e, nil
	}
	calculated := s.calendar.RegistrationStatus(s.now(), e.RegistrationStart, e.RegistrationEnd)
	if registrationRank(calculated) <= registrationRank(e.RegistrationStatus) {
		return e, nil
	}
	if err := repo.UpdateRegistrationStatus(ctx, e.ID, calculated); err != nil {
		return e, fmt.Errorf("update registration status: %w", err)
	}
	s.logger.DebugContext(ctx, "registration status recalculated",
		"event_id", e.ID,
		"from", e.RegistrationStatus,
		"to", calculated,
	)
	e.RegistrationStatus = calculated
	return e, nil
}

func (s *EventService) transition(ctx context.Context, id string, from, to event.Status, message string) (event.Event, error) {
	var out event.Event
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		e, err := s.load(ctx, tx.Events(), id, true)
		if err != nil {
			return err
		}
		if e.Status != from {
			return fmt.Errorf("%w: %s", ErrConflict, message)
		}
		if err := tx.Events().UpdateStatus(ctx, e.ID, to, e.RegistrationStatus); err != nil {
			return fmt.Errorf("update event status: %w", err)
		}
		out = e
		out.Status = to
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	return out, nil
}

func (s *EventService) load(ctx context.Context, repo event.Repository, id string, lock bool) (event.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return event.Event{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	var (
		e      event.Event
		exists bool
		err    error
	)
	if lock {
		e, exists, err = repo.GetForUpdate(ctx, id)
	} else {
		e, exists, err = repo.GetByID(ctx, id)
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return event.Event{}, fmt.Errorf("%w: Event not found", ErrNotFound)
	}
	return e, nil
}

func (s *EventService) parseDates(start, end, regStart, regEnd string) (event.Dates, error) {
	var (
		d   event.Dates
		err error
	)
	for _, field := range []struct {
		raw    string
		target *time.Time
	}{
		{start, &d.Start},
		{end, &d.End},
		{regStart, &d.RegistrationStart},
		{regEnd, &d.RegistrationEnd},
	} {
		*field.target, err = s.calendar.ParseDate(field.raw)
		if err != nil {
			return event.Dates{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
	}
	return d, nil
}

// checkOverlap rejects e when any of its spans meets any span of another
// non-completed event. Callers hold the calendar lock.
func (s *EventService) checkOverlap(ctx context.Context, tx store.Tx, e event.Event, prefix string) error {
	others, err := tx.Events().ListByStatus(ctx, event.StatusPlanned, event.StatusRegistrationOpen, event.StatusActive)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	for _, other := range others {
		if other.ID == e.ID || !s.calendar.Conflicts(e.Dates(), other.Dates()) {
			continue
		}
		return fmt.Errorf("%w: %s Date conflict with %q\nExisting Event: %s to %s\nExisting Registration: %s to %s",
			ErrConflict, prefix, other.Name,
			event.FormatDate(other.StartDate), event.FormatDate(other.EndDate),
			event.FormatDate(other.RegistrationStart), event.FormatDate(other.RegistrationEnd),
		)
	}
	return nil
}

func (s *EventService) checkRegistrationOverlap(ctx context.Context, tx store.Tx, e event.Event, prefix string) error {
	others, err := tx.Events().ListByStatus(ctx, event.StatusRegistrationOpen, event.StatusActive)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	for _, other := range others {
		if other.ID == e.ID || !s.calendar.RegistrationConflicts(e.Dates(), other.Dates()) {
			continue
		}
		return fmt.Errorf("%w: %s overlaps with %q (%s to %s)",
			ErrConflict, prefix, other.Name,
			event.FormatDate(other.RegistrationStart), event.FormatDate(other.RegistrationEnd),
		)
	}
	return nil
}

func (s *EventService) notifyRegistrationsOpened(ctx context.Context, e event.Event, subject string) {
	managerIDs, err := s.store.Teams().ListManagerIDs(ctx, team.Filter{
		EventID:  e.ID,
		Statuses: []team.Status{team.StatusApproved, team.StatusPending},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "list managers for notification failed", "event_id", e.ID, "error", err)
		return
	}
	notifyUsers(ctx, s.store.Users(), s.notifier, s.logger, managerIDs, func(u user.User) notification.Message {
		return notification.Message{
			Kind:    notification.KindRegistrationsOpened,
			Subject: subject,
			Body: greeting(u) + fmt.Sprintf("Team registrations are open for %s until %s.\n",
				e.Name, event.FormatDate(e.RegistrationEnd)),
		}
	})
}

func registrationRank(r event.RegistrationStatus) int {
	switch r {
	case event.RegistrationOpen:
		return 1
	case event.RegistrationClosed:
		return 2
	default:
		return 0
	}
}

func pluralRegistrations(n int) string {
	if n == 1 {
		return "1 team registration is"
	}
	return fmt.Sprintf("%d team registrations are", n)
}
