package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

type ScheduleMatchInput struct {
	EventID   string
	SportID   string
	Team1ID   string
	Team2ID   string
	VenueID   string
	MatchDate string
}

// RescheduleMatchInput changes only the non-nil fields. An empty VenueID
// clears the venue.
type RescheduleMatchInput struct {
	MatchDate *string
	VenueID   *string
	Status    *string
}

type MatchListInput struct {
	EventID string
	SportID string
	TeamID  string
	Status  string
	From    string
	To      string
}

type MatchDetails struct {
	Match   match.Match
	Score   *match.Score
	History []audit.Entry
}

type MatchService struct {
	store    store.Store
	calendar event.Calendar
	idGen    idgen.Generator
	notifier Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchService(
	st store.Store,
	calendar event.Calendar,
	idGen idgen.Generator,
	notifier Notifier,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		store:    st,
		calendar: calendar,
		idGen:    idGen,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		now:      time.Now,
	}
}

// Schedule creates a match between two approved teams after checking
// playing hours, the event window, venue suitability and the two-hour
// conflict window for both teams and the venue.
func (s *MatchService) Schedule(ctx context.Context, principal user.Principal, input ScheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Schedule")
	defer span.End()

	input.EventID = strings.TrimSpace(input.EventID)
	input.SportID = strings.TrimSpace(input.SportID)
	input.Team1ID = strings.TrimSpace(input.Team1ID)
	input.Team2ID = strings.TrimSpace(input.Team2ID)
	input.VenueID = strings.TrimSpace(input.VenueID)
	if input.EventID == "" || input.SportID == "" || input.Team1ID == "" || input.Team2ID == "" || strings.TrimSpace(input.MatchDate) == "" {
		return match.Match{}, fmt.Errorf("%w: All fields except venue required", ErrInvalidInput)
	}
	if input.Team1ID == input.Team2ID {
		return match.Match{}, fmt.Errorf("%w: Teams must be different", ErrInvalidInput)
	}
	at, err := s.calendar.ParseDateTime(input.MatchDate)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	var scheduled match.Match
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ev, exists, err := tx.Events().GetForUpdate(ctx, input.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Event not found", ErrInvalidInput)
		}
		if ev.IsCompleted() {
			return fmt.Errorf("%w: Cannot schedule matches for a completed event", ErrConflict)
		}

		teams, err := s.lockTeams(ctx, tx, input.Team1ID, input.Team2ID)
		if err != nil {
			return err
		}
		team1, team2 := teams[input.Team1ID], teams[input.Team2ID]
		for _, t := range []team.Team{team1, team2} {
			if t.EventID != ev.ID || t.SportID != input.SportID {
				return fmt.Errorf("%w: Both teams must be registered for this event and sport", ErrInvalidInput)
			}
		}

		approved, err := tx.Teams().Count(ctx, team.Filter{
			EventID:  ev.ID,
			SportID:  input.SportID,
			Statuses: []team.Status{team.StatusApproved},
		})
		if err != nil {
			return fmt.Errorf("count approved teams: %w", err)
		}
		if approved < 2 {
			return fmt.Errorf("%w: At least 2 teams required in this sport to schedule a match", ErrConflict)
		}
		if team1.Status != team.StatusApproved || team2.Status != team.StatusApproved {
			return fmt.Errorf("%w: Both teams must be approved", ErrConflict)
		}

		if err := s.checkTime(ev, at); err != nil {
			return err
		}

		var v venue.Venue
		if input.VenueID != "" {
			v, err = s.lockVenue(ctx, tx, input.VenueID, input.SportID)
			if err != nil {
				return err
			}
		}
		if err := s.checkConflicts(ctx, tx, match.ConflictQuery{
			TeamIDs: []string{team1.ID, team2.ID},
			VenueID: v.ID,
			At:      at,
		}, v); err != nil {
			return err
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate match id: %w", err)
		}
		now := s.now().UTC()
		scheduled = match.Match{
			ID:        id,
			EventID:   ev.ID,
			SportID:   input.SportID,
			Team1ID:   team1.ID,
			Team2ID:   team2.ID,
			VenueID:   v.ID,
			MatchDate: at,
			Status:    match.StatusScheduled,
			CreatedAt: now,
			UpdatedAt: now,
			Team1Name: team1.Name,
			Team2Name: team2.Name,
			VenueName: v.Name,
			SportName: team1.SportName,
			EventName: ev.Name,
		}
		if err := scheduled.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		if err := tx.Matches().Create(ctx, scheduled); err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		return s.appendHistory(ctx, tx, scheduled.ID, principal.UserID, audit.ActionCreated, "", s.formatTime(at), "")
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match scheduled", "match_id", scheduled.ID, "event_id", scheduled.EventID)
	s.notifyTeams(ctx, scheduled, notification.KindMatchScheduled, "Match Scheduled", func(own, opponent string) string {
		return fmt.Sprintf("Your team %s has a match scheduled against %s on %s%s.\n",
			own, opponent, s.formatTime(scheduled.MatchDate), venueSuffix(scheduled.VenueName))
	})
	return scheduled, nil
}

// Reschedule moves a match, changes its venue or its status. Completed
// matches are immutable and completion happens only through score entry.
func (s *MatchService) Reschedule(ctx context.Context, principal user.Principal, matchID string, input RescheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Reschedule")
	defer span.End()

	var (
		newTime   *time.Time
		newStatus match.Status
	)
	if input.MatchDate != nil && strings.TrimSpace(*input.MatchDate) != "" {
		at, err := s.calendar.ParseDateTime(*input.MatchDate)
		if err != nil {
			return match.Match{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		newTime = &at
	}
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		newStatus = match.Status(strings.TrimSpace(*input.Status))
		if !newStatus.Valid() {
			return match.Match{}, fmt.Errorf("%w: invalid match status %q", ErrInvalidInput, newStatus)
		}
		if newStatus == match.StatusCompleted {
			return match.Match{}, fmt.Errorf("%w: Matches are completed by submitting a score", ErrInvalidInput)
		}
	}

	var (
		updated match.Match
		moved   bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		peek, err := s.getMatch(ctx, tx.Matches(), matchID, false)
		if err != nil {
			return err
		}
		ev, exists, err := tx.Events().GetForUpdate(ctx, peek.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Event not found", ErrNotFound)
		}
		teams, err := s.lockTeams(ctx, tx, peek.Team1ID, peek.Team2ID)
		if err != nil {
			return err
		}

		venueID := peek.VenueID
		if input.VenueID != nil {
			venueID = strings.TrimSpace(*input.VenueID)
		}
		var v venue.Venue
		if venueID != "" {
			v, err = s.lockVenue(ctx, tx, venueID, peek.SportID)
			if err != nil {
				return err
			}
		}

		current, err := s.getMatch(ctx, tx.Matches(), matchID, true)
		if err != nil {
			return err
		}
		if current.Status == match.StatusCompleted {
			return fmt.Errorf("%w: Cannot modify completed matches", ErrConflict)
		}

		updated = current
		updated.VenueID = v.ID
		updated.VenueName = v.Name
		if newTime != nil {
			if err := s.checkTime(ev, *newTime); err != nil {
				return err
			}
			updated.MatchDate = *newTime
			moved = !newTime.Equal(current.MatchDate)
		}
		if newStatus != "" {
			updated.Status = newStatus
		}
		// A cancelled match only takes a slot again under the same rules as
		// a newly scheduled one.
		if updated.Occupies() && !current.Occupies() {
			if ev.IsCompleted() {
				return fmt.Errorf("%w: Cannot schedule matches for a completed event", ErrConflict)
			}
			for _, id := range []string{updated.Team1ID, updated.Team2ID} {
				if teams[id].Status != team.StatusApproved {
					return fmt.Errorf("%w: Both teams must be approved", ErrConflict)
				}
			}
		}

		if updated.Occupies() && (moved || updated.VenueID != current.VenueID || !current.Occupies()) {
			if err := s.checkConflicts(ctx, tx, match.ConflictQuery{
				TeamIDs:   []string{updated.Team1ID, updated.Team2ID},
				VenueID:   updated.VenueID,
				At:        updated.MatchDate,
				ExcludeID: updated.ID,
			}, v); err != nil {
				return err
			}
		}

		updated.UpdatedAt = s.now().UTC()
		if err := tx.Matches().Update(ctx, updated); err != nil {
			return fmt.Errorf("update match: %w", err)
		}

		if newTime != nil {
			if err := s.appendHistory(ctx, tx, updated.ID, principal.UserID, audit.ActionRescheduled,
				s.formatTime(current.MatchDate), s.formatTime(updated.MatchDate), ""); err != nil {
				return err
			}
		}
		if updated.Status != current.Status {
			action := audit.ActionUpdated
			if updated.Status == match.StatusCancelled {
				action = audit.ActionCancelled
			}
			if err := s.appendHistory(ctx, tx, updated.ID, principal.UserID, action, string(current.Status), string(updated.Status), ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	if moved {
		s.notifyTeams(ctx, updated, notification.KindMatchRescheduled, "Match Rescheduled", func(own, opponent string) string {
			return fmt.Sprintf("Your match %s vs %s has been moved to %s%s.\n",
				own, opponent, s.formatTime(updated.MatchDate), venueSuffix(updated.VenueName))
		})
	}
	return updated, nil
}

// Cancel marks a match as not played while keeping its record.
func (s *MatchService) Cancel(ctx context.Context, principal user.Principal, matchID, reason string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No show"
	}

	var cancelled match.Match
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, err := s.getMatch(ctx, tx.Matches(), matchID, true)
		if err != nil {
			return err
		}
		switch m.Status {
		case match.StatusCompleted:
			return fmt.Errorf("%w: Cannot cancel completed match", ErrConflict)
		case match.StatusCancelled:
			return fmt.Errorf("%w: Match is already cancelled", ErrConflict)
		}

		cancelled = m
		cancelled.Status = match.StatusCancelled
		cancelled.CancelReason = reason
		cancelled.UpdatedAt = s.now().UTC()
		if err := tx.Matches().Update(ctx, cancelled); err != nil {
			return fmt.Errorf("cancel match: %w", err)
		}
		return s.appendHistory(ctx, tx, m.ID, principal.UserID, audit.ActionCancelled, string(m.Status), string(match.StatusCancelled), reason)
	})
	if err != nil {
		return match.Match{}, err
	}

	s.notifyTeams(ctx, cancelled, notification.KindMatchCancelled, "Match Cancelled", func(own, opponent string) string {
		return fmt.Sprintf("Your match %s vs %s on %s has been cancelled.\nReason: %s\n",
			own, opponent, s.formatTime(cancelled.MatchDate), reason)
	})
	return cancelled, nil
}

// Delete removes a scheduled match that has not started yet.
func (s *MatchService) Delete(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		m, err := s.getMatch(ctx, tx.Matches(), matchID, true)
		if err != nil {
			return err
		}
		if m.Status == match.StatusCompleted {
			return fmt.Errorf("%w: Cannot delete completed match. Scores are recorded in the points table.", ErrConflict)
		}
		if !s.now().Before(m.MatchDate) {
			return fmt.Errorf("%w: Cannot delete past matches. If the match didn't take place, use \"Cancel Match (No Show)\" instead to preserve the record.", ErrConflict)
		}
		if m.Status != match.StatusScheduled {
			return fmt.Errorf("%w: Only scheduled matches can be deleted", ErrConflict)
		}
		if err := tx.Matches().Delete(ctx, m.ID); err != nil {
			return fmt.Errorf("delete match: %w", err)
		}
		return nil
	})
}

func (s *MatchService) Get(ctx context.Context, matchID string) (MatchDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	m, err := s.getMatch(ctx, s.store.Matches(), matchID, false)
	if err != nil {
		return MatchDetails{}, err
	}
	details := MatchDetails{Match: m}

	score, exists, err := s.store.Matches().GetScore(ctx, m.ID)
	if err != nil {
		return MatchDetails{}, fmt.Errorf("get score: %w", err)
	}
	if exists {
		details.Score = &score
	}
	details.History, err = s.store.Audit().ListMatch(ctx, m.ID)
	if err != nil {
		return MatchDetails{}, fmt.Errorf("list match history: %w", err)
	}
	return details, nil
}

func (s *MatchService) List(ctx context.Context, input MatchListInput) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	filter := match.Filter{
		EventID: strings.TrimSpace(input.EventID),
		SportID: strings.TrimSpace(input.SportID),
	}
	if teamID := strings.TrimSpace(input.TeamID); teamID != "" {
		filter.TeamIDs = []string{teamID}
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status := match.Status(raw)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid match status %q", ErrInvalidInput, raw)
		}
		filter.Statuses = []match.Status{status}
	}
	if raw := strings.TrimSpace(input.From); raw != "" {
		from, err := s.calendar.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		filter.After = from.Add(-time.Nanosecond)
	}
	if raw := strings.TrimSpace(input.To); raw != "" {
		to, err := s.calendar.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		filter.Before = s.calendar.EndOfDay(to).Add(time.Nanosecond)
	}

	matches, err := s.store.Matches().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

// Mine returns every match involving a team managed by the caller.
func (s *MatchService) Mine(ctx context.Context, principal user.Principal) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Mine")
	defer span.End()

	teams, err := s.store.Teams().List(ctx, team.Filter{ManagerID: principal.UserID})
	if err != nil {
		return nil, fmt.Errorf("list manager teams: %w", err)
	}
	if len(teams) == 0 {
		return []match.Match{}, nil
	}
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	matches, err := s.store.Matches().List(ctx, match.Filter{TeamIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *MatchService) checkTime(ev event.Event, at time.Time) error {
	if !match.WithinPlayingHours(at, s.calendar.Location()) {
		return fmt.Errorf("%w: Match time must be between 8:00 AM and 10:00 PM", ErrInvalidInput)
	}
	if !s.calendar.Contains(ev.StartDate, ev.EndDate, at) {
		return fmt.Errorf("%w: Match date must be between %s and %s",
			ErrInvalidInput, event.FormatDate(ev.StartDate), event.FormatDate(ev.EndDate))
	}
	return nil
}

func (s *MatchService) checkConflicts(ctx context.Context, tx store.Tx, q match.ConflictQuery, v venue.Venue) error {
	conflicts, err := tx.Matches().FindConflicts(ctx, q)
	if err != nil {
		return fmt.Errorf("find conflicts: %w", err)
	}
	for _, c := range conflicts {
		if q.VenueID != "" && c.VenueID == q.VenueID {
			return fmt.Errorf("%w: Venue conflict: %q has another match within 2 hours of this time", ErrConflict, v.Name)
		}
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("%w: Match conflict: %s or %s already has a match within 2 hours of this time",
			ErrConflict, c.Team1Name, c.Team2Name)
	}
	return nil
}

// lockTeams locks both team rows in id order.
func (s *MatchService) lockTeams(ctx context.Context, tx store.Tx, ids ...string) (map[string]team.Team, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)

	out := make(map[string]team.Team, len(ordered))
	for _, id := range ordered {
		t, exists, err := tx.Teams().GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: One or both teams not found", ErrInvalidInput)
		}
		out[id] = t
	}
	return out, nil
}

func (s *MatchService) lockVenue(ctx context.Context, tx store.Tx, venueID, sportID string) (venue.Venue, error) {
	v, exists, err := tx.Venues().GetForUpdate(ctx, venueID)
	if err != nil {
		return venue.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	if !exists {
		return venue.Venue{}, fmt.Errorf("%w: Venue not found", ErrInvalidInput)
	}
	if !v.Serves(sportID) {
		return venue.Venue{}, fmt.Errorf("%w: Selected venue is not suitable for this sport", ErrInvalidInput)
	}
	return v, nil
}

func (s *MatchService) getMatch(ctx context.Context, repo match.Repository, id string, lock bool) (match.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	var (
		m      match.Match
		exists bool
		err    error
	)
	if lock {
		m, exists, err = repo.GetForUpdate(ctx, id)
	} else {
		m, exists, err = repo.GetByID(ctx, id)
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: Match not found", ErrNotFound)
	}
	return m, nil
}

func (s *MatchService) appendHistory(ctx context.Context, tx store.Tx, matchID, actorID string, action audit.Action, oldValue, newValue, note string) error {
	entry, err := newAuditEntry(s.idGen, s.now(), matchID, actorID, action, oldValue, newValue, note)
	if err != nil {
		return err
	}
	if err := tx.Audit().AppendMatch(ctx, entry); err != nil {
		return fmt.Errorf("append match history: %w", err)
	}
	return nil
}

// notifyTeams sends one message to each team's manager naming the opponent.
func (s *MatchService) notifyTeams(ctx context.Context, m match.Match, kind notification.Kind, subject string, body func(own, opponent string) string) {
	teams := make(map[string]team.Team, 2)
	for _, id := range []string{m.Team1ID, m.Team2ID} {
		t, exists, err := s.store.Teams().GetByID(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "load team for notification failed", "team_id", id, "error", err)
			return
		}
		if exists {
			teams[id] = t
		}
	}

	for _, id := range []string{m.Team1ID, m.Team2ID} {
		own, ok := teams[id]
		if !ok {
			continue
		}
		opponent := teams[m.OpponentOf(id)]
		notifyUsers(ctx, s.store.Users(), s.notifier, s.logger, []string{own.ManagerID}, func(u user.User) notification.Message {
			return notification.Message{
				Kind:    kind,
				Subject: subject,
				Body:    greeting(u) + body(own.Name, opponent.Name),
			}
		})
	}
}

func (s *MatchService) formatTime(t time.Time) string {
	return t.In(s.calendar.Location()).Format("2006-01-02 15:04")
}

func venueSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " at " + name
}
