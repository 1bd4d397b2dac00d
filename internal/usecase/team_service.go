package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

const (
	blobCategoryLogo    = "logo"
	blobCategoryPayment = "payment"
	searchLimit         = 50
)

type PlayerInput struct {
	Name     string
	JerseyNo string
	Age      *int
	Position string
	Type     string
}

type RegisterTeamInput struct {
	EventID      string
	SportID      string
	Name         string
	Players      []PlayerInput
	Logo         *Upload
	PaymentProof *Upload
}

// UpdateTeamInput changes only the set fields. A nil Players keeps the roster.
type UpdateTeamInput struct {
	Name    *string
	Players []PlayerInput
	Logo    *Upload
}

type TeamListInput struct {
	EventID string
	SportID string
	Status  string
}

type TeamDetails struct {
	Team    team.Team
	Players []team.Player
	History []audit.Entry
	Matches []match.Match
}

type TeamService struct {
	store    store.Store
	calendar event.Calendar
	blobs    BlobStore
	idGen    idgen.Generator
	notifier Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamService(
	st store.Store,
	calendar event.Calendar,
	blobs BlobStore,
	idGen idgen.Generator,
	notifier Notifier,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		store:    st,
		calendar: calendar,
		blobs:    blobs,
		idGen:    idGen,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		now:      time.Now,
	}
}

// Register submits a new pending team with its roster for (event, sport).
func (s *TeamService) Register(ctx context.Context, principal user.Principal, input RegisterTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Register")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return team.Team{}, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	input.EventID = strings.TrimSpace(input.EventID)
	input.SportID = strings.TrimSpace(input.SportID)
	input.Name = strings.TrimSpace(input.Name)
	if input.EventID == "" || input.SportID == "" {
		return team.Team{}, fmt.Errorf("%w: event and sport are required", ErrInvalidInput)
	}

	logoURL, err := s.saveUpload(ctx, blobCategoryLogo, input.Logo)
	if err != nil {
		return team.Team{}, err
	}
	paymentURL, err := s.saveUpload(ctx, blobCategoryPayment, input.PaymentProof)
	if err != nil {
		s.removeUploads(ctx, logoURL)
		return team.Team{}, err
	}

	var (
		registered team.Team
		ev         event.Event
		sp         sport.Sport
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var exists bool
		ev, exists, err = tx.Events().GetForUpdate(ctx, input.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Event not found", ErrNotFound)
		}
		if err := s.checkRegistrationOpen(ev); err != nil {
			return err
		}

		blocking, exists, err := tx.Teams().FindBlocking(ctx, team.Key{
			EventID:   ev.ID,
			SportID:   input.SportID,
			ManagerID: principal.UserID,
		})
		if err != nil {
			return fmt.Errorf("find existing registration: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrConflict, team.BlockingMessage(blocking.Status))
		}

		if err := team.ValidateName(input.Name); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		sp, exists, err = tx.Sports().GetByID(ctx, input.SportID)
		if err != nil {
			return fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: Invalid sport", ErrInvalidInput)
		}
		linked, err := tx.Events().HasSport(ctx, ev.ID, sp.ID)
		if err != nil {
			return fmt.Errorf("check event sport: %w", err)
		}
		if !linked {
			return fmt.Errorf("%w: %s is not offered in %s", ErrInvalidInput, sp.Name, ev.Name)
		}
		if sp.RequiresPayment() && paymentURL == "" {
			return fmt.Errorf("%w: Payment screenshot required. Registration fee: Rs.%d", ErrInvalidInput, sp.RegistrationFee)
		}

		players, err := s.buildRoster(input.Players, sp)
		if err != nil {
			return err
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate team id: %w", err)
		}
		now := s.now().UTC()
		registered = team.Team{
			ID:              id,
			Name:            input.Name,
			EventID:         ev.ID,
			SportID:         sp.ID,
			ManagerID:       principal.UserID,
			LogoURL:         logoURL,
			PaymentProofURL: paymentURL,
			Status:          team.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
			SportName:       sp.Name,
			EventName:       ev.Name,
		}
		if err := tx.Teams().Create(ctx, registered); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrConflict, team.BlockingMessage(team.StatusPending))
			}
			return fmt.Errorf("create team: %w", err)
		}
		if err := s.replacePlayers(ctx, tx, registered.ID, players); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, registered.ID, principal.UserID, audit.ActionCreated, "", string(team.StatusPending), "Team registered by manager")
	})
	if err != nil {
		s.removeUploads(ctx, logoURL, paymentURL)
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team registered",
		"team_id", registered.ID,
		"event_id", registered.EventID,
		"sport_id", registered.SportID,
	)
	s.notifyManager(ctx, registered.ManagerID, func(u user.User) notification.Message {
		body := greeting(u) + fmt.Sprintf("Your team %s has been submitted for approval.\nEvent: %s\nSport: %s\n", registered.Name, ev.Name, sp.Name)
		if sp.RequiresPayment() {
			body += fmt.Sprintf("Fee: Rs.%d\n", sp.RegistrationFee)
		}
		body += "You'll receive an email once the admin reviews your registration.\n"
		return notification.Message{
			Kind:    notification.KindRegistrationReceived,
			Subject: "Team Registration Received",
			Body:    body,
		}
	})
	return registered, nil
}

// Approve admits a pending team and opens its standings row.
func (s *TeamService) Approve(ctx context.Context, principal user.Principal, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Approve")
	defer span.End()

	var approved team.Team
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := s.lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if t.Status != team.StatusPending {
			return fmt.Errorf("%w: Only pending teams can be approved (current status: %s)", ErrConflict, t.Status)
		}
		if err := tx.Teams().UpdateStatus(ctx, t.ID, team.StatusApproved, ""); err != nil {
			return fmt.Errorf("approve team: %w", err)
		}
		if err := tx.Standings().Create(ctx, t.EventID, t.SportID, t.ID); err != nil {
			return fmt.Errorf("create standings row: %w", err)
		}
		if err := s.appendHistory(ctx, tx, t.ID, principal.UserID, audit.ActionApproved, string(t.Status), string(team.StatusApproved), "Approved by admin"); err != nil {
			return err
		}
		approved = t
		approved.Status = team.StatusApproved
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.notifyManager(ctx, approved.ManagerID, func(u user.User) notification.Message {
		return notification.Message{
			Kind:    notification.KindTeamApproved,
			Subject: "Team Approved - " + approved.Name,
			Body: greeting(u) + fmt.Sprintf("Your team %s has been approved for %s in %s. Good luck!\n",
				approved.Name, approved.SportName, approved.EventName),
		}
	})
	return approved, nil
}

// Reject declines a pending team. The manager may register again.
func (s *TeamService) Reject(ctx context.Context, principal user.Principal, teamID, reason string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Reject")
	defer span.End()

	reason = strings.TrimSpace(reason)
	var rejected team.Team
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := s.lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if t.Status != team.StatusPending {
			return fmt.Errorf("%w: Only pending teams can be rejected (current status: %s)", ErrConflict, t.Status)
		}
		if err := tx.Teams().UpdateStatus(ctx, t.ID, team.StatusRejected, reason); err != nil {
			return fmt.Errorf("reject team: %w", err)
		}
		note := reason
		if note == "" {
			note = "Rejected by admin"
		}
		if err := s.appendHistory(ctx, tx, t.ID, principal.UserID, audit.ActionRejected, string(t.Status), string(team.StatusRejected), note); err != nil {
			return err
		}
		rejected = t
		rejected.Status = team.StatusRejected
		rejected.StatusReason = reason
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.notifyManager(ctx, rejected.ManagerID, func(u user.User) notification.Message {
		body := greeting(u) + fmt.Sprintf("Your registration for team %s (%s, %s) was not approved.\n",
			rejected.Name, rejected.SportName, rejected.EventName)
		if reason != "" {
			body += "Reason: " + reason + "\n"
		}
		body += "You can reapply with a new registration.\n"
		return notification.Message{
			Kind:    notification.KindTeamRejected,
			Subject: "Team Registration Status - " + rejected.Name,
			Body:    body,
		}
	})
	return rejected, nil
}

// Disqualify permanently excludes an approved team. Wins, draws and points
// are zeroed while losses and goals are kept as played. Future scheduled
// matches of the team are cancelled.
func (s *TeamService) Disqualify(ctx context.Context, principal user.Principal, teamID, reason string) (team.Team, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Disqualify")
	defer span.End()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Disqualified by admin"
	}

	var (
		disqualified team.Team
		cancelled    []match.Match
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := s.lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if t.Status == team.StatusDisqualified {
			return fmt.Errorf("%w: Team is already disqualified", ErrConflict)
		}
		if t.Status != team.StatusApproved {
			return fmt.Errorf("%w: Only approved teams can be disqualified", ErrConflict)
		}

		if err := tx.Teams().UpdateStatus(ctx, t.ID, team.StatusDisqualified, reason); err != nil {
			return fmt.Errorf("disqualify team: %w", err)
		}
		// Losses and goals stay as played.
		if err := tx.Standings().ResetForDisqualification(ctx, t.EventID, t.SportID, t.ID); err != nil {
			return fmt.Errorf("reset standings: %w", err)
		}
		cancelled, err = tx.Matches().Cancel(ctx, match.Filter{
			TeamIDs:  []string{t.ID},
			Statuses: []match.Status{match.StatusScheduled},
			After:    s.now(),
		}, "Team disqualified: "+t.Name)
		if err != nil {
			return fmt.Errorf("cancel future matches: %w", err)
		}
		for _, m := range cancelled {
			entry, err := newAuditEntry(s.idGen, s.now(), m.ID, principal.UserID, audit.ActionCancelled, string(match.StatusScheduled), string(match.StatusCancelled), reason)
			if err != nil {
				return err
			}
			if err := tx.Audit().AppendMatch(ctx, entry); err != nil {
				return fmt.Errorf("append match history: %w", err)
			}
		}
		if err := s.appendHistory(ctx, tx, t.ID, principal.UserID, audit.ActionDisqualified, string(t.Status), string(team.StatusDisqualified), reason); err != nil {
			return err
		}
		disqualified = t
		disqualified.Status = team.StatusDisqualified
		disqualified.StatusReason = reason
		return nil
	})
	if err != nil {
		return team.Team{}, 0, err
	}

	s.logger.InfoContext(ctx, "team disqualified", "team_id", disqualified.ID, "cancelled_matches", len(cancelled))
	s.notifyManager(ctx, disqualified.ManagerID, func(u user.User) notification.Message {
		return notification.Message{
			Kind:    notification.KindTeamDisqualified,
			Subject: "Team Disqualified - " + disqualified.Name,
			Body: greeting(u) + fmt.Sprintf("Your team %s has been disqualified from %s.\nReason: %s\nPoints were reset and %d upcoming match(es) cancelled.\n",
				disqualified.Name, disqualified.EventName, reason, len(cancelled)),
		}
	})
	return disqualified, len(cancelled), nil
}

// Update edits a team. Managers may edit their own pending teams; admins may
// edit any team. A new roster replaces the old one wholesale.
func (s *TeamService) Update(ctx context.Context, principal user.Principal, teamID string, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	logoURL, err := s.saveUpload(ctx, blobCategoryLogo, input.Logo)
	if err != nil {
		return team.Team{}, err
	}

	var (
		updated team.Team
		oldLogo string
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := s.lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if !principal.IsAdmin() {
			if t.ManagerID != principal.UserID {
				return fmt.Errorf("%w: Not authorized to edit this team", ErrForbidden)
			}
			if t.Status != team.StatusPending {
				return fmt.Errorf("%w: Can only edit pending teams", ErrConflict)
			}
		}

		updated = t
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			name := strings.TrimSpace(*input.Name)
			if err := team.ValidateName(name); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
			}
			updated.Name = name
		}
		if logoURL != "" {
			oldLogo = t.LogoURL
			updated.LogoURL = logoURL
		}
		updated.UpdatedAt = s.now().UTC()
		if err := tx.Teams().Update(ctx, updated); err != nil {
			return fmt.Errorf("update team: %w", err)
		}

		if input.Players != nil {
			sp, exists, err := tx.Sports().GetByID(ctx, t.SportID)
			if err != nil {
				return fmt.Errorf("get sport: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: Invalid sport", ErrInvalidInput)
			}
			players, err := s.buildRoster(input.Players, sp)
			if err != nil {
				return err
			}
			if err := s.replacePlayers(ctx, tx, t.ID, players); err != nil {
				return err
			}
		}

		return s.appendHistory(ctx, tx, t.ID, principal.UserID, audit.ActionUpdated, "", "", "Team details updated")
	})
	if err != nil {
		s.removeUploads(ctx, logoURL)
		return team.Team{}, err
	}

	s.removeUploads(ctx, oldLogo)
	return updated, nil
}

// Delete removes a team without completed matches. Managers may only delete
// their own pending teams.
func (s *TeamService) Delete(ctx context.Context, principal user.Principal, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	var deleted team.Team
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := s.lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if !principal.IsAdmin() {
			if t.ManagerID != principal.UserID {
				return fmt.Errorf("%w: Not authorized", ErrForbidden)
			}
			if t.Status != team.StatusPending {
				return fmt.Errorf("%w: Can only delete pending teams", ErrConflict)
			}
		}

		completed, err := tx.Matches().Count(ctx, match.Filter{
			TeamIDs:  []string{t.ID},
			Statuses: []match.Status{match.StatusCompleted},
		})
		if err != nil {
			return fmt.Errorf("count completed matches: %w", err)
		}
		if completed > 0 {
			return fmt.Errorf("%w: Cannot delete team with completed match history", ErrConflict)
		}

		if err := tx.Teams().Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		deleted = t
		return nil
	})
	if err != nil {
		return err
	}

	s.removeUploads(ctx, deleted.LogoURL, deleted.PaymentProofURL)
	return nil
}

// List returns teams for public listings. Without a status filter only
// approved and disqualified teams are shown.
func (s *TeamService) List(ctx context.Context, input TeamListInput) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	filter := team.Filter{
		EventID:  strings.TrimSpace(input.EventID),
		SportID:  strings.TrimSpace(input.SportID),
		Statuses: []team.Status{team.StatusApproved, team.StatusDisqualified},
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status := team.Status(raw)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid team status %q", ErrInvalidInput, raw)
		}
		filter.Statuses = []team.Status{status}
	}

	teams, err := s.store.Teams().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// Search finds approved teams by name substring.
func (s *TeamService) Search(ctx context.Context, query, eventID, sportID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Search")
	defer span.End()

	teams, err := s.store.Teams().List(ctx, team.Filter{
		EventID:      strings.TrimSpace(eventID),
		SportID:      strings.TrimSpace(sportID),
		Statuses:     []team.Status{team.StatusApproved},
		NameContains: strings.TrimSpace(query),
		Limit:        searchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	return teams, nil
}

// Mine returns the caller's teams, newest first.
func (s *TeamService) Mine(ctx context.Context, principal user.Principal) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Mine")
	defer span.End()

	teams, err := s.store.Teams().List(ctx, team.Filter{ManagerID: principal.UserID})
	if err != nil {
		return nil, fmt.Errorf("list manager teams: %w", err)
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].CreatedAt.After(teams[j].CreatedAt) })
	return teams, nil
}

// Pending returns registrations awaiting review, oldest first.
func (s *TeamService) Pending(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Pending")
	defer span.End()

	teams, err := s.store.Teams().List(ctx, team.Filter{Statuses: []team.Status{team.StatusPending}})
	if err != nil {
		return nil, fmt.Errorf("list pending teams: %w", err)
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].CreatedAt.Before(teams[j].CreatedAt) })
	return teams, nil
}

func (s *TeamService) Details(ctx context.Context, teamID string) (TeamDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Details")
	defer span.End()

	t, exists, err := s.store.Teams().GetByID(ctx, strings.TrimSpace(teamID))
	if err != nil {
		return TeamDetails{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamDetails{}, fmt.Errorf("%w: Team not found", ErrNotFound)
	}

	details := TeamDetails{Team: t}
	if details.Players, err = s.Players(ctx, t.ID); err != nil {
		return TeamDetails{}, err
	}
	if details.History, err = s.store.Audit().ListTeam(ctx, t.ID); err != nil {
		return TeamDetails{}, fmt.Errorf("list team history: %w", err)
	}
	if details.Matches, err = s.store.Matches().List(ctx, match.Filter{TeamIDs: []string{t.ID}}); err != nil {
		return TeamDetails{}, fmt.Errorf("list team matches: %w", err)
	}
	return details, nil
}

// Players lists a roster with main players first, then by name.
func (s *TeamService) Players(ctx context.Context, teamID string) ([]team.Player, error) {
	players, err := s.store.Teams().ListPlayers(ctx, strings.TrimSpace(teamID))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Type != players[j].Type {
			return players[i].Type == team.PlayerMain
		}
		return players[i].Name < players[j].Name
	})
	return players, nil
}

// checkRegistrationOpen rejects submissions outside the registration window.
// The window is evaluated against the wall clock; the cached status only
// matters when an admin closed registrations by hand.
func (s *TeamService) checkRegistrationOpen(ev event.Event) error {
	if ev.Status == event.StatusActive || ev.Status == event.StatusCompleted {
		return fmt.Errorf("%w: Registrations are closed for %s event", ErrConflict, ev.Status)
	}
	if ev.RegistrationStatus == event.RegistrationClosed {
		return fmt.Errorf("%w: Registrations closed on %s", ErrConflict, event.FormatDate(ev.RegistrationEnd))
	}
	switch s.calendar.RegistrationStatus(s.now(), ev.RegistrationStart, ev.RegistrationEnd) {
	case event.RegistrationNotStarted:
		return fmt.Errorf("%w: Registrations not yet open. Opens on %s", ErrConflict, event.FormatDate(ev.RegistrationStart))
	case event.RegistrationClosed:
		return fmt.Errorf("%w: Registration deadline passed on %s", ErrConflict, event.FormatDate(ev.RegistrationEnd))
	}
	return nil
}

func (s *TeamService) buildRoster(inputs []PlayerInput, sp sport.Sport) ([]team.Player, error) {
	players := make([]team.Player, 0, len(inputs))
	for _, in := range inputs {
		players = append(players, team.Player{
			Name:     in.Name,
			JerseyNo: in.JerseyNo,
			Age:      in.Age,
			Position: sport.Position(in.Position),
			Type:     team.PlayerType(in.Type),
		})
	}
	players = team.NormalizeRoster(players)

	if err := team.ValidateRoster(players, sp.Rules()); err != nil {
		var rosterErr *team.RosterError
		if errors.As(err, &rosterErr) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, rosterErr)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return players, nil
}

func (s *TeamService) replacePlayers(ctx context.Context, tx store.Tx, teamID string, players []team.Player) error {
	for i := range players {
		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate player id: %w", err)
		}
		players[i].ID = id
		players[i].TeamID = teamID
	}
	if err := tx.Teams().ReplacePlayers(ctx, teamID, players); err != nil {
		return fmt.Errorf("replace players: %w", err)
	}
	return nil
}

func (s *TeamService) lockTeam(ctx context.Context, tx store.Tx, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	t, exists, err := tx.Teams().GetForUpdate(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: Team not found", ErrNotFound)
	}
	return t, nil
}

func (s *TeamService) appendHistory(ctx context.Context, tx store.Tx, teamID, actorID string, action audit.Action, oldValue, newValue, note string) error {
	entry, err := newAuditEntry(s.idGen, s.now(), teamID, actorID, action, oldValue, newValue, note)
	if err != nil {
		return err
	}
	if err := tx.Audit().AppendTeam(ctx, entry); err != nil {
		return fmt.Errorf("append team history: %w", err)
	}
	return nil
}

func (s *TeamService) notifyManager(ctx context.Context, managerID string, build func(u user.User) notification.Message) {
	notifyUsers(ctx, s.store.Users(), s.notifier, s.logger, []string{managerID}, build)
}

func (s *TeamService) saveUpload(ctx context.Context, category string, upload *Upload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", nil
	}
	if s.blobs == nil {
		return "", fmt.Errorf("%w: file uploads are not configured", ErrDependencyUnavailable)
	}
	url, err := s.blobs.Save(ctx, category, *upload)
	if err != nil {
		return "", fmt.Errorf("save %s upload: %w", category, err)
	}
	return url, nil
}

func (s *TeamService) removeUploads(ctx context.Context, urls ...string) {
	if s.blobs == nil {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.blobs.Remove(ctx, url); err != nil {
			s.logger.WarnContext(ctx, "remove upload failed", "url", url, "error", err)
		}
	}
}
