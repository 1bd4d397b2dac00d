package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
)

type userTableModel struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func userToModel(u user.User) userTableModel {
	return userTableModel{
		ID:           u.ID,
		Email:        user.NormalizeEmail(u.Email),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         user.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// eventTableModel stores calendar days as YYYY-MM-DD strings on write; DATE
// columns scan back as UTC midnight.
type eventTableModel struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	Description        string    `db:"description"`
	Location           string    `db:"location"`
	StartDate          any       `db:"start_date"`
	EndDate            any       `db:"end_date"`
	RegistrationStart  any       `db:"registration_start"`
	RegistrationEnd    any       `db:"registration_end"`
	Status             string    `db:"status"`
	RegistrationStatus string    `db:"registration_status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func eventToModel(e event.Event) eventTableModel {
	return eventTableModel{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		Location:           e.Location,
		StartDate:          event.FormatDate(e.StartDate),
		EndDate:            event.FormatDate(e.EndDate),
		RegistrationStart:  event.FormatDate(e.RegistrationStart),
		RegistrationEnd:    event.FormatDate(e.RegistrationEnd),
		Status:             string(e.Status),
		RegistrationStatus: string(e.RegistrationStatus),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

type eventRow struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	Description        string    `db:"description"`
	Location           string    `db:"location"`
	StartDate          time.Time `db:"start_date"`
	EndDate            time.Time `db:"end_date"`
	RegistrationStart  time.Time `db:"registration_start"`
	RegistrationEnd    time.Time `db:"registration_end"`
	Status             string    `db:"status"`
	RegistrationStatus string    `db:"registration_status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r eventRow) toDomain() event.Event {
	return event.Event{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		Location:           r.Location,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		RegistrationStart:  r.RegistrationStart,
		RegistrationEnd:    r.RegistrationEnd,
		Status:             event.Status(r.Status),
		RegistrationStatus: event.RegistrationStatus(r.RegistrationStatus),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type sportTableModel struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Format          string    `db:"format"`
	TeamSize        int       `db:"team_size"`
	MaxSubstitutes  int       `db:"max_substitutes"`
	RegistrationFee int       `db:"registration_fee"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

func sportToModel(sp sport.Sport) sportTableModel {
	return sportTableModel{
		ID:              sp.ID,
		Name:            sp.Name,
		Format:          string(sp.Format),
		TeamSize:        sp.TeamSize,
		MaxSubstitutes:  sp.MaxSubstitutes,
		RegistrationFee: sp.RegistrationFee,
		Status:          string(sp.Status),
		CreatedAt:       sp.CreatedAt,
	}
}

func (m sportTableModel) toDomain() sport.Sport {
	return sport.Sport{
		ID:              m.ID,
		Name:            m.Name,
		Format:          sport.Format(m.Format),
		TeamSize:        m.TeamSize,
		MaxSubstitutes:  m.MaxSubstitutes,
		RegistrationFee: m.RegistrationFee,
		Status:          sport.Status(m.Status),
		CreatedAt:       m.CreatedAt,
	}
}

type venueTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Location  string         `db:"location"`
	Capacity  int            `db:"capacity"`
	SportID   sql.NullString `db:"sport_id"`
	CreatedAt time.Time      `db:"created_at"`
}

type venueRow struct {
	venueTableModel
	SportName sql.NullString `db:"sport_name"`
}

func venueToModel(v venue.Venue) venueTableModel {
	return venueTableModel{
		ID:        v.ID,
		Name:      v.Name,
		Location:  v.Location,
		Capacity:  v.Capacity,
		SportID:   nullString(v.SportID),
		CreatedAt: v.CreatedAt,
	}
}

func (r venueRow) toDomain() venue.Venue {
	return venue.Venue{
		ID:        r.ID,
		Name:      r.Name,
		Location:  r.Location,
		Capacity:  r.Capacity,
		SportID:   r.SportID.String,
		SportName: r.SportName.String,
		CreatedAt: r.CreatedAt,
	}
}

type teamTableModel struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	EventID         string    `db:"event_id"`
	SportID         string    `db:"sport_id"`
	ManagerID       string    `db:"manager_id"`
	LogoURL         string    `db:"logo_url"`
	PaymentProofURL string    `db:"payment_proof_url"`
	Status          string    `db:"status"`
	StatusReason    string    `db:"status_reason"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type teamRow struct {
	teamTableModel
	ManagerUsername sql.NullString `db:"manager_username"`
	ManagerEmail    sql.NullString `db:"manager_email"`
	SportName       sql.NullString `db:"sport_name"`
	EventName       sql.NullString `db:"event_name"`
}

func teamToModel(t team.Team) teamTableModel {
	return teamTableModel{
		ID:              t.ID,
		Name:            t.Name,
		EventID:         t.EventID,
		SportID:         t.SportID,
		ManagerID:       t.ManagerID,
		LogoURL:         t.LogoURL,
		PaymentProofURL: t.PaymentProofURL,
		Status:          string(t.Status),
		StatusReason:    t.StatusReason,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r teamRow) toDomain() team.Team {
	return team.Team{
		ID:              r.ID,
		Name:            r.Name,
		EventID:         r.EventID,
		SportID:         r.SportID,
		ManagerID:       r.ManagerID,
		LogoURL:         r.LogoURL,
		PaymentProofURL: r.PaymentProofURL,
		Status:          team.Status(r.Status),
		StatusReason:    r.StatusReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		ManagerUsername: r.ManagerUsername.String,
		ManagerEmail:    r.ManagerEmail.String,
		SportName:       r.SportName.String,
		EventName:       r.EventName.String,
	}
}

type playerTableModel struct {
	ID         string        `db:"id"`
	TeamID     string        `db:"team_id"`
	Name       string        `db:"name"`
	JerseyNo   string        `db:"jersey_no"`
	Age        sql.NullInt64 `db:"age"`
	Position   string        `db:"position"`
	PlayerType string        `db:"player_type"`
	SortOrder  int           `db:"sort_order"`
}

func (m playerTableModel) toDomain() team.Player {
	return team.Player{
		ID:       m.ID,
		TeamID:   m.TeamID,
		Name:     m.Name,
		JerseyNo: m.JerseyNo,
		Age:      intPtrFromNull(m.Age),
		Position: sport.Position(m.Position),
		Type:     team.PlayerType(m.PlayerType),
	}
}

type matchTableModel struct {
	ID           string         `db:"id"`
	EventID      string         `db:"event_id"`
	SportID      string         `db:"sport_id"`
	Team1ID      string         `db:"team1_id"`
	Team2ID      string         `db:"team2_id"`
	VenueID      sql.NullString `db:"venue_id"`
	MatchDate    time.Time      `db:"match_date"`
	Status       string         `db:"status"`
	CancelReason string         `db:"cancel_reason"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type matchRow struct {
	matchTableModel
	Team1Name sql.NullString `db:"team1_name"`
	Team2Name sql.NullString `db:"team2_name"`
	VenueName sql.NullString `db:"venue_name"`
	SportName sql.NullString `db:"sport_name"`
	EventName sql.NullString `db:"event_name"`
}

func matchToModel(m match.Match) matchTableModel {
	return matchTableModel{
		ID:           m.ID,
		EventID:      m.EventID,
		SportID:      m.SportID,
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		VenueID:      nullString(m.VenueID),
		MatchDate:    m.MatchDate.UTC(),
		Status:       string(m.Status),
		CancelReason: m.CancelReason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r matchRow) toDomain() match.Match {
	return match.Match{
		ID:           r.ID,
		EventID:      r.EventID,
		SportID:      r.SportID,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		VenueID:      r.VenueID.String,
		MatchDate:    r.MatchDate,
		Status:       match.Status(r.Status),
		CancelReason: r.CancelReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Team1Name:    r.Team1Name.String,
		Team2Name:    r.Team2Name.String,
		VenueName:    r.VenueName.String,
		SportName:    r.SportName.String,
		EventName:    r.EventName.String,
	}
}

type scoreTableModel struct {
	MatchID      string         `db:"match_id"`
	Team1Score   int            `db:"team1_score"`
	Team2Score   int            `db:"team2_score"`
	WinnerTeamID sql.NullString `db:"winner_team_id"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (m scoreTableModel) toDomain() match.Score {
	return match.Score{
		MatchID:      m.MatchID,
		Team1Score:   m.Team1Score,
		Team2Score:   m.Team2Score,
		WinnerTeamID: m.WinnerTeamID.String,
		UpdatedAt:    m.UpdatedAt,
	}
}

type standingRow struct {
	EventID       string         `db:"event_id"`
	SportID       string         `db:"sport_id"`
	TeamID        string         `db:"team_id"`
	MatchesPlayed int            `db:"matches_played"`
	Wins          int            `db:"wins"`
	Draws         int            `db:"draws"`
	Losses        int            `db:"losses"`
	GoalsFor      int            `db:"goals_for"`
	GoalsAgainst  int            `db:"goals_against"`
	Points        int            `db:"points"`
	UpdatedAt     time.Time      `db:"updated_at"`
	TeamName      sql.NullString `db:"team_name"`
	TeamStatus    sql.NullString `db:"team_status"`
}

func (r standingRow) toDomain() standing.Row {
	return standing.Row{
		EventID:       r.EventID,
		SportID:       r.SportID,
		TeamID:        r.TeamID,
		MatchesPlayed: r.MatchesPlayed,
		Wins:          r.Wins,
		Draws:         r.Draws,
		Losses:        r.Losses,
		GoalsFor:      r.GoalsFor,
		GoalsAgainst:  r.GoalsAgainst,
		Points:        r.Points,
		UpdatedAt:     r.UpdatedAt,
		TeamName:      r.TeamName.String,
		Disqualified:  r.TeamStatus.String == string(team.StatusDisqualified),
	}
}

type historyRow struct {
	ID        string         `db:"id"`
	SubjectID string         `db:"subject_id"`
	Action    string         `db:"action"`
	ActorID   string         `db:"actor_id"`
	OldValue  string         `db:"old_value"`
	NewValue  string         `db:"new_value"`
	Note      string         `db:"note"`
	CreatedAt time.Time      `db:"created_at"`
	ActorName sql.NullString `db:"actor_name"`
}

func (r historyRow) toDomain() audit.Entry {
	return audit.Entry{
		ID:        r.ID,
		SubjectID: r.SubjectID,
		Action:    audit.Action(r.Action),
		ActorID:   r.ActorID,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		ActorName: r.ActorName.String,
	}
}
