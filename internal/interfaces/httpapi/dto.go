package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type eventDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Location           string    `json:"location,omitempty"`
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	RegistrationStart  string    `json:"registrationStartDate"`
	RegistrationEnd    string    `json:"registrationEndDate"`
	Status             string    `json:"status"`
	RegistrationStatus string    `json:"registrationStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func eventToDTO(e event.Event) eventDTO {
	return eventDTO{
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

func eventsToDTO(items []event.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, e := range items {
		out = append(out, eventToDTO(e))
	}
	return out
}

type sportSummaryDTO struct {
	Sport         sportDTO     `json:"sport"`
	ApprovedTeams int          `json:"approvedTeams"`
	Matches       int          `json:"matches"`
	Winner        *standingDTO `json:"winner,omitempty"`
}

type eventDetailsDTO struct {
	Event         eventDTO          `json:"event"`
	Sports        []sportSummaryDTO `json:"sports"`
	ApprovedTeams int               `json:"approvedTeams"`
	Matches       int               `json:"matches"`
}

func eventDetailsToDTO(d usecase.EventDetails) eventDetailsDTO {
	sports := make([]sportSummaryDTO, 0, len(d.Sports))
	for _, s := range d.Sports {
		summary := sportSummaryDTO{
			Sport:         sportToDTO(s.Sport),
			ApprovedTeams: s.ApprovedTeams,
			Matches:       s.Matches,
		}
		if s.Winner != nil {
			winner := standingToDTO(*s.Winner)
			summary.Winner = &winner
		}
		sports = append(sports, summary)
	}
	return eventDetailsDTO{
		Event:         eventToDTO(d.Event),
		Sports:        sports,
		ApprovedTeams: d.ApprovedTeams,
		Matches:       d.Matches,
	}
}

type sportDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Format          string    `json:"format"`
	TeamSize        int       `json:"teamSize"`
	MaxSubstitutes  int       `json:"maxSubstitutes"`
	RegistrationFee int       `json:"registrationFee"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func sportToDTO(s sport.Sport) sportDTO {
	return sportDTO{
		ID:              s.ID,
		Name:            s.Name,
		Format:          string(s.Format),
		TeamSize:        s.TeamSize,
		MaxSubstitutes:  s.MaxSubstitutes,
		RegistrationFee: s.RegistrationFee,
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
	}
}

func sportsToDTO(items []sport.Sport) []sportDTO {
	out := make([]sportDTO, 0, len(items))
	for _, s := range items {
		out = append(out, sportToDTO(s))
	}
	return out
}

type venueDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Capacity  int       `json:"capacity"`
	SportID   string    `json:"sportId,omitempty"`
	SportName string    `json:"sportName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func venueToDTO(v venue.Venue) venueDTO {
	return venueDTO{
		ID:        v.ID,
		Name:      v.Name,
		Location:  v.Location,
		Capacity:  v.Capacity,
		SportID:   v.SportID,
		SportName: v.SportName,
		CreatedAt: v.CreatedAt,
	}
}

type teamDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	EventID         string    `json:"eventId"`
	EventName       string    `json:"eventName,omitempty"`
	SportID         string    `json:"sportId"`
	SportName       string    `json:"sportName,omitempty"`
	ManagerID       string    `json:"managerId"`
	ManagerUsername string    `json:"managerUsername,omitempty"`
	ManagerEmail    string    `json:"managerEmail,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	PaymentProofURL string    `json:"paymentProofUrl,omitempty"`
	Status          string    `json:"status"`
	StatusReason    string    `json:"statusReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:              t.ID,
		Name:            t.Name,
		EventID:         t.EventID,
		EventName:       t.EventName,
		SportID:         t.SportID,
		SportName:       t.SportName,
		ManagerID:       t.ManagerID,
		ManagerUsername: t.ManagerUsername,
		ManagerEmail:    t.ManagerEmail,
		LogoURL:         t.LogoURL,
		PaymentProofURL: t.PaymentProofURL,
		Status:          string(t.Status),
		StatusReason:    t.StatusReason,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, t := range items {
		out = append(out, teamToDTO(t))
	}
	return out
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JerseyNo string `json:"jerseyNo"`
	Age      *int   `json:"age,omitempty"`
	Position string `json:"position,omitempty"`
	Type     string `json:"playerType"`
}

func playersToDTO(items []team.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerDTO{
			ID:       p.ID,
			Name:     p.Name,
			JerseyNo: p.JerseyNo,
			Age:      p.Age,
			Position: string(p.Position),
			Type:     string(p.Type),
		})
	}
	return out
}

type historyDTO struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId,omitempty"`
	ActorName string    `json:"actorName,omitempty"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func historyToDTO(items []audit.Entry) []historyDTO {
	out := make([]historyDTO, 0, len(items))
	for _, e := range items {
		out = append(out, historyDTO{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			ActorName: e.ActorName,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

type matchDTO struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	EventName    string    `json:"eventName,omitempty"`
	SportID      string    `json:"sportId"`
	SportName    string    `json:"sportName,omitempty"`
	Team1ID      string    `json:"team1Id"`
	Team1Name    string    `json:"team1Name,omitempty"`
	Team2ID      string    `json:"team2Id"`
	Team2Name    string    `json:"team2Name,omitempty"`
	VenueID      string    `json:"venueId,omitempty"`
	VenueName    string    `json:"venueName,omitempty"`
	MatchDate    string    `json:"matchDate"`
	Status       string    `json:"status"`
	CancelReason string    `json:"cancelReason,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (h *Handler) matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:           m.ID,
		EventID:      m.EventID,
		EventName:    m.EventName,
		SportID:      m.SportID,
		SportName:    m.SportName,
		Team1ID:      m.Team1ID,
		Team1Name:    m.Team1Name,
		Team2ID:      m.Team2ID,
		Team2Name:    m.Team2Name,
		VenueID:      m.VenueID,
		VenueName:    m.VenueName,
		MatchDate:    m.MatchDate.In(h.calendar.Location()).Format(time.RFC3339),
		Status:       string(m.Status),
		CancelReason: m.CancelReason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (h *Handler) matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, h.matchToDTO(m))
	}
	return out
}

type scoreDTO struct {
	Team1Score   int       `json:"team1Score"`
	Team2Score   int       `json:"team2Score"`
	WinnerTeamID *string   `json:"winnerTeamId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func scoreToDTO(s match.Score) scoreDTO {
	out := scoreDTO{
		Team1Score: s.Team1Score,
		Team2Score: s.Team2Score,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.WinnerTeamID != "" {
		winner := s.WinnerTeamID
		out.WinnerTeamID = &winner
	}
	return out
}

type standingDTO struct {
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	MatchesPlayed  int    `json:"matchesPlayed"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Disqualified   bool   `json:"disqualified"`
}

func standingToDTO(r standing.Row) standingDTO {
	return standingDTO{
		TeamID:         r.TeamID,
		TeamName:       r.TeamName,
		MatchesPlayed:  r.MatchesPlayed,
		Wins:           r.Wins,
		Draws:          r.Draws,
		Losses:         r.Losses,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference(),
		Points:         r.Points,
		Disqualified:   r.Disqualified,
	}
}

func standingsToDTO(rows []standing.Row) []standingDTO {
	out := make([]standingDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, standingToDTO(r))
	}
	return out
}
