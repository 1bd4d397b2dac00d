package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

type createSportRequest struct {
	Name            string `json:"name"`
	Format          string `json:"format"`
	TeamSize        int    `json:"teamSize"`
	MaxSubstitutes  int    `json:"maxSubstitutes" validate:"gte=0"`
	RegistrationFee int    `json:"registrationFee" validate:"gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type createVenueRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	SportID  string `json:"sportId"`
}

type sportDetailsResponse struct {
	Message     string        `json:"message"`
	Sport       sportDTO      `json:"sport"`
	ActiveEvent *eventDTO     `json:"activeEvent"`
	Teams       []teamDTO     `json:"teams"`
	Matches     []matchDTO    `json:"matches"`
	Leaderboard []standingDTO `json:"leaderboard"`
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	items, err := h.sports.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "sports", sportsToDTO(items))
}

func (h *Handler) GetSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSport")
	defer span.End()

	details, err := h.sports.Details(ctx, pathValue(r, "sportID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := sportDetailsResponse{
		Message:     "OK",
		Sport:       sportToDTO(details.Sport),
		Teams:       teamsToDTO(details.Teams),
		Matches:     h.matchesToDTO(details.Matches),
		Leaderboard: standingsToDTO(details.Leaderboard),
	}
	if details.ActiveEvent != nil {
		active := eventToDTO(*details.ActiveEvent)
		resp.ActiveEvent = &active
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *Handler) CreateSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSport")
	defer span.End()

	var req createSportRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.sports.Create(ctx, usecase.CreateSportInput{
		Name:            req.Name,
		Format:          req.Format,
		TeamSize:        req.TeamSize,
		MaxSubstitutes:  req.MaxSubstitutes,
		RegistrationFee: req.RegistrationFee,
		Status:          req.Status,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, "Sport created successfully", "sport", sportToDTO(created))
}

func (h *Handler) DeleteSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSport")
	defer span.End()

	deleted, err := h.sports.Delete(ctx, pathValue(r, "sportID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, fmt.Sprintf("Sport %q deleted successfully", deleted.Name))
}

// SportPositions resolves by sport name or format key.
func (h *Handler) SportPositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SportPositions")
	defer span.End()

	positions, err := h.sports.Positions(ctx, pathValue(r, "name"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if positions == nil {
		positions = []sport.Position{}
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "positions", positions)
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListVenues")
	defer span.End()

	items, err := h.venues.List(ctx, queryValue(r, "sport_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]venueDTO, 0, len(items))
	for _, v := range items {
		out = append(out, venueToDTO(v))
	}
	writeSuccess(ctx, w, http.StatusOK, "OK", "venues", out)
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateVenue")
	defer span.End()

	var req createVenueRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.venues.Create(ctx, usecase.CreateVenueInput{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		SportID:  req.SportID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, "Venue created successfully", "venue", venueToDTO(created))
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteVenue")
	defer span.End()

	deleted, err := h.venues.Delete(ctx, pathValue(r, "venueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, fmt.Sprintf("Venue %q deleted successfully", deleted.Name))
}
