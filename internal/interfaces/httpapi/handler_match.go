package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

type scheduleMatchRequest struct {
	EventID   string `json:"eventId"`
	SportID   string `json:"sportId"`
	Team1ID   string `json:"team1Id"`
	Team2ID   string `json:"team2Id"`
	VenueID   string `json:"venueId"`
	MatchDate string `json:"matchDate" validate:"required"`
}

type rescheduleMatchRequest struct {
	MatchDate *string `json:"matchDate"`
	VenueID   *string `json:"venueId"`
	Status    *string `json:"status"`
}

type scoreRequest struct {
	Team1Score *int `json:"team1Score" validate:"required"`
	Team2Score *int `json:"team2Score" validate:"required"`
}

type matchDetailsResponse struct {
	Message string       `json:"message"`
	Match   matchDTO     `json:"match"`
	Score   *scoreDTO    `json:"score"`
	History []historyDTO `json:"history"`
}

type scoreResponse struct {
	Message   string   `json:"message"`
	Match     matchDTO `json:"match"`
	Score     scoreDTO `json:"score"`
	Corrected bool     `json:"corrected"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.matches.List(ctx, usecase.MatchListInput{
		EventID: queryValue(r, "event_id"),
		SportID: queryValue(r, "sport_id"),
		TeamID:  queryValue(r, "team_id"),
		Status:  queryValue(r, "status"),
		From:    queryValue(r, "from"),
		To:      queryValue(r, "to"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "matches", h.matchesToDTO(items))
}

func (h *Handler) MyMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MyMatches")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matches.Mine(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "matches", h.matchesToDTO(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	details, err := h.matches.Get(ctx, pathValue(r, "matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := matchDetailsResponse{
		Message: "OK",
		Match:   h.matchToDTO(details.Match),
		History: historyToDTO(details.History),
	}
	if details.Score != nil {
		score := scoreToDTO(*details.Score)
		resp.Score = &score
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *Handler) ScheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleMatch")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req scheduleMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scheduled, err := h.matches.Schedule(ctx, principal, usecase.ScheduleMatchInput{
		EventID:   req.EventID,
		SportID:   req.SportID,
		Team1ID:   req.Team1ID,
		Team2ID:   req.Team2ID,
		VenueID:   req.VenueID,
		MatchDate: req.MatchDate,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, "Match scheduled successfully", "match", h.matchToDTO(scheduled))
}

func (h *Handler) RescheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescheduleMatch")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req rescheduleMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matches.Reschedule(ctx, principal, pathValue(r, "matchID"), usecase.RescheduleMatchInput{
		MatchDate: req.MatchDate,
		VenueID:   req.VenueID,
		Status:    req.Status,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Match updated successfully", "match", h.matchToDTO(updated))
}

func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitScore")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req scoreRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.standings.SubmitScore(ctx, principal, pathValue(r, "matchID"), *req.Team1Score, *req.Team2Score)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	message := "Match ended in a draw"
	if result.WinnerName != "" {
		message = fmt.Sprintf("%s wins", result.WinnerName)
	}
	if result.Corrected {
		message = "Score corrected. " + message
	}
	writeJSON(ctx, w, http.StatusOK, scoreResponse{
		Message:   message,
		Match:     h.matchToDTO(result.Match),
		Score:     scoreToDTO(result.Score),
		Corrected: result.Corrected,
	})
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req reasonRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cancelled, err := h.matches.Cancel(ctx, principal, pathValue(r, "matchID"), req.Reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Match cancelled", "match", h.matchToDTO(cancelled))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	if err := h.matches.Delete(ctx, pathValue(r, "matchID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "Match deleted successfully")
}

// Points serves the standings table; sport_id may be "overall". Without
// event_id the current event is used.
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Points")
	defer span.End()

	eventID := queryValue(r, "event_id")
	if eventID == "" {
		current, err := h.events.Current(ctx)
		if errors.Is(err, usecase.ErrNotFound) {
			writeSuccess(ctx, w, http.StatusOK, "No current event", "standings", []standingDTO{})
			return
		}
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		eventID = current.ID
	}

	rows, err := h.standings.Table(ctx, eventID, queryValue(r, "sport_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "standings", standingsToDTO(rows))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "store ping failed", "error", err)
			writeJSON(ctx, w, http.StatusServiceUnavailable, body{"message": "store unavailable", "store": "unavailable"})
			return
		}
	}

	writeJSON(ctx, w, http.StatusOK, body{"message": "ok", "store": "ok"})
}
