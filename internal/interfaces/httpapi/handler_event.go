package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

type createEventRequest struct {
	Name              string `json:"name" validate:"required"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	StartDate         string `json:"startDate" validate:"required"`
	EndDate           string `json:"endDate" validate:"required"`
	RegistrationStart string `json:"registrationStartDate" validate:"required"`
	RegistrationEnd   string `json:"registrationEndDate" validate:"required"`
}

type updateEventRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Location          *string `json:"location"`
	StartDate         *string `json:"startDate"`
	EndDate           *string `json:"endDate"`
	RegistrationStart *string `json:"registrationStartDate"`
	RegistrationEnd   *string `json:"registrationEndDate"`
}

type reopenRegistrationsRequest struct {
	RegistrationStart string `json:"registrationStartDate" validate:"required"`
	RegistrationEnd   string `json:"registrationEndDate" validate:"required"`
}

type activateEventRequest struct {
	Force bool `json:"force"`
}

type activateEventResponse struct {
	Message          string    `json:"message"`
	Event            eventDTO  `json:"event"`
	CompletedEvent   *eventDTO `json:"completedEvent,omitempty"`
	CancelledMatches int       `json:"cancelledMatches"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	items, err := h.events.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "events", eventsToDTO(items))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	details, err := h.events.Details(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "details", eventDetailsToDTO(details))
}

func (h *Handler) CurrentEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CurrentEvent")
	defer span.End()

	current, err := h.events.Current(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "event", eventToDTO(current))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	var req createEventRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.events.Create(ctx, usecase.CreateEventInput{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, "Event created successfully", "event", eventToDTO(created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEvent")
	defer span.End()

	var req updateEventRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.events.Update(ctx, pathValue(r, "eventID"), usecase.UpdateEventInput{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Event updated successfully", "event", eventToDTO(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	if err := h.events.Delete(ctx, pathValue(r, "eventID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "Event deleted successfully")
}

func (h *Handler) OpenRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenRegistrations")
	defer span.End()

	updated, err := h.events.OpenRegistrations(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Registrations opened", "event", eventToDTO(updated))
}

func (h *Handler) CloseRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRegistrations")
	defer span.End()

	updated, err := h.events.CloseRegistrations(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Registrations closed", "event", eventToDTO(updated))
}

func (h *Handler) ReopenRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenRegistrations")
	defer span.End()

	var req reopenRegistrationsRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.events.ReopenRegistrations(ctx, pathValue(r, "eventID"), req.RegistrationStart, req.RegistrationEnd)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, body{
		"message":          fmt.Sprintf("Registrations reopened. %d managers notified.", result.NotifiedManagers),
		"event":            eventToDTO(result.Event),
		"notifiedManagers": result.NotifiedManagers,
	})
}

func (h *Handler) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateEvent")
	defer span.End()

	var req activateEventRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.events.Activate(ctx, pathValue(r, "eventID"), req.Force)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := activateEventResponse{
		Message:          "Event activated",
		Event:            eventToDTO(result.Event),
		CancelledMatches: result.CancelledMatches,
	}
	if result.CompletedEvent != nil {
		completed := eventToDTO(*result.CompletedEvent)
		resp.CompletedEvent = &completed
		resp.Message = fmt.Sprintf("Event activated. %s completed, %d matches cancelled.", completed.Name, result.CancelledMatches)
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *Handler) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteEvent")
	defer span.End()

	updated, err := h.events.Complete(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Event completed", "event", eventToDTO(updated))
}

func (h *Handler) ReopenEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReopenEvent")
	defer span.End()

	updated, err := h.events.Reopen(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "Event reopened", "event", eventToDTO(updated))
}

func (h *Handler) ListEventSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventSports")
	defer span.End()

	items, err := h.events.ListSports(ctx, pathValue(r, "eventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, "OK", "sports", sportsToDTO(items))
}

func (h *Handler) LinkEventSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkEventSport")
	defer span.End()

	if err := h.events.LinkSport(ctx, pathValue(r, "eventID"), pathValue(r, "sportID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "Sport added to event")
}

func (h *Handler) UnlinkEventSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlinkEventSport")
	defer span.End()

	if err := h.events.UnlinkSport(ctx, pathValue(r, "eventID"), pathValue(r, "sportID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "Sport removed from event")
}
