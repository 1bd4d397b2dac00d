package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

const internalErrorMessage = "internal server error"

type messageResponse struct {
	Message string `json:"message"`
}

type forceRequiredResponse struct {
	Message         string `json:"message"`
	RequiresForce   bool   `json:"requiresForce"`
	ActiveEventName string `json:"activeEventName"`
	PendingMatches  int    `json:"pendingMatches"`
}

// body is a success payload: a message plus resource specific fields.
type body map[string]any

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, messageResponse{Message: message})
}

// writeSuccess renders {"message": message, key: data}. An empty key writes
// only the message.
func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, message, key string, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	payload := body{"message": message}
	if key != "" {
		payload[key] = data
	}
	writeJSON(ctx, w, status, payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	var forceErr *usecase.ForceRequiredError
	if errors.As(err, &forceErr) {
		writeJSON(ctx, w, http.StatusBadRequest, forceRequiredResponse{
			Message:         forceErr.Error() + ". Use force to cancel them and complete the event.",
			RequiresForce:   true,
			ActiveEventName: forceErr.ActiveEventName,
			PendingMatches:  forceErr.PendingMatches,
		})
		return
	}

	status := mapError(ctx, err)
	if status == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}
	writeMessage(ctx, w, status, publicMessage(err))
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeMessage(ctx, w, http.StatusInternalServerError, internalErrorMessage)
}

func mapError(ctx context.Context, err error) int {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, usecase.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var publicSentinels = []error{
	usecase.ErrInvalidInput,
	usecase.ErrConflict,
	usecase.ErrNotFound,
	usecase.ErrUnauthorized,
	usecase.ErrForbidden,
	usecase.ErrDependencyUnavailable,
}

// publicMessage drops everything up to and including the sentinel prefix, so
// "get team: conflict: Team already approved" renders as "Team already approved".
func publicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range publicSentinels {
		prefix := sentinel.Error() + ": "
		if idx := strings.Index(msg, prefix); idx >= 0 {
			return strings.TrimSpace(msg[idx+len(prefix):])
		}
	}
	return msg
}
