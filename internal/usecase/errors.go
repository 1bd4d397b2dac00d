package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ForceRequiredError is returned when activating an event would cancel the
// pending matches of the currently active event and force was not set.
type ForceRequiredError struct {
	ActiveEventName string
	PendingMatches  int
}

func (e *ForceRequiredError) Error() string {
	return fmt.Sprintf("Current event %q has %d pending matches", e.ActiveEventName, e.PendingMatches)
}

func (e *ForceRequiredError) Unwrap() error {
	return ErrConflict
}
