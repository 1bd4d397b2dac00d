package event

import "context"

// Repository describes event persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, bool, error)
	// GetForUpdate reads the event and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (Event, bool, error)
	List(ctx context.Context) ([]Event, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Event, error)
	// LockCalendar serializes date-overlap checks across events until the
	// transaction ends. Take it before any event row lock.
	LockCalendar(ctx context.Context) error
	// LockActive locks and returns every event currently in status active.
	LockActive(ctx context.Context) ([]Event, error)
	UpdateStatus(ctx context.Context, id string, status Status, registration RegistrationStatus) error
	UpdateRegistrationStatus(ctx context.Context, id string, registration RegistrationStatus) error

	LinkSport(ctx context.Context, eventID, sportID string) error
	UnlinkSport(ctx context.Context, eventID, sportID string) error
	HasSport(ctx context.Context, eventID, sportID string) (bool, error)
	ListSportIDs(ctx context.Context, eventID string) ([]string, error)
}
