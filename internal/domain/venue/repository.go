package venue

import "context"

// Repository describes venue persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, v Venue) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Venue, bool, error)
	GetForUpdate(ctx context.Context, id string) (Venue, bool, error)
	// List returns every venue, or when sportID is set the venues serving that sport.
	List(ctx context.Context, sportID string) ([]Venue, error)
}
