package sport

import "context"

// Repository describes sport persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, s Sport) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Sport, bool, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (Sport, bool, error)
	List(ctx context.Context) ([]Sport, error)
	ListByIDs(ctx context.Context, ids []string) ([]Sport, error)
}
