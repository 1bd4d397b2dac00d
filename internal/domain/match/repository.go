package match

import "context"

// Repository describes match and score persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Match, bool, error)
	// GetForUpdate reads the match and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context, filter Filter) ([]Match, error)
	Count(ctx context.Context, filter Filter) (int, error)
	FindConflicts(ctx context.Context, q ConflictQuery) ([]Match, error)
	// Cancel marks every match matching filter as cancelled and returns them.
	Cancel(ctx context.Context, filter Filter, reason string) ([]Match, error)

	GetScore(ctx context.Context, matchID string) (Score, bool, error)
	UpsertScore(ctx context.Context, s Score) error
}
