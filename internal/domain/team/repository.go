package team

import "context"

// Repository describes team and roster persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) error
	Update(ctx context.Context, t Team) error
	UpdateStatus(ctx context.Context, id string, status Status, reason string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Team, bool, error)
	// GetForUpdate reads the team and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (Team, bool, error)
	List(ctx context.Context, filter Filter) ([]Team, error)
	// FindBlocking returns a team in one of BlockingStatuses occupying key, if any.
	FindBlocking(ctx context.Context, key Key) (Team, bool, error)
	Count(ctx context.Context, filter Filter) (int, error)
	// ListManagerIDs returns distinct managers of teams matching filter.
	ListManagerIDs(ctx context.Context, filter Filter) ([]string, error)

	ReplacePlayers(ctx context.Context, teamID string, players []Player) error
	ListPlayers(ctx context.Context, teamID string) ([]Player, error)
}
