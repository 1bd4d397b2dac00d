package standing

import "context"

// Repository persists points table rows.
type Repository interface {
	// Create inserts a zeroed row; an existing row for the team is left as is.
	Create(ctx context.Context, eventID, sportID, teamID string) error
	Get(ctx context.Context, eventID, sportID, teamID string) (Row, bool, error)
	ApplyDelta(ctx context.Context, eventID, sportID string, d Delta) error
	// ResetForDisqualification zeroes wins, draws and points only. Losses and
	// goals are kept; standings sort disqualified rows last regardless.
	ResetForDisqualification(ctx context.Context, eventID, sportID, teamID string) error
	List(ctx context.Context, filter Filter) ([]Row, error)
}
