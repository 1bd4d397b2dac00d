package audit

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreated      Action = "created"
	ActionApproved     Action = "approved"
	ActionRejected     Action = "rejected"
	ActionDisqualified Action = "disqualified"
	ActionUpdated      Action = "updated"
	ActionRescheduled  Action = "rescheduled"
	ActionScoreUpdated Action = "score_updated"
	ActionCancelled    Action = "cancelled"
)

// Entry is an append-only history record for a team or a match.
type Entry struct {
	ID        string
	SubjectID string
	Action    Action
	ActorID   string
	OldValue  string
	NewValue  string
	Note      string
	CreatedAt time.Time

	ActorName string
}

// Repository appends and lists team registration and match histories.
// Entries are never updated or deleted.
type Repository interface {
	AppendTeam(ctx context.Context, e Entry) error
	ListTeam(ctx context.Context, teamID string) ([]Entry, error)
	AppendMatch(ctx context.Context, e Entry) error
	ListMatch(ctx context.Context, matchID string) ([]Entry, error)
}
