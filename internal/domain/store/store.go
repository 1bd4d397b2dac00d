package store

import (
	"context"
	"errors"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
)

// ErrDuplicate is returned by writes that would violate a uniqueness rule,
// such as a second account for one email or a second live registration for
// the same manager, event and sport.
var ErrDuplicate = errors.New("duplicate record")

// Tx exposes every repository bound to a single unit of work.
type Tx interface {
	Events() event.Repository
	Sports() sport.Repository
	Venues() venue.Repository
	Teams() team.Repository
	Matches() match.Repository
	Standings() standing.Repository
	Audit() audit.Repository
	Users() user.Repository
}

// Transactor runs fn atomically. It commits when fn returns nil and rolls
// back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Store is the full persistence surface. Reads outside a transaction go
// through the embedded Tx accessors.
type Store interface {
	Tx
	Transactor
	Ping(ctx context.Context) error
}
