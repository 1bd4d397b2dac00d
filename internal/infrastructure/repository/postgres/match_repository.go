package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const (
	matchTable = "matches"
	scoreTable = "match_scores"
)

type matchRepository struct {
	s *Store
}

func (r matchRepository) Create(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel(matchTable, matchToModel(m), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert match", query, args...)
	return err
}

func (r matchRepository) Update(ctx context.Context, m match.Match) error {
	query, args, err := qb.UpdateModel(matchTable, matchToModel(m), []string{"id", "created_at"}, qb.Eq("id", m.ID))
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	affected, err := r.s.execRaw(ctx, "update match", query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match %s not found", m.ID)
	}
	return nil
}

// Delete cascades to the score and history rows.
func (r matchRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.exec(ctx, "delete match", qb.DeleteFrom(matchTable).Where(qb.Eq("id", id)))
	return err
}

func (r matchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	var row matchRow
	ok, err := r.s.get(ctx, "select match", &row, matchSelect().Where(qb.Eq("m.id", id)))
	if err != nil || !ok {
		return match.Match{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r matchRepository) GetForUpdate(ctx context.Context, id string) (match.Match, bool, error) {
	ok, err := r.s.lockRow(ctx, matchTable, id)
	if err != nil || !ok {
		return match.Match{}, false, err
	}
	return r.GetByID(ctx, id)
}

func (r matchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	return r.list(ctx, "select matches", matchSelect().Where(matchConditions(filter, "m.")...).OrderBy("m.match_date", "m.id"))
}

func (r matchRepository) Count(ctx context.Context, filter match.Filter) (int, error) {
	var count int
	_, err := r.s.get(ctx, "count matches", &count, qb.Select("COUNT(1)").From("matches m").Where(matchConditions(filter, "m.")...))
	return count, err
}

func (r matchRepository) FindConflicts(ctx context.Context, q match.ConflictQuery) ([]match.Match, error) {
	b, ok := conflictSelect(q)
	if !ok {
		return []match.Match{}, nil
	}
	return r.list(ctx, "select conflicting matches", b)
}

func (r matchRepository) Cancel(ctx context.Context, filter match.Filter, reason string) ([]match.Match, error) {
	query, args, err := qb.Update(matchTable).
		Set("status", string(match.StatusCancelled)).
		Set("cancel_reason", reason).
		Set("updated_at", time.Now().UTC()).
		Where(matchConditions(filter, "")...).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build cancel matches query: %w", err)
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, r.s.conn(ctx), &ids, query, args...); err != nil {
		return nil, translateError("cancel matches", err)
	}
	if len(ids) == 0 {
		return []match.Match{}, nil
	}
	return r.list(ctx, "select cancelled matches", matchSelect().Where(qb.InStrings("m.id", ids)).OrderBy("m.match_date", "m.id"))
}

func (r matchRepository) GetScore(ctx context.Context, matchID string) (match.Score, bool, error) {
	var row scoreTableModel
	ok, err := r.s.get(ctx, "select match score", &row, qb.Select(qb.Columns(scoreTableModel{}, "")...).
		From(scoreTable).
		Where(qb.Eq("match_id", matchID)))
	if err != nil || !ok {
		return match.Score{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r matchRepository) UpsertScore(ctx context.Context, s match.Score) error {
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.s.exec(ctx, "upsert match score", qb.InsertInto(scoreTable).
		Columns("match_id", "team1_score", "team2_score", "winner_team_id", "updated_at").
		Values(s.MatchID, s.Team1Score, s.Team2Score, nullString(s.WinnerTeamID), updatedAt).
		Suffix(`ON CONFLICT (match_id) DO UPDATE SET
team1_score = EXCLUDED.team1_score,
team2_score = EXCLUDED.team2_score,
winner_team_id = EXCLUDED.winner_team_id,
updated_at = EXCLUDED.updated_at`))
	return err
}

func (r matchRepository) list(ctx context.Context, op string, b sqlBuilder) ([]match.Match, error) {
	var rows []matchRow
	if err := r.s.selectInto(ctx, op, &rows, b); err != nil {
		return nil, err
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func matchSelect() *qb.SelectBuilder {
	cols := append(qb.Columns(matchTableModel{}, "m"),
		"t1.name AS team1_name",
		"t2.name AS team2_name",
		"v.name AS venue_name",
		"s.name AS sport_name",
		"e.name AS event_name",
	)
	return qb.Select(cols...).
		From("matches m").
		Join("LEFT JOIN teams t1 ON t1.id = m.team1_id").
		Join("LEFT JOIN teams t2 ON t2.id = m.team2_id").
		Join("LEFT JOIN venues v ON v.id = m.venue_id").
		Join("LEFT JOIN sports s ON s.id = m.sport_id").
		Join("LEFT JOIN events e ON e.id = m.event_id")
}

// matchConditions renders f against columns carrying prefix ("m." or "").
func matchConditions(f match.Filter, prefix string) []qb.Condition {
	var conds []qb.Condition
	if f.EventID != "" {
		conds = append(conds, qb.Eq(prefix+"event_id", f.EventID))
	}
	if f.SportID != "" {
		conds = append(conds, qb.Eq(prefix+"sport_id", f.SportID))
	}
	if f.VenueID != "" {
		conds = append(conds, qb.Eq(prefix+"venue_id", f.VenueID))
	}
	if len(f.TeamIDs) > 0 {
		conds = append(conds, qb.Or(
			qb.InStrings(prefix+"team1_id", f.TeamIDs),
			qb.InStrings(prefix+"team2_id", f.TeamIDs),
		))
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, qb.InStrings(prefix+"status", f.Statuses))
	}
	if !f.After.IsZero() {
		conds = append(conds, qb.Gt(prefix+"match_date", f.After.UTC()))
	}
	if !f.Before.IsZero() {
		conds = append(conds, qb.Lt(prefix+"match_date", f.Before.UTC()))
	}
	return conds
}

// conflictSelect finds occupying matches strictly closer than
// match.ConflictWindow to q.At that share a team or the venue.
func conflictSelect(q match.ConflictQuery) (*qb.SelectBuilder, bool) {
	var shared []qb.Condition
	if q.VenueID != "" {
		shared = append(shared, qb.Eq("m.venue_id", q.VenueID))
	}
	if len(q.TeamIDs) > 0 {
		shared = append(shared,
			qb.InStrings("m.team1_id", q.TeamIDs),
			qb.InStrings("m.team2_id", q.TeamIDs),
		)
	}
	if len(shared) == 0 {
		return nil, false
	}

	at := q.At.UTC()
	conds := []qb.Condition{
		qb.InStrings("m.status", match.OccupyingStatuses),
		qb.Gt("m.match_date", at.Add(-match.ConflictWindow)),
		qb.Lt("m.match_date", at.Add(match.ConflictWindow)),
		qb.Or(shared...),
	}
	if q.ExcludeID != "" {
		conds = append(conds, qb.Neq("m.id", q.ExcludeID))
	}
	return matchSelect().Where(conds...).OrderBy("m.match_date", "m.id"), true
}
