package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const (
	teamTable   = "teams"
	playerTable = "players"
)

type teamRepository struct {
	s *Store
}

// Create relies on teams_live_registration_uidx to reject a second live
// registration for the same manager, event and sport.
func (r teamRepository) Create(ctx context.Context, t team.Team) error {
	query, args, err := qb.InsertModel(teamTable, teamToModel(t), "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert team", query, args...)
	return err
}

func (r teamRepository) Update(ctx context.Context, t team.Team) error {
	query, args, err := qb.UpdateModel(teamTable, teamToModel(t), []string{"id", "created_at"}, qb.Eq("id", t.ID))
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	affected, err := r.s.execRaw(ctx, "update team", query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("team %s not found", t.ID)
	}
	return nil
}

func (r teamRepository) UpdateStatus(ctx context.Context, id string, status team.Status, reason string) error {
	affected, err := r.s.exec(ctx, "update team status", qb.Update(teamTable).
		Set("status", string(status)).
		Set("status_reason", reason).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", id)))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("team %s not found", id)
	}
	return nil
}

// Delete cascades to players, history, standings and the team's matches.
func (r teamRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.exec(ctx, "delete team", qb.DeleteFrom(teamTable).Where(qb.Eq("id", id)))
	return err
}

func (r teamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	var row teamRow
	ok, err := r.s.get(ctx, "select team", &row, teamSelect().Where(qb.Eq("t.id", id)))
	if err != nil || !ok {
		return team.Team{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r teamRepository) GetForUpdate(ctx context.Context, id string) (team.Team, bool, error) {
	ok, err := r.s.lockRow(ctx, teamTable, id)
	if err != nil || !ok {
		return team.Team{}, false, err
	}
	return r.GetByID(ctx, id)
}

func (r teamRepository) List(ctx context.Context, filter team.Filter) ([]team.Team, error) {
	b := teamSelect().Where(teamConditions(filter)...).OrderBy("LOWER(t.name)", "t.id")
	if filter.Limit > 0 {
		b.Limit(filter.Limit)
	}

	var rows []teamRow
	if err := r.s.selectInto(ctx, "select teams", &rows, b); err != nil {
		return nil, err
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r teamRepository) FindBlocking(ctx context.Context, key team.Key) (team.Team, bool, error) {
	var row teamRow
	ok, err := r.s.get(ctx, "select blocking team", &row, teamSelect().
		Where(teamConditions(team.Filter{
			EventID:   key.EventID,
			SportID:   key.SportID,
			ManagerID: key.ManagerID,
			Statuses:  team.BlockingStatuses,
		})...).
		OrderBy("t.created_at DESC").
		Limit(1))
	if err != nil || !ok {
		return team.Team{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r teamRepository) Count(ctx context.Context, filter team.Filter) (int, error) {
	var count int
	_, err := r.s.get(ctx, "count teams", &count, qb.Select("COUNT(1)").From("teams t").Where(teamConditions(filter)...))
	return count, err
}

func (r teamRepository) ListManagerIDs(ctx context.Context, filter team.Filter) ([]string, error) {
	out := make([]string, 0)
	err := r.s.selectInto(ctx, "select team managers", &out, qb.Select("DISTINCT t.manager_id").
		From("teams t").
		Where(teamConditions(filter)...).
		OrderBy("t.manager_id"))
	return out, err
}

// ReplacePlayers swaps the whole roster; order is kept through sort_order.
func (r teamRepository) ReplacePlayers(ctx context.Context, teamID string, players []team.Player) error {
	if _, err := r.s.exec(ctx, "delete players", qb.DeleteFrom(playerTable).Where(qb.Eq("team_id", teamID))); err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}

	insert := qb.InsertInto(playerTable).Columns(qb.Columns(playerTableModel{}, "")...)
	for i, p := range players {
		insert.Values(p.ID, teamID, p.Name, p.JerseyNo, nullIntPtr(p.Age), string(p.Position), string(p.Type), i)
	}
	_, err := r.s.exec(ctx, "insert players", insert)
	return err
}

func (r teamRepository) ListPlayers(ctx context.Context, teamID string) ([]team.Player, error) {
	var rows []playerTableModel
	err := r.s.selectInto(ctx, "select players", &rows, qb.Select(qb.Columns(playerTableModel{}, "")...).
		From(playerTable).
		Where(qb.Eq("team_id", teamID)).
		OrderBy("sort_order", "id"))
	if err != nil {
		return nil, err
	}
	out := make([]team.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func teamSelect() *qb.SelectBuilder {
	cols := append(qb.Columns(teamTableModel{}, "t"),
		"u.username AS manager_username",
		"u.email AS manager_email",
		"s.name AS sport_name",
		"e.name AS event_name",
	)
	return qb.Select(cols...).
		From("teams t").
		Join("LEFT JOIN users u ON u.id = t.manager_id").
		Join("LEFT JOIN sports s ON s.id = t.sport_id").
		Join("LEFT JOIN events e ON e.id = t.event_id")
}

func teamConditions(f team.Filter) []qb.Condition {
	var conds []qb.Condition
	if f.EventID != "" {
		conds = append(conds, qb.Eq("t.event_id", f.EventID))
	}
	if f.SportID != "" {
		conds = append(conds, qb.Eq("t.sport_id", f.SportID))
	}
	if f.ManagerID != "" {
		conds = append(conds, qb.Eq("t.manager_id", f.ManagerID))
	}
	if len(f.Statuses) > 0 {
		conds = append(conds, qb.InStrings("t.status", f.Statuses))
	}
	if q := strings.TrimSpace(f.NameContains); q != "" {
		conds = append(conds, qb.ILike("t.name", containsPattern(q)))
	}
	return conds
}
