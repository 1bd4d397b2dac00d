package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const eventTable = "events"

type eventRepository struct {
	s *Store
}

func (r eventRepository) Create(ctx context.Context, e event.Event) error {
	query, args, err := qb.InsertModel(eventTable, eventToModel(e), "")
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert event", query, args...)
	return err
}

func (r eventRepository) Update(ctx context.Context, e event.Event) error {
	query, args, err := qb.UpdateModel(eventTable, eventToModel(e), []string{"id", "created_at"}, qb.Eq("id", e.ID))
	if err != nil {
		return fmt.Errorf("build update event query: %w", err)
	}
	affected, err := r.s.execRaw(ctx, "update event", query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", e.ID)
	}
	return nil
}

// Delete cascades through foreign keys to teams, matches, standings and links.
func (r eventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.exec(ctx, "delete event", qb.DeleteFrom(eventTable).Where(qb.Eq("id", id)))
	return err
}

func (r eventRepository) GetByID(ctx context.Context, id string) (event.Event, bool, error) {
	return r.getOne(ctx, "select event", qb.Select(eventColumns()...).From(eventTable).Where(qb.Eq("id", id)))
}

func (r eventRepository) GetForUpdate(ctx context.Context, id string) (event.Event, bool, error) {
	return r.getOne(ctx, "select event for update", qb.Select(eventColumns()...).From(eventTable).Where(qb.Eq("id", id)).ForUpdate())
}

func (r eventRepository) List(ctx context.Context) ([]event.Event, error) {
	return r.ListByStatus(ctx)
}

func (r eventRepository) ListByStatus(ctx context.Context, statuses ...event.Status) ([]event.Event, error) {
	b := qb.Select(eventColumns()...).From(eventTable).OrderBy("start_date DESC", "id")
	if len(statuses) > 0 {
		b.Where(qb.InStrings("status", statuses))
	}
	return r.list(ctx, "select events", b)
}

// calendarLockKey is the advisory lock guarding event date overlap checks.
const calendarLockKey int64 = 0x6576656e74 // "event"

func (r eventRepository) LockCalendar(ctx context.Context) error {
	_, err := r.s.execRaw(ctx, "lock event calendar", "SELECT pg_advisory_xact_lock($1)", calendarLockKey)
	return err
}

func (r eventRepository) LockActive(ctx context.Context) ([]event.Event, error) {
	b := qb.Select(eventColumns()...).From(eventTable).
		Where(qb.Eq("status", string(event.StatusActive))).
		OrderBy("id").
		ForUpdate()
	return r.list(ctx, "lock active events", b)
}

func (r eventRepository) UpdateStatus(ctx context.Context, id string, status event.Status, registration event.RegistrationStatus) error {
	affected, err := r.s.exec(ctx, "update event status", qb.Update(eventTable).
		Set("status", string(status)).
		Set("registration_status", string(registration)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", id)))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

func (r eventRepository) UpdateRegistrationStatus(ctx context.Context, id string, registration event.RegistrationStatus) error {
	affected, err := r.s.exec(ctx, "update event registration status", qb.Update(eventTable).
		Set("registration_status", string(registration)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", id)))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

func (r eventRepository) LinkSport(ctx context.Context, eventID, sportID string) error {
	_, err := r.s.exec(ctx, "link event sport", qb.InsertInto("event_sports").
		Columns("event_id", "sport_id").
		Values(eventID, sportID).
		Suffix("ON CONFLICT (event_id, sport_id) DO NOTHING"))
	return err
}

func (r eventRepository) UnlinkSport(ctx context.Context, eventID, sportID string) error {
	_, err := r.s.exec(ctx, "unlink event sport", qb.DeleteFrom("event_sports").
		Where(qb.Eq("event_id", eventID), qb.Eq("sport_id", sportID)))
	return err
}

func (r eventRepository) HasSport(ctx context.Context, eventID, sportID string) (bool, error) {
	var count int
	_, err := r.s.get(ctx, "count event sport", &count, qb.Select("COUNT(1)").From("event_sports").
		Where(qb.Eq("event_id", eventID), qb.Eq("sport_id", sportID)))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r eventRepository) ListSportIDs(ctx context.Context, eventID string) ([]string, error) {
	out := make([]string, 0)
	err := r.s.selectInto(ctx, "select event sport ids", &out, qb.Select("sport_id").From("event_sports").
		Where(qb.Eq("event_id", eventID)).
		OrderBy("sport_id"))
	return out, err
}

func (r eventRepository) getOne(ctx context.Context, op string, b sqlBuilder) (event.Event, bool, error) {
	var row eventRow
	ok, err := r.s.get(ctx, op, &row, b)
	if err != nil || !ok {
		return event.Event{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r eventRepository) list(ctx context.Context, op string, b sqlBuilder) ([]event.Event, error) {
	var rows []eventRow
	if err := r.s.selectInto(ctx, op, &rows, b); err != nil {
		return nil, err
	}
	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func eventColumns() []string {
	return qb.Columns(eventRow{}, "")
}
