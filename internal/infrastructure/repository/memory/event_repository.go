package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
)

type eventRepository struct {
	s *Store
}

func (r eventRepository) Create(ctx context.Context, e event.Event) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.events[e.ID]; ok {
			return fmt.Errorf("create event %s: %w", e.ID, store.ErrDuplicate)
		}
		if e.Status == event.StatusActive && hasActiveEvent(d, "") {
			return fmt.Errorf("create event %s: %w", e.ID, store.ErrDuplicate)
		}
		d.events[e.ID] = e
		return nil
	})
}

func (r eventRepository) Update(ctx context.Context, e event.Event) error {
	return r.s.write(ctx, func(d *state) error {
		current, ok := d.events[e.ID]
		if !ok {
			return fmt.Errorf("event %s not found", e.ID)
		}
		if e.Status == event.StatusActive && hasActiveEvent(d, e.ID) {
			return fmt.Errorf("update event %s: %w", e.ID, store.ErrDuplicate)
		}
		e.CreatedAt = current.CreatedAt
		d.events[e.ID] = e
		return nil
	})
}

// Delete removes the event with every team, match and standings row scoped to it.
func (r eventRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.events[id]; !ok {
			return nil
		}
		for matchID, m := range d.matches {
			if m.EventID == id {
				deleteMatch(d, matchID)
			}
		}
		for teamID, t := range d.teams {
			if t.EventID == id {
				deleteTeam(d, teamID)
			}
		}
		for key := range d.standings {
			if key.eventID == id {
				delete(d.standings, key)
			}
		}
		delete(d.eventSports, id)
		delete(d.events, id)
		return nil
	})
}

func (r eventRepository) GetByID(ctx context.Context, id string) (event.Event, bool, error) {
	var (
		out event.Event
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.events[id]
	})
	return out, ok, nil
}

func (r eventRepository) GetForUpdate(ctx context.Context, id string) (event.Event, bool, error) {
	return r.GetByID(ctx, id)
}

func (r eventRepository) List(ctx context.Context) ([]event.Event, error) {
	return r.ListByStatus(ctx)
}

func (r eventRepository) ListByStatus(ctx context.Context, statuses ...event.Status) ([]event.Event, error) {
	var out []event.Event
	r.s.read(ctx, func(d *state) {
		out = make([]event.Event, 0, len(d.events))
		for _, e := range d.events {
			if len(statuses) > 0 && !hasEventStatus(statuses, e.Status) {
				continue
			}
			out = append(out, e)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LockCalendar is a no-op: memory transactions already run one at a time.
func (r eventRepository) LockCalendar(context.Context) error {
	return nil
}

func (r eventRepository) LockActive(ctx context.Context) ([]event.Event, error) {
	return r.ListByStatus(ctx, event.StatusActive)
}

func (r eventRepository) UpdateStatus(ctx context.Context, id string, status event.Status, registration event.RegistrationStatus) error {
	return r.s.write(ctx, func(d *state) error {
		e, ok := d.events[id]
		if !ok {
			return fmt.Errorf("event %s not found", id)
		}
		if status == event.StatusActive && hasActiveEvent(d, id) {
			return fmt.Errorf("activate event %s: %w", id, store.ErrDuplicate)
		}
		e.Status = status
		e.RegistrationStatus = registration
		e.UpdatedAt = time.Now().UTC()
		d.events[id] = e
		return nil
	})
}

func (r eventRepository) UpdateRegistrationStatus(ctx context.Context, id string, registration event.RegistrationStatus) error {
	return r.s.write(ctx, func(d *state) error {
		e, ok := d.events[id]
		if !ok {
			return fmt.Errorf("event %s not found", id)
		}
		e.RegistrationStatus = registration
		e.UpdatedAt = time.Now().UTC()
		d.events[id] = e
		return nil
	})
}

func (r eventRepository) LinkSport(ctx context.Context, eventID, sportID string) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.events[eventID]; !ok {
			return fmt.Errorf("event %s not found", eventID)
		}
		if _, ok := d.sports[sportID]; !ok {
			return fmt.Errorf("sport %s not found", sportID)
		}
		links, ok := d.eventSports[eventID]
		if !ok {
			links = make(map[string]struct{})
			d.eventSports[eventID] = links
		}
		links[sportID] = struct{}{}
		return nil
	})
}

func (r eventRepository) UnlinkSport(ctx context.Context, eventID, sportID string) error {
	return r.s.write(ctx, func(d *state) error {
		delete(d.eventSports[eventID], sportID)
		return nil
	})
}

func (r eventRepository) HasSport(ctx context.Context, eventID, sportID string) (bool, error) {
	var ok bool
	r.s.read(ctx, func(d *state) {
		_, ok = d.eventSports[eventID][sportID]
	})
	return ok, nil
}

func (r eventRepository) ListSportIDs(ctx context.Context, eventID string) ([]string, error) {
	var out []string
	r.s.read(ctx, func(d *state) {
		out = make([]string, 0, len(d.eventSports[eventID]))
		for id := range d.eventSports[eventID] {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out, nil
}

func hasActiveEvent(d *state, exceptID string) bool {
	for id, e := range d.events {
		if id != exceptID && e.Status == event.StatusActive {
			return true
		}
	}
	return false
}

func hasEventStatus(statuses []event.Status, s event.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
