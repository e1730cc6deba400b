package memory

import (
	"context"

	"github.com/biohealth/ponto/internal/core/domain"
)

// EventRepository implements ports.EventRepository. Events are kept in
// insertion order.
type EventRepository struct {
	store *Store
}

func (r *EventRepository) List(ctx context.Context) ([]*domain.ClockEvent, error) {
	return r.filter(ctx, func(*domain.ClockEvent) bool { return true }), nil
}

func (r *EventRepository) ListByWorker(ctx context.Context, workerID string) ([]*domain.ClockEvent, error) {
	return r.filter(ctx, func(e *domain.ClockEvent) bool { return e.WorkerID == workerID }), nil
}

func (r *EventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.ClockEvent, error) {
	return r.filter(ctx, func(e *domain.ClockEvent) bool { return e.Status == status }), nil
}

func (r *EventRepository) filter(ctx context.Context, keep func(*domain.ClockEvent) bool) []*domain.ClockEvent {
	out := []*domain.ClockEvent{}
	r.store.read(ctx, func(d *state) {
		for _, e := range d.Events {
			if keep(e) {
				out = append(out, e.Clone())
			}
		}
	})
	return out
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.ClockEvent, error) {
	var found *domain.ClockEvent
	r.store.read(ctx, func(d *state) {
		if i := eventIndex(d, id); i >= 0 {
			found = d.Events[i].Clone()
		}
	})
	if found == nil {
		return nil, domain.ErrEventNotFound
	}
	return found, nil
}

// Save appends the event, replacing any stored event with the same id.
func (r *EventRepository) Save(ctx context.Context, e *domain.ClockEvent) error {
	return r.store.write(ctx, func(d *state) error {
		if i := eventIndex(d, e.ID); i >= 0 {
			d.Events[i] = e.Clone()
			return nil
		}
		d.Events = append(d.Events, e.Clone())
		return nil
	})
}

func (r *EventRepository) Update(ctx context.Context, e *domain.ClockEvent) error {
	return r.store.write(ctx, func(d *state) error {
		i := eventIndex(d, e.ID)
		if i < 0 {
			return domain.ErrEventNotFound
		}
		d.Events[i] = e.Clone()
		return nil
	})
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		i := eventIndex(d, id)
		if i < 0 {
			return domain.ErrEventNotFound
		}
		d.Events = append(d.Events[:i], d.Events[i+1:]...)
		return nil
	})
}

// LastEventFor picks the latest countable event. Equal timestamps resolve to
// the one stored last.
func (r *EventRepository) LastEventFor(ctx context.Context, workerID string) (*domain.ClockEvent, error) {
	var last *domain.ClockEvent
	r.store.read(ctx, func(d *state) {
		for _, e := range d.Events {
			if e.WorkerID != workerID || !e.Status.Countable() {
				continue
			}
			if last == nil || !e.Timestamp.Before(last.Timestamp) {
				last = e
			}
		}
		last = last.Clone()
	})
	if last == nil {
		return nil, domain.ErrEventNotFound
	}
	return last, nil
}

func eventIndex(d *state, id string) int {
	for i, e := range d.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}
