package ports

import (
	"context"

	"github.com/biohealth/ponto/internal/core/domain"
)

// EventRepository persists clock events.
type EventRepository interface {
	// List returns every stored event.
	List(ctx context.Context) ([]*domain.ClockEvent, error)
	ListByWorker(ctx context.Context, workerID string) ([]*domain.ClockEvent, error)
	ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.ClockEvent, error)
	FindByID(ctx context.Context, id string) (*domain.ClockEvent, error)
	Save(ctx context.Context, e *domain.ClockEvent) error
	// Update replaces a stored event. Returns domain.ErrEventNotFound when the
	// id is unknown.
	Update(ctx context.Context, e *domain.ClockEvent) error
	Delete(ctx context.Context, id string) error
	// LastEventFor returns the worker's most recent event whose status is
	// neither PENDING nor REJECTED, or domain.ErrEventNotFound.
	LastEventFor(ctx context.Context, workerID string) (*domain.ClockEvent, error)
}

// Transactor runs fn as a single unit of work. Repository calls made with the
// ctx passed to fn join the transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
