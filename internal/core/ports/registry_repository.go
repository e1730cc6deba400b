package ports

import (
	"context"

	"github.com/biohealth/ponto/internal/core/domain"
)

// WorkerRepository persists cooperative workers.
type WorkerRepository interface {
	List(ctx context.Context) ([]*domain.Worker, error)
	FindByID(ctx context.Context, id string) (*domain.Worker, error)
	// Save creates or replaces the worker.
	Save(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id string) error
}

// SiteRepository persists hospitals and their sectors.
type SiteRepository interface {
	List(ctx context.Context) ([]*domain.Site, error)
	FindByID(ctx context.Context, id string) (*domain.Site, error)
	Save(ctx context.Context, s *domain.Site) error
	Delete(ctx context.Context, id string) error
}

// AuditRepository keeps a capped, newest-first audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	// List returns at most limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

// UserRepository persists login accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
