package memory

import (
	"context"

	"github.com/biohealth/ponto/internal/core/domain"
)

// WorkerRepository implements ports.WorkerRepository.
type WorkerRepository struct {
	store *Store
}

func (r *WorkerRepository) List(ctx context.Context) ([]*domain.Worker, error) {
	out := []*domain.Worker{}
	r.store.read(ctx, func(d *state) {
		for _, w := range d.Workers {
			out = append(out, w.Clone())
		}
	})
	return out, nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*domain.Worker, error) {
	var found *domain.Worker
	r.store.read(ctx, func(d *state) {
		for _, w := range d.Workers {
			if w.ID == id {
				found = w.Clone()
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrWorkerNotFound
	}
	return found, nil
}

func (r *WorkerRepository) Save(ctx context.Context, w *domain.Worker) error {
	return r.store.write(ctx, func(d *state) error {
		for i, existing := range d.Workers {
			if existing.ID == w.ID {
				d.Workers[i] = w.Clone()
				return nil
			}
		}
		d.Workers = append(d.Workers, w.Clone())
		return nil
	})
}

func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		for i, w := range d.Workers {
			if w.ID == id {
				d.Workers = append(d.Workers[:i], d.Workers[i+1:]...)
				return nil
			}
		}
		return domain.ErrWorkerNotFound
	})
}

// SiteRepository implements ports.SiteRepository.
type SiteRepository struct {
	store *Store
}

func (r *SiteRepository) List(ctx context.Context) ([]*domain.Site, error) {
	out := []*domain.Site{}
	r.store.read(ctx, func(d *state) {
		for _, s := range d.Sites {
			out = append(out, s.Clone())
		}
	})
	return out, nil
}

func (r *SiteRepository) FindByID(ctx context.Context, id string) (*domain.Site, error) {
	var found *domain.Site
	r.store.read(ctx, func(d *state) {
		for _, s := range d.Sites {
			if s.ID == id {
				found = s.Clone()
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrSiteNotFound
	}
	return found, nil
}

func (r *SiteRepository) Save(ctx context.Context, site *domain.Site) error {
	return r.store.write(ctx, func(d *state) error {
		for i, existing := range d.Sites {
			if existing.ID == site.ID {
				d.Sites[i] = site.Clone()
				return nil
			}
		}
		d.Sites = append(d.Sites, site.Clone())
		return nil
	})
}

func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		for i, s := range d.Sites {
			if s.ID == id {
				d.Sites = append(d.Sites[:i], d.Sites[i+1:]...)
				return nil
			}
		}
		return domain.ErrSiteNotFound
	})
}

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	store *Store
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var found *domain.User
	r.store.read(ctx, func(d *state) {
		for _, u := range d.Users {
			if u.Username == username {
				found = cloneUser(u)
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return found, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := r.store.write(ctx, func(d *state) error {
		for _, u := range d.Users {
			if u.Username == user.Username {
				return domain.ErrUserExists
			}
		}
		d.Users = append(d.Users, cloneUser(user))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cloneUser(user), nil
}

// AuditRepository implements ports.AuditRepository. Entries beyond the
// store's retention are dropped oldest first.
type AuditRepository struct {
	store *Store
}

func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	return r.store.write(ctx, func(d *state) error {
		e := *entry
		d.Audit = append(d.Audit, &e)
		if over := len(d.Audit) - r.store.retention; over > 0 {
			d.Audit = append([]*domain.AuditEntry(nil), d.Audit[over:]...)
		}
		return nil
	})
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	out := []*domain.AuditEntry{}
	r.store.read(ctx, func(d *state) {
		for i := len(d.Audit) - 1; i >= 0; i-- {
			if limit > 0 && len(out) == limit {
				return
			}
			e := *d.Audit[i]
			out = append(out, &e)
		}
	})
	return out, nil
}
