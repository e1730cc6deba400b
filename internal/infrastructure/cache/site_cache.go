// Package cache holds read-through caches in front of the record store.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

// SiteRepository decorates a ports.SiteRepository with an LRU of sites by id.
// Site lookups happen on every scan and every mirror row, while sites change
// rarely. Writes through this decorator invalidate the cached entry.
type SiteRepository struct {
	next  ports.SiteRepository
	cache *expirable.LRU[string, *domain.Site]
}

// NewSiteRepository returns a cached repository holding at most size sites
// for ttl each.
func NewSiteRepository(next ports.SiteRepository, size int, ttl time.Duration) *SiteRepository {
	if size <= 0 {
		size = 128
	}
	return &SiteRepository{
		next:  next,
		cache: expirable.NewLRU[string, *domain.Site](size, nil, ttl),
	}
}

func (r *SiteRepository) List(ctx context.Context) ([]*domain.Site, error) {
	return r.next.List(ctx)
}

func (r *SiteRepository) FindByID(ctx context.Context, id string) (*domain.Site, error) {
	if s, ok := r.cache.Get(id); ok {
		metrics.SiteCacheRequestsTotal.WithLabelValues("hit").Inc()
		return s.Clone(), nil
	}
	metrics.SiteCacheRequestsTotal.WithLabelValues("miss").Inc()

	s, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, s.Clone())
	return s, nil
}

func (r *SiteRepository) Save(ctx context.Context, s *domain.Site) error {
	r.cache.Remove(s.ID)
	return r.next.Save(ctx, s)
}

func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	r.cache.Remove(id)
	return r.next.Delete(ctx, id)
}
