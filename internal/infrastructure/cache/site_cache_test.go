package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/infrastructure/db/memory"
)

type countingSites struct {
	*memory.SiteRepository
	finds int
}

func (c *countingSites) FindByID(ctx context.Context, id string) (*domain.Site, error) {
	c.finds++
	return c.SiteRepository.FindByID(ctx, id)
}

func TestSiteRepository_CachesLookups(t *testing.T) {
	ctx := context.Background()
	backing := &countingSites{SiteRepository: memory.New().Sites()}
	_ = backing.Save(ctx, &domain.Site{ID: "hrn", Name: "HRN"})

	repo := NewSiteRepository(backing, 8, time.Minute)
	for i := 0; i < 3; i++ {
		s, err := repo.FindByID(ctx, "hrn")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		s.Name = "mutated"
	}
	if backing.finds != 1 {
		t.Fatalf("expected a single backing lookup, got %d", backing.finds)
	}

	s, _ := repo.FindByID(ctx, "hrn")
	if s.Name != "HRN" {
		t.Fatalf("cached site shared with caller: %s", s.Name)
	}
}

func TestSiteRepository_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	backing := &countingSites{SiteRepository: memory.New().Sites()}
	repo := NewSiteRepository(backing, 8, time.Minute)

	_ = repo.Save(ctx, &domain.Site{ID: "hrn", Name: "HRN"})
	_, _ = repo.FindByID(ctx, "hrn")
	_ = repo.Save(ctx, &domain.Site{ID: "hrn", Name: "Hospital Regional Norte"})

	s, _ := repo.FindByID(ctx, "hrn")
	if s.Name != "Hospital Regional Norte" {
		t.Fatalf("stale site returned: %s", s.Name)
	}

	_ = repo.Delete(ctx, "hrn")
	if _, err := repo.FindByID(ctx, "hrn"); !errors.Is(err, domain.ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound after delete, got %v", err)
	}
}
