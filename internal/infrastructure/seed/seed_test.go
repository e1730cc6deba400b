package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/service"
	"github.com/biohealth/ponto/internal/infrastructure/db/memory"
)

func TestSeeder_RunIsIdempotent(t *testing.T) {
	store := memory.New()
	auth := service.NewAuthService(store.Users(), "secret", time.Hour)
	s := New(store.Workers(), store.Sites(), auth, zerolog.Nop())
	ctx := context.Background()
	opts := Options{AdminUser: "admin", AdminPassword: "admin", UserPassword: "123"}

	seeded, err := s.Run(ctx, opts)
	if err != nil || !seeded {
		t.Fatalf("first run: seeded=%v err=%v", seeded, err)
	}

	sites, _ := store.Sites().List(ctx)
	workers, _ := store.Workers().List(ctx)
	if len(sites) != 3 || len(workers) != 2 {
		t.Fatalf("expected 3 sites and 2 workers, got %d/%d", len(sites), len(workers))
	}

	_, admin, err := auth.Login(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !admin.Can(domain.PermAuthorization) {
		t.Fatalf("admin should hold every permission")
	}
	if _, site, err := auth.Login(ctx, "HSP-1002", "123"); err != nil || site.SiteID != "h2" {
		t.Fatalf("site login: %v %+v", err, site)
	}
	if _, worker, err := auth.Login(ctx, "MED-2024-001", "123"); err != nil || worker.WorkerID != "1" {
		t.Fatalf("worker login: %v %+v", err, worker)
	}

	seeded, err = s.Run(ctx, opts)
	if err != nil || seeded {
		t.Fatalf("second run should be a no-op: seeded=%v err=%v", seeded, err)
	}
	workers, _ = store.Workers().List(ctx)
	if len(workers) != 2 {
		t.Fatalf("second run duplicated workers: %d", len(workers))
	}
}
