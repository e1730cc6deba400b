package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/infrastructure/db/memory"
)

var fortaleza = time.FixedZone("America/Fortaleza", -3*60*60)

// fixture wires the core services over an in-memory store holding one site
// and one worker.
type fixture struct {
	store    *memory.Store
	events   ports.EventRepository
	audit    *AuditService
	shift    *ShiftService
	approval *ApprovalService
	mirror   *MirrorService
	worker   *domain.Worker
	site     *domain.Site
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	site := &domain.Site{
		ID:   "site-hrn",
		Name: "Hospital Regional Norte",
		Slug: "hrn",
		Sectors: []domain.Sector{
			{ID: "uti", Name: "UTI Adulto"},
			{ID: "emergencia", Name: "Emergência"},
		},
	}
	worker := &domain.Worker{
		ID:           "w-maria",
		Name:         "Maria Silva",
		Registration: "COOP-001",
		Status:       domain.WorkerActive,
		EnrolledBiometrics: []domain.BiometricTemplate{
			{ID: "tpl-1", FingerIndex: 1, TemplateHash: "hash-maria"},
		},
	}
	if err := store.Sites().Save(ctx, site); err != nil {
		t.Fatalf("seed site: %v", err)
	}
	if err := store.Workers().Save(ctx, worker); err != nil {
		t.Fatalf("seed worker: %v", err)
	}

	log := zerolog.Nop()
	audit := NewAuditService(store.Audit(), log)
	events := store.Events()
	return &fixture{
		store:    store,
		events:   events,
		audit:    audit,
		shift:    NewShiftService(events, store.Sites(), store, audit, log),
		approval: NewApprovalService(events, store, audit, log),
		mirror:   NewMirrorService(events, store.Sites(), fortaleza, audit, log),
		worker:   worker,
		site:     site,
	}
}

// at returns a time on 2024-05-10 in Fortaleza.
func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, fortaleza)
}

func (f *fixture) register(t *testing.T, typ domain.EventType, when time.Time) *domain.ClockEvent {
	t.Helper()
	ctx := context.Background()
	_, prior, err := f.shift.Decide(ctx, f.worker.ID)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	e, err := f.shift.RegisterEvent(ctx, ports.RegisterEventInput{
		Worker:    f.worker,
		EventType: typ,
		SiteID:    f.site.ID,
		SectorID:  "uti",
		Prior:     prior,
		At:        when,
	})
	if err != nil {
		t.Fatalf("register %s: %v", typ, err)
	}
	return e
}

func (f *fixture) mustFind(t *testing.T, id string) *domain.ClockEvent {
	t.Helper()
	e, err := f.events.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find %s: %v", id, err)
	}
	return e
}

// flakyEvents wraps a repository and fails selected writes.
type flakyEvents struct {
	ports.EventRepository
	failUpdate error
	failDelete error
	updates    int
}

func (r *flakyEvents) Update(ctx context.Context, e *domain.ClockEvent) error {
	r.updates++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	return r.EventRepository.Update(ctx, e)
}

func (r *flakyEvents) Delete(ctx context.Context, id string) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	return r.EventRepository.Delete(ctx, id)
}
