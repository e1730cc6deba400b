package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/infrastructure/db/memory"
)

type stubIdentifier struct {
	worker *domain.Worker
	calls  atomic.Int32
}

func (s *stubIdentifier) Identify(_ context.Context, _ ports.CaptureSignal) (*domain.Worker, error) {
	s.calls.Add(1)
	if s.worker == nil {
		return nil, domain.ErrWorkerNotIdentified
	}
	return s.worker, nil
}

type brokenGuard struct{}

func (brokenGuard) Claim(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (brokenGuard) Release(context.Context, string) error {
	return errors.New("redis down")
}

// flakyEngine fails the first RegisterEvent call with a storage error.
type flakyEngine struct {
	*ShiftService
	failed bool
}

func (e *flakyEngine) RegisterEvent(ctx context.Context, in ports.RegisterEventInput) (*domain.ClockEvent, error) {
	if !e.failed {
		e.failed = true
		return nil, errors.New("store unavailable")
	}
	return e.ShiftService.RegisterEvent(ctx, in)
}

func scanInput(scanID string) ports.ScanInput {
	return ports.ScanInput{
		Capture:  ports.CaptureSignal{ScanID: scanID, TerminalID: "term-1", TemplateHash: "hash-maria", CapturedAt: at(8, 0)},
		SiteID:   "site-hrn",
		SectorID: "uti",
	}
}

func TestScanService_TogglesEntryAndExit(t *testing.T) {
	f := newFixture(t)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, memory.NewScanGuard(time.Minute), f.shift, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Process(ctx, scanInput("s1"))
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if first.Event.EventType != domain.EventEntry {
		t.Fatalf("expected ENTRY, got %s", first.Event.EventType)
	}
	if !first.Event.Timestamp.Equal(at(8, 0)) {
		t.Fatalf("capture time not used: %v", first.Event.Timestamp)
	}

	in := scanInput("s2")
	in.Capture.CapturedAt = at(16, 0)
	second, err := svc.Process(ctx, in)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second.Event.EventType != domain.EventExit || second.Event.PairedEventID != first.Event.ID {
		t.Fatalf("expected paired EXIT, got %+v", second.Event)
	}
	if second.Worker.ID != f.worker.ID {
		t.Fatalf("unexpected worker %s", second.Worker.ID)
	}
}

func TestScanService_NotIdentifiedWritesNothing(t *testing.T) {
	f := newFixture(t)
	guard := memory.NewScanGuard(time.Minute)
	svc := NewScanService(&stubIdentifier{}, guard, f.shift, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Process(ctx, scanInput("s1")); !errors.Is(err, domain.ErrWorkerNotIdentified) {
		t.Fatalf("expected ErrWorkerNotIdentified, got %v", err)
	}
	all, _ := f.events.List(ctx)
	if len(all) != 0 {
		t.Fatalf("no event may be written, found %d", len(all))
	}
	if ok, _ := guard.Claim(ctx, "s1"); !ok {
		t.Fatalf("failed identification must not consume the scan id")
	}
}

func TestScanService_MissingSelectionFailsBeforeIdentification(t *testing.T) {
	f := newFixture(t)
	id := &stubIdentifier{worker: f.worker}
	svc := NewScanService(id, nil, f.shift, zerolog.Nop())

	in := scanInput("s1")
	in.SectorID = ""
	if _, err := svc.Process(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if id.calls.Load() != 0 {
		t.Fatalf("identification should not run")
	}
}

func TestScanService_DuplicateScan(t *testing.T) {
	f := newFixture(t)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, memory.NewScanGuard(time.Minute), f.shift, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Process(ctx, scanInput("s1")); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if _, err := svc.Process(ctx, scanInput("s1")); !errors.Is(err, domain.ErrDuplicateScan) {
		t.Fatalf("expected ErrDuplicateScan, got %v", err)
	}
	all, _ := f.events.List(ctx)
	if len(all) != 1 {
		t.Fatalf("duplicate scan must not register, found %d events", len(all))
	}
}

func TestScanService_UnknownSectorKeepsScanRetryable(t *testing.T) {
	f := newFixture(t)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, memory.NewScanGuard(time.Minute), f.shift, zerolog.Nop())
	ctx := context.Background()

	bad := scanInput("s1")
	bad.SectorID = "not-a-sector"
	if _, err := svc.Process(ctx, bad); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	all, _ := f.events.List(ctx)
	if len(all) != 0 {
		t.Fatalf("no event may be written, found %d", len(all))
	}

	res, err := svc.Process(ctx, scanInput("s1"))
	if err != nil {
		t.Fatalf("retry with a valid sector: %v", err)
	}
	if res.Event.EventType != domain.EventEntry {
		t.Fatalf("expected ENTRY, got %s", res.Event.EventType)
	}
}

func TestScanService_UnknownSiteKeepsScanRetryable(t *testing.T) {
	f := newFixture(t)
	guard := memory.NewScanGuard(time.Minute)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, guard, f.shift, zerolog.Nop())
	ctx := context.Background()

	bad := scanInput("s1")
	bad.SiteID = "site-missing"
	if _, err := svc.Process(ctx, bad); !errors.Is(err, domain.ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
	if ok, _ := guard.Claim(ctx, "s1"); !ok {
		t.Fatalf("unknown site must not consume the scan id")
	}
}

func TestScanService_FailedRegistrationReleasesScan(t *testing.T) {
	f := newFixture(t)
	engine := &flakyEngine{ShiftService: f.shift}
	svc := NewScanService(&stubIdentifier{worker: f.worker}, memory.NewScanGuard(time.Minute), engine, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Process(ctx, scanInput("s1")); err == nil {
		t.Fatalf("expected storage error")
	}
	if _, err := svc.Process(ctx, scanInput("s1")); err != nil {
		t.Fatalf("replayed scan should register: %v", err)
	}
	all, _ := f.events.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 event, got %d", len(all))
	}
}

func TestScanService_GuardFailureStillRegisters(t *testing.T) {
	f := newFixture(t)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, brokenGuard{}, f.shift, zerolog.Nop())

	if _, err := svc.Process(context.Background(), scanInput("s1")); err != nil {
		t.Fatalf("guard failure should not block the scan: %v", err)
	}
}

func TestScanService_ConcurrentScansAlternate(t *testing.T) {
	f := newFixture(t)
	svc := NewScanService(&stubIdentifier{worker: f.worker}, nil, f.shift, zerolog.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := scanInput("")
			in.Capture.CapturedAt = at(8, 0)
			if _, err := svc.Process(ctx, in); err != nil {
				t.Errorf("scan: %v", err)
			}
		}()
	}
	wg.Wait()

	all, _ := f.events.List(ctx)
	entries, exits := 0, 0
	for _, e := range all {
		switch e.EventType {
		case domain.EventEntry:
			entries++
		case domain.EventExit:
			exits++
		}
	}
	if entries != 5 || exits != 5 {
		t.Fatalf("expected 5 entries and 5 exits, got %d/%d", entries, exits)
	}
}
