package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// pendingExit stores a justification-style exit paired with entryID.
func (f *fixture) pendingExit(t *testing.T, id, entryID string, hour int) *domain.ClockEvent {
	t.Helper()
	e := &domain.ClockEvent{
		ID:            id,
		ShiftCode:     "123456",
		WorkerID:      f.worker.ID,
		WorkerName:    f.worker.Name,
		Timestamp:     at(hour, 0).UTC(),
		EventType:     domain.EventExit,
		SiteID:        f.site.ID,
		SectorID:      "uti",
		IsManual:      true,
		Status:        domain.StatusPending,
		PairedEventID: entryID,
	}
	if err := f.events.Save(context.Background(), e); err != nil {
		t.Fatalf("save pending: %v", err)
	}
	return e
}

func TestApprovalService_ListPendingOldestFirst(t *testing.T) {
	f := newFixture(t)
	entry := f.register(t, domain.EventEntry, at(7, 0))
	f.pendingExit(t, "late", entry.ID, 18)
	f.pendingExit(t, "early", entry.ID, 15)

	pending, err := f.approval.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "early" || pending[1].ID != "late" {
		t.Fatalf("expected FIFO order early, late; got %+v", pending)
	}
}

func TestApprovalService_ApproveClosesPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.register(t, domain.EventEntry, at(8, 0))
	f.pendingExit(t, "p1", entry.ID, 16)

	approved, err := f.approval.Approve(ctx, "p1", "gestor")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if approved.Status != domain.StatusClosed || approved.ValidatedBy != "gestor" {
		t.Fatalf("unexpected approved event %+v", approved)
	}
	if got := f.mustFind(t, entry.ID); got.Status != domain.StatusClosed {
		t.Fatalf("paired entry should be CLOSED, got %s", got.Status)
	}

	pending, _ := f.approval.ListPending(ctx)
	if len(pending) != 0 {
		t.Fatalf("approved event still pending")
	}
}

func TestApprovalService_ApproveMissingPairedEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pendingExit(t, "p1", "ghost-entry", 16)

	if _, err := f.approval.Approve(ctx, "p1", "gestor"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
	if got := f.mustFind(t, "p1"); got.Status != domain.StatusPending {
		t.Fatalf("nothing should be written, event is %s", got.Status)
	}
}

func TestApprovalService_RejectLeavesEntryOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.register(t, domain.EventEntry, at(8, 0))
	f.pendingExit(t, "p1", entry.ID, 16)

	rejected, err := f.approval.Reject(ctx, "p1", "gestor", "")
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", rejected.Status)
	}
	if !strings.Contains(rejected.Note, "no reason given") {
		t.Fatalf("default reason not recorded: %q", rejected.Note)
	}
	if rejected.ValidatedBy != "" {
		t.Fatalf("rejection must not set validated_by")
	}
	if got := f.mustFind(t, entry.ID); got.Status != domain.StatusOpen {
		t.Fatalf("paired entry should stay OPEN, got %s", got.Status)
	}
}

func TestApprovalService_NonPendingIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.register(t, domain.EventEntry, at(8, 0))
	f.pendingExit(t, "p1", entry.ID, 16)

	if _, err := f.approval.Approve(ctx, entry.ID, "gestor"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition approving an OPEN entry, got %v", err)
	}
	if _, err := f.approval.Reject(ctx, "p1", "gestor", "late"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.approval.Approve(ctx, "p1", "gestor"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition approving a REJECTED event, got %v", err)
	}
	if _, err := f.approval.Approve(ctx, "missing", "gestor"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestApprovalService_ApproveRetriesThenReportsInconsistency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.register(t, domain.EventEntry, at(8, 0))
	f.pendingExit(t, "p1", entry.ID, 16)

	flaky := &flakyEvents{EventRepository: f.events}
	svc := NewApprovalService(&secondUpdateFails{flakyEvents: flaky}, nil, f.audit, zerolog.Nop())

	_, err := svc.Approve(ctx, "p1", "gestor")
	var cascade *domain.CascadeInconsistencyError
	if !errors.As(err, &cascade) {
		t.Fatalf("expected CascadeInconsistencyError, got %v", err)
	}
	if cascade.AppliedEventID != "p1" || cascade.FailedEventID != entry.ID {
		t.Fatalf("unexpected cascade context %+v", cascade)
	}
	if flaky.updates != 3 {
		t.Fatalf("expected one write plus a retried second write, got %d", flaky.updates)
	}
}

func TestApprovalService_ApproveRollsBackInTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := f.register(t, domain.EventEntry, at(8, 0))
	f.pendingExit(t, "p1", entry.ID, 16)

	flaky := &flakyEvents{EventRepository: f.events}
	svc := NewApprovalService(&secondUpdateFails{flakyEvents: flaky}, f.store, f.audit, zerolog.Nop())

	if _, err := svc.Approve(ctx, "p1", "gestor"); err == nil {
		t.Fatalf("expected error")
	}
	if got := f.mustFind(t, "p1"); got.Status != domain.StatusPending {
		t.Fatalf("approval should be rolled back, got %s", got.Status)
	}
}

// secondUpdateFails lets the first update through and fails every later one.
type secondUpdateFails struct {
	*flakyEvents
}

func (r *secondUpdateFails) Update(ctx context.Context, e *domain.ClockEvent) error {
	r.updates++
	if r.updates > 1 {
		return errors.New("write conflict")
	}
	return r.EventRepository.Update(ctx, e)
}

var _ ports.EventRepository = (*secondUpdateFails)(nil)
