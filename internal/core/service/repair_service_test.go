package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
)

func TestRepairService_FixesHalfCompletedCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	save := func(e *domain.ClockEvent) {
		e.WorkerID = f.worker.ID
		if err := f.events.Save(ctx, e); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	// exit written, entry never closed
	save(&domain.ClockEvent{ID: "open-entry", EventType: domain.EventEntry, Status: domain.StatusOpen, Timestamp: at(6, 0)})
	save(&domain.ClockEvent{ID: "exit-1", EventType: domain.EventExit, Status: domain.StatusClosed, PairedEventID: "open-entry", Timestamp: at(7, 0)})
	// exit deleted, entry never reopened
	save(&domain.ClockEvent{ID: "stale-closed", EventType: domain.EventEntry, Status: domain.StatusClosed, Timestamp: at(8, 0)})
	// pending exit does not close its entry
	save(&domain.ClockEvent{ID: "awaiting", EventType: domain.EventEntry, Status: domain.StatusOpen, Timestamp: at(9, 0)})
	save(&domain.ClockEvent{ID: "pending", EventType: domain.EventExit, Status: domain.StatusPending, PairedEventID: "awaiting", Timestamp: at(10, 0)})
	// consistent pair
	save(&domain.ClockEvent{ID: "good-entry", EventType: domain.EventEntry, Status: domain.StatusClosed, Timestamp: at(11, 0)})
	save(&domain.ClockEvent{ID: "good-exit", EventType: domain.EventExit, Status: domain.StatusClosed, PairedEventID: "good-entry", Timestamp: at(12, 0)})

	svc := NewRepairService(f.events, f.audit, zerolog.Nop())
	report, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Closed) != 1 || report.Closed[0] != "open-entry" {
		t.Fatalf("unexpected closed list %v", report.Closed)
	}
	if len(report.Reopened) != 1 || report.Reopened[0] != "stale-closed" {
		t.Fatalf("unexpected reopened list %v", report.Reopened)
	}
	if f.mustFind(t, "open-entry").Status != domain.StatusClosed {
		t.Fatalf("open-entry not closed")
	}
	if f.mustFind(t, "stale-closed").Status != domain.StatusOpen {
		t.Fatalf("stale-closed not reopened")
	}
	if f.mustFind(t, "awaiting").Status != domain.StatusOpen {
		t.Fatalf("entry with a pending exit must stay open")
	}

	again, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(again.Closed)+len(again.Reopened) != 0 {
		t.Fatalf("second run should change nothing, got %+v", again)
	}

	audit, _ := f.audit.List(ctx, 0)
	if len(audit) != 1 || audit[0].Action != domain.AuditCascadeRepaired {
		t.Fatalf("expected a single CASCADE_REPAIRED entry, got %+v", audit)
	}
}
