package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// RepairService detects and fixes pairs left half-updated by an interrupted
// cascade. Running it twice changes nothing the second time.
type RepairService struct {
	events ports.EventRepository
	audit  *AuditService
	log    zerolog.Logger
}

func NewRepairService(events ports.EventRepository, audit *AuditService, log zerolog.Logger) *RepairService {
	return &RepairService{events: events, audit: audit, log: log}
}

// Run closes OPEN entries that have a CLOSED exit and reopens CLOSED entries
// that have none.
func (s *RepairService) Run(ctx context.Context) (*ports.RepairReport, error) {
	all, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}

	closedBy := make(map[string]bool)
	for _, e := range all {
		if e.EventType == domain.EventExit && e.Status == domain.StatusClosed && e.PairedEventID != "" {
			closedBy[e.PairedEventID] = true
		}
	}

	report := &ports.RepairReport{}
	for _, e := range all {
		if e.EventType != domain.EventEntry {
			continue
		}
		var next domain.EventStatus
		switch {
		case e.Status == domain.StatusOpen && closedBy[e.ID]:
			next = domain.StatusClosed
		case e.Status == domain.StatusClosed && !closedBy[e.ID]:
			next = domain.StatusOpen
		default:
			continue
		}

		fixed := e.Clone()
		fixed.Status = next
		if err := s.events.Update(ctx, fixed); err != nil {
			return report, fmt.Errorf("repair %s: %w", e.ID, err)
		}
		if next == domain.StatusClosed {
			report.Closed = append(report.Closed, e.ID)
		} else {
			report.Reopened = append(report.Reopened, e.ID)
		}
	}

	if n := len(report.Closed) + len(report.Reopened); n > 0 {
		s.audit.Record(ctx, domain.AuditCascadeRepaired, fmt.Sprintf("Closed [%s], reopened [%s].",
			strings.Join(report.Closed, ", "), strings.Join(report.Reopened, ", ")))
		s.log.Warn().Int("closed", len(report.Closed)).Int("reopened", len(report.Reopened)).Msg("half-completed cascades repaired")
	}
	return report, nil
}
