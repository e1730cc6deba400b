package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// shiftEngine is the part of ShiftService the scan pipeline drives.
type shiftEngine interface {
	Decide(ctx context.Context, workerID string) (domain.EventType, *domain.ClockEvent, error)
	RegisterEvent(ctx context.Context, in ports.RegisterEventInput) (*domain.ClockEvent, error)
	ResolveLocation(ctx context.Context, siteID, sectorID string) (*domain.Site, domain.Sector, error)
}

type scanService struct {
	identify ports.IdentificationProvider
	guard    ports.ScanGuard
	engine   shiftEngine
	log      zerolog.Logger

	// mu makes decide-then-register a single writer section.
	mu sync.Mutex
}

// NewScanService returns a ScanProcessor. guard may be nil.
func NewScanService(
	identify ports.IdentificationProvider,
	guard ports.ScanGuard,
	engine shiftEngine,
	log zerolog.Logger,
) ports.ScanProcessor {
	return &scanService{
		identify: identify,
		guard:    guard,
		engine:   engine,
		log:      log,
	}
}

// Process identifies the worker, decides entry or exit and registers the event.
func (s *scanService) Process(ctx context.Context, in ports.ScanInput) (*ports.ScanResult, error) {
	// 1. Mandatory selections, before any side effect.
	if in.SiteID == "" {
		return nil, domain.NewValidationError("site_id", "is required")
	}
	if in.SectorID == "" {
		return nil, domain.NewValidationError("sector_id", "is required")
	}

	// 2. Identification: no worker, no event.
	worker, err := s.identify.Identify(ctx, in.Capture)
	if err != nil {
		return nil, fmt.Errorf("process scan: %w", err)
	}

	// 3. Site and sector must resolve before the scan id is claimed.
	if _, _, err := s.engine.ResolveLocation(ctx, in.SiteID, in.SectorID); err != nil {
		return nil, fmt.Errorf("process scan: %w", err)
	}

	// 4. At most one registration per physical scan.
	claimed := false
	if in.Capture.ScanID != "" && s.guard != nil {
		first, err := s.guard.Claim(ctx, in.Capture.ScanID)
		if err != nil {
			s.log.Warn().Err(err).Str("scan_id", in.Capture.ScanID).Msg("scan guard failed, processing anyway")
		} else if !first {
			s.log.Debug().Str("scan_id", in.Capture.ScanID).Msg("duplicate scan skipped")
			return nil, fmt.Errorf("process scan: %w", domain.ErrDuplicateScan)
		}
		claimed = err == nil
	}

	event, err := s.register(ctx, worker, in)
	if err != nil {
		var cascadeErr *domain.CascadeInconsistencyError
		if claimed && !errors.As(err, &cascadeErr) {
			s.release(ctx, in.Capture.ScanID)
		}
		return nil, fmt.Errorf("process scan: %w", err)
	}

	s.log.Info().
		Str("scan_id", in.Capture.ScanID).
		Str("terminal_id", in.Capture.TerminalID).
		Str("worker_id", worker.ID).
		Str("event_type", string(event.EventType)).
		Msg("scan processed")

	return &ports.ScanResult{Worker: worker, Event: event}, nil
}

// register decides and registers as one writer.
func (s *scanService) register(ctx context.Context, worker *domain.Worker, in ports.ScanInput) (*domain.ClockEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, prior, err := s.engine.Decide(ctx, worker.ID)
	if err != nil {
		return nil, err
	}
	return s.engine.RegisterEvent(ctx, ports.RegisterEventInput{
		Worker:    worker,
		EventType: next,
		SiteID:    in.SiteID,
		SectorID:  in.SectorID,
		Prior:     prior,
		At:        in.Capture.CapturedAt,
	})
}

func (s *scanService) release(ctx context.Context, scanID string) {
	if err := s.guard.Release(ctx, scanID); err != nil {
		s.log.Warn().Err(err).Str("scan_id", scanID).Msg("scan guard release failed")
	}
}
