package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// ShiftService decides entry/exit, pairs events and runs deletion cascades.
// It keeps no state between calls.
type ShiftService struct {
	events  ports.EventRepository
	sites   ports.SiteRepository
	audit   *AuditService
	cascade cascadeRunner
	log     zerolog.Logger
}

// NewShiftService returns a ShiftService. tx may be nil when the store has no
// transactions.
func NewShiftService(
	events ports.EventRepository,
	sites ports.SiteRepository,
	tx ports.Transactor,
	audit *AuditService,
	log zerolog.Logger,
) *ShiftService {
	return &ShiftService{
		events:  events,
		sites:   sites,
		audit:   audit,
		cascade: cascadeRunner{tx: tx, log: log},
		log:     log,
	}
}

// NextEventType returns the event type the worker's next scan produces.
// It has no side effects.
func (s *ShiftService) NextEventType(ctx context.Context, workerID string) (domain.EventType, error) {
	next, _, err := s.Decide(ctx, workerID)
	return next, err
}

// Decide returns the next event type together with the prior event it was
// derived from (nil when the worker has none).
func (s *ShiftService) Decide(ctx context.Context, workerID string) (domain.EventType, *domain.ClockEvent, error) {
	last, err := s.events.LastEventFor(ctx, workerID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.EventEntry, nil, nil
		}
		return "", nil, fmt.Errorf("next event type: %w", err)
	}
	return s.nextAfter(last), last, nil
}

func (s *ShiftService) nextAfter(last *domain.ClockEvent) domain.EventType {
	switch last.EventType {
	case domain.EventEntry:
		return domain.EventExit
	case domain.EventExit:
		return domain.EventEntry
	default:
		// Break events do not drive the toggle; a new shift starts.
		s.log.Warn().Str("event_id", last.ID).Str("event_type", string(last.EventType)).
			Msg("break event ignored by entry/exit toggle")
		return domain.EventEntry
	}
}

// ResolveLocation loads the site and checks the sector belongs to it.
func (s *ShiftService) ResolveLocation(ctx context.Context, siteID, sectorID string) (*domain.Site, domain.Sector, error) {
	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return nil, domain.Sector{}, err
	}
	sector, ok := site.Sector(sectorID)
	if !ok {
		return nil, domain.Sector{}, domain.NewValidationError("sector_id", "does not belong to the selected site")
	}
	return site, sector, nil
}

// RegisterEvent validates the selection, pairs an EXIT with the prior OPEN
// ENTRY and persists the new event. It is not idempotent.
func (s *ShiftService) RegisterEvent(ctx context.Context, in ports.RegisterEventInput) (*domain.ClockEvent, error) {
	if in.Worker == nil || in.Worker.ID == "" {
		return nil, domain.NewValidationError("worker", "is required")
	}
	if in.SiteID == "" {
		return nil, domain.NewValidationError("site_id", "is required")
	}
	if in.SectorID == "" {
		return nil, domain.NewValidationError("sector_id", "is required")
	}
	if !in.EventType.Valid() {
		return nil, domain.NewValidationError("event_type", "is not a known event type")
	}

	site, sector, err := s.ResolveLocation(ctx, in.SiteID, in.SectorID)
	if err != nil {
		return nil, fmt.Errorf("register event: %w", err)
	}

	at := in.At
	if at.IsZero() {
		at = time.Now()
	}

	event := &domain.ClockEvent{
		ID:            uuid.NewString(),
		ShiftCode:     generateShiftCode(),
		WorkerID:      in.Worker.ID,
		WorkerName:    in.Worker.Name,
		Timestamp:     at.UTC(),
		EventType:     in.EventType,
		LocationLabel: domain.LocationLabel(site.Name, sector.Name),
		SiteID:        site.ID,
		SectorID:      sector.ID,
		Status:        domain.StatusOpen,
	}
	if in.EventType == domain.EventExit {
		event.Status = domain.StatusClosed
	}

	steps := []cascadeStep{{
		eventID: event.ID,
		apply:   func(ctx context.Context) error { return s.events.Save(ctx, event) },
	}}

	prior := in.Prior
	if in.EventType == domain.EventExit && prior != nil &&
		prior.EventType == domain.EventEntry && prior.Status == domain.StatusOpen {
		event.ShiftCode = prior.ShiftCode
		event.PairedEventID = prior.ID

		closed := prior.Clone()
		closed.Status = domain.StatusClosed
		steps = append(steps, cascadeStep{
			eventID: closed.ID,
			apply:   func(ctx context.Context) error { return s.events.Update(ctx, closed) },
		})
	}

	if err := s.cascade.run(ctx, "register event", steps...); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditEventRegistered,
		fmt.Sprintf("%s registered for %s (shift %s). Status: %s", event.EventType, event.WorkerName, event.ShiftCode, event.Status))

	s.log.Info().
		Str("event_id", event.ID).
		Str("worker_id", event.WorkerID).
		Str("event_type", string(event.EventType)).
		Str("shift_code", event.ShiftCode).
		Str("paired_event_id", event.PairedEventID).
		Msg("clock event registered")

	return event, nil
}

// DeleteEvent removes an event. Deleting an ENTRY also removes every EXIT
// paired with it; deleting an EXIT reopens its paired ENTRY. Unknown ids are
// a no-op.
func (s *ShiftService) DeleteEvent(ctx context.Context, eventID string) error {
	target, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil
		}
		return fmt.Errorf("delete event: %w", err)
	}

	var steps []cascadeStep
	switch target.EventType {
	case domain.EventEntry:
		all, err := s.events.ListByWorker(ctx, target.WorkerID)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		for _, e := range all {
			if e.EventType == domain.EventExit && e.PairedEventID == target.ID {
				steps = append(steps, s.deleteStep(e.ID))
			}
		}
		steps = append(steps, s.deleteStep(target.ID))

	case domain.EventExit:
		if target.PairedEventID != "" {
			entry, err := s.events.FindByID(ctx, target.PairedEventID)
			switch {
			case err == nil:
				reopened := entry.Clone()
				reopened.Status = domain.StatusOpen
				steps = append(steps, cascadeStep{
					eventID: reopened.ID,
					apply:   func(ctx context.Context) error { return s.events.Update(ctx, reopened) },
				})
			case !errors.Is(err, domain.ErrEventNotFound):
				return fmt.Errorf("delete event: %w", err)
			}
		}
		steps = append(steps, s.deleteStep(target.ID))

	default:
		steps = append(steps, s.deleteStep(target.ID))
	}

	if err := s.cascade.run(ctx, "delete event", steps...); err != nil {
		return err
	}

	s.audit.Record(ctx, domain.AuditEventDeleted, fmt.Sprintf("Event %s (shift %s) removed.", target.ID, target.ShiftCode))
	s.log.Info().Str("event_id", target.ID).Str("event_type", string(target.EventType)).Int("writes", len(steps)).Msg("clock event deleted")
	return nil
}

// deleteStep treats an already missing event as deleted so a retried step
// stays idempotent.
func (s *ShiftService) deleteStep(id string) cascadeStep {
	return cascadeStep{
		eventID: id,
		apply: func(ctx context.Context) error {
			if err := s.events.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrEventNotFound) {
				return err
			}
			return nil
		},
	}
}

var shiftCodeSpan = big.NewInt(900000)

// generateShiftCode returns a random six-digit code.
func generateShiftCode() string {
	n, err := rand.Int(rand.Reader, shiftCodeSpan)
	if err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%06d", 100000+time.Now().UnixNano()%900000)
	}
	return fmt.Sprintf("%06d", 100000+n.Int64())
}
