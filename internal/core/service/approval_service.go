package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

const defaultRejectReason = "no reason given"

// ApprovalService resolves pending justification events.
type ApprovalService struct {
	events  ports.EventRepository
	audit   *AuditService
	cascade cascadeRunner
	log     zerolog.Logger
}

func NewApprovalService(events ports.EventRepository, tx ports.Transactor, audit *AuditService, log zerolog.Logger) *ApprovalService {
	return &ApprovalService{
		events:  events,
		audit:   audit,
		cascade: cascadeRunner{tx: tx, log: log},
		log:     log,
	}
}

// ListPending returns pending events oldest first.
func (s *ApprovalService) ListPending(ctx context.Context) ([]*domain.ClockEvent, error) {
	pending, err := s.events.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Timestamp.Before(pending[j].Timestamp)
	})
	return pending, nil
}

// Approve closes a pending event and, for an EXIT, its paired ENTRY. A paired
// ENTRY that no longer exists is reported as domain.ErrEventNotFound before
// anything is written.
func (s *ApprovalService) Approve(ctx context.Context, eventID, approver string) (*domain.ClockEvent, error) {
	event, err := s.pending(ctx, eventID, domain.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	approved := event.Clone()
	approved.Status = domain.StatusClosed
	approved.ValidatedBy = approverName(approver)

	steps := []cascadeStep{{
		eventID: approved.ID,
		apply:   func(ctx context.Context) error { return s.events.Update(ctx, approved) },
	}}

	if approved.EventType == domain.EventExit && approved.PairedEventID != "" {
		entry, err := s.events.FindByID(ctx, approved.PairedEventID)
		if err != nil {
			return nil, fmt.Errorf("approve: paired entry %s: %w", approved.PairedEventID, err)
		}
		if entry.Status != domain.StatusClosed {
			closed := entry.Clone()
			closed.Status = domain.StatusClosed
			steps = append(steps, cascadeStep{
				eventID: closed.ID,
				apply:   func(ctx context.Context) error { return s.events.Update(ctx, closed) },
			})
		}
	}

	if err := s.cascade.run(ctx, "approve", steps...); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditJustificationApproved,
		fmt.Sprintf("%s justification for %s (shift %s) approved by %s.", approved.EventType, approved.WorkerName, approved.ShiftCode, approved.ValidatedBy))
	s.log.Info().Str("event_id", approved.ID).Str("approver", approved.ValidatedBy).Int("writes", len(steps)).Msg("justification approved")

	return approved, nil
}

// Reject marks a pending event REJECTED. The paired entry is left as it is,
// so the shift stays open until another justification is approved.
func (s *ApprovalService) Reject(ctx context.Context, eventID, approver, reason string) (*domain.ClockEvent, error) {
	event, err := s.pending(ctx, eventID, domain.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("reject: %w", err)
	}
	if reason == "" {
		reason = defaultRejectReason
	}

	rejected := event.Clone()
	rejected.Status = domain.StatusRejected
	rejected.AppendNote(fmt.Sprintf("Rejected by %s: %s", approverName(approver), reason))

	if err := s.events.Update(ctx, rejected); err != nil {
		return nil, fmt.Errorf("reject: %w", err)
	}

	s.audit.Record(ctx, domain.AuditJustificationRejected,
		fmt.Sprintf("%s justification for %s (shift %s) rejected: %s", rejected.EventType, rejected.WorkerName, rejected.ShiftCode, reason))
	s.log.Info().Str("event_id", rejected.ID).Str("reason", reason).Msg("justification rejected")

	return rejected, nil
}

func (s *ApprovalService) pending(ctx context.Context, eventID string, next domain.EventStatus) (*domain.ClockEvent, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.StatusPending || !event.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, event.Status, next)
	}
	return event, nil
}

func approverName(approver string) string {
	if approver == "" {
		return domain.SystemActor
	}
	return approver
}
