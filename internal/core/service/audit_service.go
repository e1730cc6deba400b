package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// AuditService writes and reads the audit trail. Writes are fire-and-forget.
// A nil *AuditService records nothing.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record appends an entry attributed to the actor found in ctx. Failures are
// logged and never returned.
func (s *AuditService) Record(ctx context.Context, action, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Details:   details,
		Actor:     domain.ActorFrom(ctx),
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to append audit entry")
	}
}

// List returns at most limit entries, newest first.
func (s *AuditService) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return s.repo.List(ctx, limit)
}
