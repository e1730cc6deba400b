package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// cascadeStep is one write of a multi-write cascade.
type cascadeStep struct {
	eventID string
	apply   func(ctx context.Context) error
}

// cascadeRunner applies cascades inside a transaction when the store offers
// one. Otherwise the steps run in order, every step after the first is
// retried once, and a failure after a successful step is reported as a
// *domain.CascadeInconsistencyError.
type cascadeRunner struct {
	tx  ports.Transactor
	log zerolog.Logger
}

func (c cascadeRunner) run(ctx context.Context, op string, steps ...cascadeStep) error {
	if c.tx != nil {
		err := c.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, s := range steps {
				if err := s.apply(ctx); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	applied := ""
	for i, s := range steps {
		err := s.apply(ctx)
		if err != nil && i > 0 {
			c.log.Warn().Err(err).Str("op", op).Str("event_id", s.eventID).Msg("cascade step failed, retrying")
			err = s.apply(ctx)
		}
		if err != nil {
			if i == 0 {
				return fmt.Errorf("%s: %w", op, err)
			}
			c.log.Error().Err(err).
				Str("op", op).
				Str("applied", applied).
				Str("failed", s.eventID).
				Msg("cascade left inconsistent")
			return &domain.CascadeInconsistencyError{
				Op:             op,
				AppliedEventID: applied,
				FailedEventID:  s.eventID,
				Err:            err,
			}
		}
		applied = s.eventID
	}
	return nil
}
