// Package identification resolves a fingerprint capture to an enrolled
// worker.
package identification

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// Mode names accepted by New.
const (
	ModeMatch         = "match"
	ModeFirstEnrolled = "first_enrolled"
	ModeRoundRobin    = "round_robin"
)

// New returns the provider for mode.
func New(mode string, workers ports.WorkerRepository) (ports.IdentificationProvider, error) {
	switch mode {
	case ModeMatch, "":
		return NewTemplateMatcher(workers), nil
	case ModeFirstEnrolled:
		return NewFirstEnrolled(workers), nil
	case ModeRoundRobin:
		return NewRoundRobin(workers), nil
	default:
		return nil, fmt.Errorf("unknown identification mode %q", mode)
	}
}

// TemplateMatcher compares the capture's template hash with the enrolled
// templates of active workers.
type TemplateMatcher struct {
	workers ports.WorkerRepository
}

func NewTemplateMatcher(workers ports.WorkerRepository) *TemplateMatcher {
	return &TemplateMatcher{workers: workers}
}

func (m *TemplateMatcher) Identify(ctx context.Context, signal ports.CaptureSignal) (*domain.Worker, error) {
	if signal.TemplateHash == "" {
		return nil, domain.ErrWorkerNotIdentified
	}
	all, err := m.workers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}
	probe := []byte(signal.TemplateHash)
	for _, w := range all {
		if w.Status != domain.WorkerActive {
			continue
		}
		for _, t := range w.EnrolledBiometrics {
			if subtle.ConstantTimeCompare(probe, []byte(t.TemplateHash)) == 1 {
				return w, nil
			}
		}
	}
	return nil, domain.ErrWorkerNotIdentified
}

// FirstEnrolled returns the first worker with an enrolled template, or the
// first worker at all. It exists for demos without a reader attached.
type FirstEnrolled struct {
	workers ports.WorkerRepository
}

func NewFirstEnrolled(workers ports.WorkerRepository) *FirstEnrolled {
	return &FirstEnrolled{workers: workers}
}

func (f *FirstEnrolled) Identify(ctx context.Context, _ ports.CaptureSignal) (*domain.Worker, error) {
	all, err := f.workers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.ErrWorkerNotIdentified
	}
	for _, w := range all {
		if w.HasBiometrics() {
			return w, nil
		}
	}
	return all[0], nil
}

// RoundRobin cycles over the enrolled workers on every call.
type RoundRobin struct {
	workers ports.WorkerRepository

	mu   sync.Mutex
	next int
}

func NewRoundRobin(workers ports.WorkerRepository) *RoundRobin {
	return &RoundRobin{workers: workers}
}

func (r *RoundRobin) Identify(ctx context.Context, _ ports.CaptureSignal) (*domain.Worker, error) {
	all, err := r.workers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}
	enrolled := all[:0]
	for _, w := range all {
		if w.HasBiometrics() {
			enrolled = append(enrolled, w)
		}
	}
	if len(enrolled) == 0 {
		return nil, domain.ErrWorkerNotIdentified
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	w := enrolled[r.next%len(enrolled)]
	r.next++
	return w, nil
}
