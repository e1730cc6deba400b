package ports

import (
	"context"
	"time"

	"github.com/biohealth/ponto/internal/core/domain"
)

// CaptureSignal is what a terminal sends after a successful fingerprint read.
type CaptureSignal struct {
	ScanID       string
	TerminalID   string
	TemplateHash string
	FingerIndex  int
	CapturedAt   time.Time
}

// IdentificationProvider resolves a capture to an enrolled worker.
// Implementations return domain.ErrWorkerNotIdentified when nobody matches.
type IdentificationProvider interface {
	Identify(ctx context.Context, signal CaptureSignal) (*domain.Worker, error)
}

// ScanGuard makes sure a physical scan is registered at most once.
type ScanGuard interface {
	// Claim reports true the first time scanID is seen and false afterwards.
	Claim(ctx context.Context, scanID string) (bool, error)
	// Release forgets a claim whose registration did not complete.
	Release(ctx context.Context, scanID string) error
}

// ScanInput is the DTO passed from the transport layer to the scan pipeline.
type ScanInput struct {
	Capture  CaptureSignal
	SiteID   string
	SectorID string
}

// ScanResult reports what a scan produced.
type ScanResult struct {
	Worker *domain.Worker
	Event  *domain.ClockEvent
}

// ScanProcessor runs one scan through identification and registration.
type ScanProcessor interface {
	Process(ctx context.Context, in ScanInput) (*ScanResult, error)
}
