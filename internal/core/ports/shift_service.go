package ports

import (
	"context"
	"time"

	"github.com/biohealth/ponto/internal/core/domain"
)

// RegisterEventInput carries everything needed to record one clock event.
type RegisterEventInput struct {
	Worker    *domain.Worker
	EventType domain.EventType
	SiteID    string
	SectorID  string
	// Prior is the worker's last countable event, used for pairing.
	Prior *domain.ClockEvent
	// At defaults to the current time when zero.
	At time.Time
}

// ShiftService is the reconciliation engine.
type ShiftService interface {
	NextEventType(ctx context.Context, workerID string) (domain.EventType, error)
	RegisterEvent(ctx context.Context, in RegisterEventInput) (*domain.ClockEvent, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// ApprovalService is the manager-side queue of justification requests.
type ApprovalService interface {
	ListPending(ctx context.Context) ([]*domain.ClockEvent, error)
	Approve(ctx context.Context, eventID, approver string) (*domain.ClockEvent, error)
	Reject(ctx context.Context, eventID, approver, reason string) (*domain.ClockEvent, error)
}

// MirrorFilter narrows the shift mirror. Zero values mean no filter.
type MirrorFilter struct {
	SiteID   string
	DateFrom time.Time // inclusive, compared on the local calendar date
	DateTo   time.Time // inclusive, compared on the local calendar date
}

// ShiftRow is one line of the shift mirror. Rebuilt on every read.
type ShiftRow struct {
	ID            string
	LocationLabel string
	SiteID        string
	SiteName      string
	SectorID      string
	SectorName    string
	Date          string // dd/mm/yyyy
	Entry         *domain.ClockEvent
	Exit          *domain.ClockEvent
	DisplayStatus string
}

// JustificationInput is a worker's request to record a missing event.
type JustificationInput struct {
	WorkerID      string
	AnchorEventID string
	RequestedTime string // HH:MM
	Reason        string
	Description   string
	// Target defaults to EXIT.
	Target domain.EventType
}

// MirrorService builds the worker-facing shift view and accepts justifications.
type MirrorService interface {
	BuildShiftRows(ctx context.Context, workerID string, filter MirrorFilter) ([]ShiftRow, error)
	SubmitJustification(ctx context.Context, in JustificationInput) (*domain.ClockEvent, error)
}

// RepairReport lists the events touched by a repair pass.
type RepairReport struct {
	Closed   []string
	Reopened []string
}

// AuthService issues tokens for managers, sites and workers.
type AuthService interface {
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// RegisterUserInput carries the fields of a new login account.
type RegisterUserInput struct {
	Username    string
	Password    string
	Role        string
	WorkerID    string
	SiteID      string
	Permissions []string
}
