package handler

import (
	"time"

	"github.com/biohealth/ponto/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// --- Scans ---

type scanRequest struct {
	ScanID       string    `json:"scan_id"       validate:"required"`
	TerminalID   string    `json:"terminal_id"   validate:"required"`
	TemplateHash string    `json:"template_hash"`
	FingerIndex  int       `json:"finger_index"  validate:"finger"`
	CapturedAt   time.Time `json:"captured_at"`
	SiteID       string    `json:"site_id"`
	SectorID     string    `json:"sector_id"`
}

type scanResponse struct {
	EventType  domain.EventType   `json:"event_type"`
	WorkerID   string             `json:"worker_id"`
	WorkerName string             `json:"worker_name"`
	Event      *domain.ClockEvent `json:"event"`
}

type nextEventResponse struct {
	WorkerID  string           `json:"worker_id"`
	EventType domain.EventType `json:"event_type"`
}

// --- Mirror and justifications ---

type shiftRowResponse struct {
	ID            string             `json:"id"`
	Date          string             `json:"date"`
	SiteID        string             `json:"site_id,omitempty"`
	SiteName      string             `json:"site_name"`
	SectorID      string             `json:"sector_id,omitempty"`
	SectorName    string             `json:"sector_name"`
	LocationLabel string             `json:"location_label"`
	Entry         *domain.ClockEvent `json:"entry,omitempty"`
	Exit          *domain.ClockEvent `json:"exit,omitempty"`
	Status        string             `json:"status"`
}

type justificationRequest struct {
	AnchorEventID string `json:"anchor_event_id" validate:"required"`
	RequestedTime string `json:"requested_time"  validate:"required,hhmm"`
	Reason        string `json:"reason"          validate:"required"`
	Description   string `json:"description"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// --- Registry ---

type biometricRequest struct {
	FingerIndex  int    `json:"finger_index"  validate:"finger"`
	TemplateHash string `json:"template_hash" validate:"required"`
}

type workerRequest struct {
	Name         string `json:"name"         validate:"required"`
	Registration string `json:"registration" validate:"required"`
	Document     string `json:"document"`
	Specialty    string `json:"specialty"`
	Phone        string `json:"phone"`
	Email        string `json:"email"        validate:"omitempty,email"`
	Status       string `json:"status"       validate:"omitempty,worker_status"`
}

type sectorRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

type addressRequest struct {
	ZipCode   string  `json:"zip_code"`
	Street    string  `json:"street"`
	Number    string  `json:"number"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"    validate:"gte=0"`
}

type siteRequest struct {
	Name       string          `json:"name"        validate:"required"`
	Slug       string          `json:"slug"        validate:"required,slug"`
	AccessCode string          `json:"access_code"`
	Address    *addressRequest `json:"address"`
	Sectors    []sectorRequest `json:"sectors"     validate:"dive"`
}

// --- Auth ---

type registerRequest struct {
	Username    string   `json:"username"    validate:"required"`
	Password    string   `json:"password"    validate:"required,min=3"`
	Role        string   `json:"role"        validate:"required,role"`
	WorkerID    string   `json:"worker_id"`
	SiteID      string   `json:"site_id"`
	Permissions []string `json:"permissions"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}
