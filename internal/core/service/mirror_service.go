package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

const (
	calendarDate = "2006-01-02"
	displayDate  = "02/01/2006"
	clockTime    = "15:04"
)

// MirrorService derives the paired shift view of one worker and is the only
// way a PENDING event enters the store.
type MirrorService struct {
	events ports.EventRepository
	sites  ports.SiteRepository
	loc    *time.Location
	audit  *AuditService
	log    zerolog.Logger
}

// NewMirrorService returns a MirrorService. loc is used for calendar dates;
// nil means UTC.
func NewMirrorService(
	events ports.EventRepository,
	sites ports.SiteRepository,
	loc *time.Location,
	audit *AuditService,
	log zerolog.Logger,
) *MirrorService {
	if loc == nil {
		loc = time.UTC
	}
	return &MirrorService{events: events, sites: sites, loc: loc, audit: audit, log: log}
}

// BuildShiftRows pairs the worker's entries with their exits, newest first.
func (s *MirrorService) BuildShiftRows(ctx context.Context, workerID string, filter ports.MirrorFilter) ([]ports.ShiftRow, error) {
	all, err := s.events.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("build shift rows: %w", err)
	}

	filtered := make([]*domain.ClockEvent, 0, len(all))
	for _, e := range all {
		if e.Status == domain.StatusRejected || !s.matches(e, filter) {
			continue
		}
		filtered = append(filtered, e)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	names := newSiteNames(s.sites, s.log)
	rows := make([]ports.ShiftRow, 0, len(filtered))
	matched := make(map[string]bool)

	for _, entry := range filtered {
		if entry.EventType != domain.EventEntry {
			continue
		}
		var exit *domain.ClockEvent
		for _, e := range filtered {
			if e.EventType == domain.EventExit && e.PairedEventID == entry.ID {
				exit = e
				break
			}
		}

		status := domain.DisplayOpen
		if exit != nil {
			matched[exit.ID] = true
			switch exit.Status {
			case domain.StatusPending:
				status = domain.DisplayAwaiting
			case domain.StatusClosed:
				status = domain.DisplayClosed
			}
		}
		rows = append(rows, s.row(ctx, names, entry, exit, status))
	}

	for _, exit := range filtered {
		if exit.EventType != domain.EventExit || matched[exit.ID] {
			continue
		}
		status := domain.DisplayClosedNoEntry
		if exit.Status == domain.StatusPending {
			status = domain.DisplayAwaiting
		}
		rows = append(rows, s.row(ctx, names, nil, exit, status))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rowTime(rows[i]).After(rowTime(rows[j]))
	})
	return rows, nil
}

func (s *MirrorService) matches(e *domain.ClockEvent, f ports.MirrorFilter) bool {
	if f.SiteID != "" && e.SiteID != f.SiteID {
		return false
	}
	day := e.Timestamp.In(s.loc).Format(calendarDate)
	if !f.DateFrom.IsZero() && day < f.DateFrom.In(s.loc).Format(calendarDate) {
		return false
	}
	if !f.DateTo.IsZero() && day > f.DateTo.In(s.loc).Format(calendarDate) {
		return false
	}
	return true
}

func (s *MirrorService) row(ctx context.Context, names *siteNames, entry, exit *domain.ClockEvent, status string) ports.ShiftRow {
	anchor := entry
	if anchor == nil {
		anchor = exit
	}
	siteName, sectorName := names.resolve(ctx, anchor)
	return ports.ShiftRow{
		ID:            anchor.ID,
		LocationLabel: anchor.LocationLabel,
		SiteID:        anchor.SiteID,
		SiteName:      siteName,
		SectorID:      anchor.SectorID,
		SectorName:    sectorName,
		Date:          anchor.Timestamp.In(s.loc).Format(displayDate),
		Entry:         entry,
		Exit:          exit,
		DisplayStatus: status,
	}
}

func rowTime(r ports.ShiftRow) time.Time {
	if r.Entry != nil {
		return r.Entry.Timestamp
	}
	return r.Exit.Timestamp
}

// SubmitJustification records a PENDING event for a missing clock event of
// the anchor's shift, on the anchor's calendar date at the requested time.
func (s *MirrorService) SubmitJustification(ctx context.Context, in ports.JustificationInput) (*domain.ClockEvent, error) {
	if in.WorkerID == "" {
		return nil, domain.NewValidationError("worker_id", "is required")
	}
	if in.AnchorEventID == "" {
		return nil, domain.NewValidationError("anchor_event_id", "is required")
	}
	clock, err := time.Parse(clockTime, in.RequestedTime)
	if err != nil {
		return nil, domain.NewValidationError("requested_time", "must be HH:MM")
	}
	if !domain.ValidReason(in.Reason) {
		return nil, domain.NewValidationError("reason", "is not an accepted reason")
	}
	if domain.ReasonNeedsDescription(in.Reason) && in.Description == "" {
		return nil, domain.NewValidationError("description", "is required for "+domain.ReasonOther)
	}
	target := in.Target
	if target == "" {
		target = domain.EventExit
	}
	if target != domain.EventExit && target != domain.EventEntry {
		return nil, domain.NewValidationError("target", "must be ENTRY or EXIT")
	}

	anchor, err := s.events.FindByID(ctx, in.AnchorEventID)
	if err != nil {
		return nil, fmt.Errorf("submit justification: %w", err)
	}
	if anchor.WorkerID != in.WorkerID {
		return nil, fmt.Errorf("submit justification: %w", domain.ErrForbidden)
	}
	if anchor.EventType != domain.EventEntry {
		return nil, domain.NewValidationError("anchor_event_id", "must reference an entry")
	}
	if anchor.Status == domain.StatusRejected {
		return nil, domain.NewValidationError("anchor_event_id", "references a rejected event")
	}

	day := anchor.Timestamp.In(s.loc)
	at := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, s.loc)

	event := &domain.ClockEvent{
		ID:            uuid.NewString(),
		ShiftCode:     anchor.ShiftCode,
		WorkerID:      anchor.WorkerID,
		WorkerName:    anchor.WorkerName,
		Timestamp:     at.UTC(),
		EventType:     target,
		LocationLabel: anchor.LocationLabel,
		SiteID:        anchor.SiteID,
		SectorID:      anchor.SectorID,
		IsManual:      true,
		Status:        domain.StatusPending,
		PairedEventID: anchor.ID,
		Justification: &domain.JustificationData{
			Reason:      in.Reason,
			Description: in.Description,
			RequestedAt: time.Now().UTC(),
		},
	}

	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("submit justification: %w", err)
	}

	s.audit.Record(ctx, domain.AuditJustificationSent,
		fmt.Sprintf("%s justification (%s) submitted by %s for shift %s.", event.EventType, in.Reason, event.WorkerName, event.ShiftCode))
	s.log.Info().
		Str("event_id", event.ID).
		Str("anchor_id", anchor.ID).
		Str("reason", in.Reason).
		Time("timestamp", event.Timestamp).
		Msg("justification submitted")

	return event, nil
}

// siteNames resolves site and sector names once per site for a single read.
type siteNames struct {
	repo  ports.SiteRepository
	log   zerolog.Logger
	cache map[string]*domain.Site
}

func newSiteNames(repo ports.SiteRepository, log zerolog.Logger) *siteNames {
	return &siteNames{repo: repo, log: log, cache: make(map[string]*domain.Site)}
}

// resolve falls back to the stored label for events without a known site.
func (n *siteNames) resolve(ctx context.Context, e *domain.ClockEvent) (string, string) {
	fallback := domain.SectorFromLabel(e.LocationLabel)
	if e.SiteID == "" || n.repo == nil {
		return "", fallback
	}
	site, ok := n.cache[e.SiteID]
	if !ok {
		found, err := n.repo.FindByID(ctx, e.SiteID)
		if err != nil && !errors.Is(err, domain.ErrSiteNotFound) {
			n.log.Warn().Err(err).Str("site_id", e.SiteID).Msg("site lookup failed")
		}
		site = found
		n.cache[e.SiteID] = site
	}
	if site == nil {
		return "", fallback
	}
	if sector, ok := site.Sector(e.SectorID); ok {
		return site.Name, sector.Name
	}
	return site.Name, fallback
}
