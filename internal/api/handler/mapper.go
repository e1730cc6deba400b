package handler

import (
	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

func toScanInput(r scanRequest) ports.ScanInput {
	return ports.ScanInput{
		Capture: ports.CaptureSignal{
			ScanID:       r.ScanID,
			TerminalID:   r.TerminalID,
			TemplateHash: r.TemplateHash,
			FingerIndex:  r.FingerIndex,
			CapturedAt:   r.CapturedAt,
		},
		SiteID:   r.SiteID,
		SectorID: r.SectorID,
	}
}

func toShiftRowResponses(rows []ports.ShiftRow) []shiftRowResponse {
	out := make([]shiftRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, shiftRowResponse{
			ID:            r.ID,
			Date:          r.Date,
			SiteID:        r.SiteID,
			SiteName:      r.SiteName,
			SectorID:      r.SectorID,
			SectorName:    r.SectorName,
			LocationLabel: r.LocationLabel,
			Entry:         r.Entry,
			Exit:          r.Exit,
			Status:        r.DisplayStatus,
		})
	}
	return out
}

func toWorker(id string, r workerRequest) *domain.Worker {
	return &domain.Worker{
		ID:           id,
		Name:         r.Name,
		Registration: r.Registration,
		Document:     r.Document,
		Specialty:    r.Specialty,
		Phone:        r.Phone,
		Email:        r.Email,
		Status:       domain.WorkerStatus(r.Status),
	}
}

func toSite(id string, r siteRequest) *domain.Site {
	s := &domain.Site{
		ID:         id,
		Name:       r.Name,
		Slug:       r.Slug,
		AccessCode: r.AccessCode,
		Sectors:    make([]domain.Sector, 0, len(r.Sectors)),
	}
	if r.Address != nil {
		s.Address = &domain.Address{
			ZipCode:   r.Address.ZipCode,
			Street:    r.Address.Street,
			Number:    r.Address.Number,
			Latitude:  r.Address.Latitude,
			Longitude: r.Address.Longitude,
			Radius:    r.Address.Radius,
		}
	}
	for _, sec := range r.Sectors {
		s.Sectors = append(s.Sectors, domain.Sector{ID: sec.ID, Name: sec.Name})
	}
	return s
}
