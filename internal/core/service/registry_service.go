package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// RegistryService manages workers, their biometric enrollment and sites.
type RegistryService struct {
	workers ports.WorkerRepository
	sites   ports.SiteRepository
	audit   *AuditService
	log     zerolog.Logger
}

func NewRegistryService(workers ports.WorkerRepository, sites ports.SiteRepository, audit *AuditService, log zerolog.Logger) *RegistryService {
	return &RegistryService{workers: workers, sites: sites, audit: audit, log: log}
}

func (s *RegistryService) ListWorkers(ctx context.Context) ([]*domain.Worker, error) {
	return s.workers.List(ctx)
}

func (s *RegistryService) GetWorker(ctx context.Context, id string) (*domain.Worker, error) {
	return s.workers.FindByID(ctx, id)
}

// SaveWorker creates the worker when ID is empty, otherwise replaces it while
// keeping the enrolled templates.
func (s *RegistryService) SaveWorker(ctx context.Context, w *domain.Worker) (*domain.Worker, error) {
	if strings.TrimSpace(w.Name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(w.Registration) == "" {
		return nil, domain.NewValidationError("registration", "is required")
	}
	if w.Status == "" {
		w.Status = domain.WorkerActive
	}
	if !w.Status.Valid() {
		return nil, domain.NewValidationError("status", "must be ACTIVE, INACTIVE or SUSPENDED")
	}

	saved := w.Clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		saved.EnrolledBiometrics = nil
	} else {
		existing, err := s.workers.FindByID(ctx, saved.ID)
		if err != nil {
			return nil, fmt.Errorf("save worker: %w", err)
		}
		saved.EnrolledBiometrics = existing.EnrolledBiometrics
	}
	saved.UpdatedAt = time.Now().UTC()

	if err := s.workers.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("save worker: %w", err)
	}
	s.audit.Record(ctx, domain.AuditWorkerSaved, fmt.Sprintf("Worker %s saved.", saved.Name))
	return saved, nil
}

func (s *RegistryService) DeleteWorker(ctx context.Context, id string) error {
	if err := s.workers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	s.audit.Record(ctx, domain.AuditWorkerDeleted, fmt.Sprintf("Worker %s removed.", id))
	return nil
}

// EnrollBiometric adds a template to the worker.
func (s *RegistryService) EnrollBiometric(ctx context.Context, workerID string, fingerIndex int, templateHash string) (*domain.BiometricTemplate, error) {
	if fingerIndex < 0 || fingerIndex > 9 {
		return nil, domain.NewValidationError("finger_index", "must be between 0 and 9")
	}
	if templateHash == "" {
		return nil, domain.NewValidationError("template_hash", "is required")
	}

	w, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("enroll biometric: %w", err)
	}
	tpl := domain.BiometricTemplate{
		ID:           uuid.NewString(),
		FingerIndex:  fingerIndex,
		TemplateHash: templateHash,
		CreatedAt:    time.Now().UTC(),
	}
	w.EnrolledBiometrics = append(w.EnrolledBiometrics, tpl)
	w.UpdatedAt = tpl.CreatedAt

	if err := s.workers.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("enroll biometric: %w", err)
	}
	s.audit.Record(ctx, domain.AuditBiometricEnrolled, fmt.Sprintf("Template added for %s (finger %d).", w.Name, fingerIndex))
	return &tpl, nil
}

// RemoveBiometric drops a template. Unknown template ids are a no-op.
func (s *RegistryService) RemoveBiometric(ctx context.Context, workerID, templateID string) error {
	w, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return fmt.Errorf("remove biometric: %w", err)
	}
	kept := w.EnrolledBiometrics[:0]
	for _, t := range w.EnrolledBiometrics {
		if t.ID != templateID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(w.EnrolledBiometrics) {
		return nil
	}
	w.EnrolledBiometrics = kept
	w.UpdatedAt = time.Now().UTC()

	if err := s.workers.Save(ctx, w); err != nil {
		return fmt.Errorf("remove biometric: %w", err)
	}
	s.audit.Record(ctx, domain.AuditBiometricRemoved, fmt.Sprintf("Template %s removed from %s.", templateID, w.Name))
	return nil
}

func (s *RegistryService) ListSites(ctx context.Context) ([]*domain.Site, error) {
	return s.sites.List(ctx)
}

func (s *RegistryService) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	return s.sites.FindByID(ctx, id)
}

// SaveSite creates or replaces a site. Sectors without an id get one.
func (s *RegistryService) SaveSite(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	if strings.TrimSpace(site.Name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(site.Slug) == "" {
		return nil, domain.NewValidationError("slug", "is required")
	}

	saved := site.Clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	for i := range saved.Sectors {
		if strings.TrimSpace(saved.Sectors[i].Name) == "" {
			return nil, domain.NewValidationError("sectors", "every sector needs a name")
		}
		if saved.Sectors[i].ID == "" {
			saved.Sectors[i].ID = uuid.NewString()
		}
	}

	if err := s.sites.Save(ctx, saved); err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}
	s.audit.Record(ctx, domain.AuditSiteSaved, fmt.Sprintf("Site %s saved.", saved.Name))
	return saved, nil
}

func (s *RegistryService) DeleteSite(ctx context.Context, id string) error {
	if err := s.sites.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	s.audit.Record(ctx, domain.AuditSiteDeleted, fmt.Sprintf("Site %s removed.", id))
	return nil
}
