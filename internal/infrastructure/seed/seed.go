// Package seed loads the demo fixtures into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// Options are the credentials given to the seeded accounts.
type Options struct {
	AdminUser     string
	AdminPassword string
	// UserPassword is shared by the site and worker logins.
	UserPassword string
}

// Seeder writes fixtures through the repositories and the auth service, so
// passwords are hashed the same way as for real accounts.
type Seeder struct {
	workers ports.WorkerRepository
	sites   ports.SiteRepository
	auth    ports.AuthService
	log     zerolog.Logger
}

func New(workers ports.WorkerRepository, sites ports.SiteRepository, auth ports.AuthService, log zerolog.Logger) *Seeder {
	return &Seeder{workers: workers, sites: sites, auth: auth, log: log}
}

// Run seeds a store that has no workers yet and reports whether it did.
func (s *Seeder) Run(ctx context.Context, opts Options) (bool, error) {
	existing, err := s.workers.List(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		s.log.Debug().Int("workers", len(existing)).Msg("store not empty, skipping seed")
		return false, nil
	}

	for _, site := range Sites() {
		if err := s.sites.Save(ctx, site); err != nil {
			return false, fmt.Errorf("seed site %s: %w", site.Slug, err)
		}
		if err := s.account(ctx, ports.RegisterUserInput{
			Username: site.AccessCode,
			Password: opts.UserPassword,
			Role:     domain.RoleSite,
			SiteID:   site.ID,
		}); err != nil {
			return false, err
		}
	}

	for _, w := range Workers() {
		if err := s.workers.Save(ctx, w); err != nil {
			return false, fmt.Errorf("seed worker %s: %w", w.Registration, err)
		}
		if err := s.account(ctx, ports.RegisterUserInput{
			Username: w.Registration,
			Password: opts.UserPassword,
			Role:     domain.RoleWorker,
			WorkerID: w.ID,
		}); err != nil {
			return false, err
		}
	}

	if err := s.account(ctx, ports.RegisterUserInput{
		Username:    opts.AdminUser,
		Password:    opts.AdminPassword,
		Role:        domain.RoleManager,
		Permissions: domain.AllPermissions,
	}); err != nil {
		return false, err
	}

	s.log.Info().Msg("fixtures seeded")
	return true, nil
}

func (s *Seeder) account(ctx context.Context, in ports.RegisterUserInput) error {
	_, err := s.auth.Register(ctx, in)
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("seed account %s: %w", in.Username, err)
	}
	return nil
}

// Sites returns the three regional hospitals.
func Sites() []*domain.Site {
	return []*domain.Site{
		{
			ID:         "h1",
			Name:       "Hospital Regional Norte (HRN)",
			Slug:       "hrn",
			AccessCode: "HSP-1001",
			Address:    &domain.Address{ZipCode: "62000-000", Street: "Av. John Sanford", Number: "1520", Latitude: -3.682, Longitude: -40.348, Radius: 100},
			Sectors: []domain.Sector{
				{ID: "s1", Name: "UTI Adulto"},
				{ID: "s2", Name: "Emergência"},
				{ID: "s3", Name: "Centro Cirúrgico"},
			},
		},
		{
			ID:         "h2",
			Name:       "Hospital Regional do Sertão Central (HRSC)",
			Slug:       "hrsc",
			AccessCode: "HSP-1002",
			Address:    &domain.Address{ZipCode: "63800-000", Street: "Rodovia CE 060", Number: "S/N", Latitude: -5.197, Longitude: -39.296, Radius: 100},
			Sectors: []domain.Sector{
				{ID: "s4", Name: "Clínica Médica"},
				{ID: "s5", Name: "Traumatologia"},
			},
		},
		{
			ID:         "h3",
			Name:       "Hospital Regional do Cariri (HRC)",
			Slug:       "hrc",
			AccessCode: "HSP-1003",
			Address:    &domain.Address{ZipCode: "63000-000", Street: "Rua Catulo da Paixão Cearense", Number: "S/N", Latitude: -7.230, Longitude: -39.310, Radius: 100},
			Sectors: []domain.Sector{
				{ID: "s6", Name: "Neurologia"},
				{ID: "s7", Name: "AVC"},
			},
		},
	}
}

// Workers returns two cooperative members; only the first has a template.
func Workers() []*domain.Worker {
	now := time.Now().UTC()
	return []*domain.Worker{
		{
			ID:           "1",
			Name:         "Dra. Ana Silva",
			Document:     "123.456.789-00",
			Registration: "MED-2024-001",
			Specialty:    "Cardiologia",
			Phone:        "(11) 99999-9999",
			Email:        "ana.silva@coop.com",
			Status:       domain.WorkerActive,
			EnrolledBiometrics: []domain.BiometricTemplate{
				{ID: "bio-1", FingerIndex: 1, TemplateHash: "simulated_hash_xyz", CreatedAt: now},
			},
			UpdatedAt: now,
		},
		{
			ID:           "2",
			Name:         "Enf. Carlos Souza",
			Document:     "321.654.987-00",
			Registration: "ENF-2024-055",
			Specialty:    "Enfermeiro",
			Phone:        "(11) 98888-8888",
			Email:        "carlos.souza@coop.com",
			Status:       domain.WorkerActive,
			UpdatedAt:    now,
		},
	}
}
