// Package app wires configuration, storage backends and services into the
// HTTP server and the maintenance commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/api"
	"github.com/biohealth/ponto/internal/api/handler"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/core/service"
	"github.com/biohealth/ponto/internal/infrastructure/cache"
	"github.com/biohealth/ponto/internal/infrastructure/db/memory"
	mongostore "github.com/biohealth/ponto/internal/infrastructure/db/mongo"
	redisguard "github.com/biohealth/ponto/internal/infrastructure/db/redis"
	"github.com/biohealth/ponto/internal/infrastructure/identification"
	"github.com/biohealth/ponto/internal/infrastructure/queue"
	"github.com/biohealth/ponto/internal/infrastructure/seed"
	"github.com/biohealth/ponto/internal/pkg/config"
	"github.com/biohealth/ponto/pkg/logger"
)

// backend is one record store seen through the repository ports.
type backend struct {
	events  ports.EventRepository
	workers ports.WorkerRepository
	sites   ports.SiteRepository
	users   ports.UserRepository
	audit   ports.AuditRepository
	tx      ports.Transactor
	ping    handler.Pinger
	close   func() error
}

// App holds the wired services of one process.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
	Auth       *service.AuthService
	Repair     *service.RepairService

	seeder  *seed.Seeder
	closers []func() error
}

// New opens the configured backends and builds every service.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	guard, guardPing, err := a.openGuard(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	sites := ports.SiteRepository(cache.NewSiteRepository(store.sites, cfg.SiteCache.Size, cfg.SiteCache.TTL))

	identify, err := identification.New(cfg.Identification, store.workers)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	audit := service.NewAuditService(store.audit, logger.Component(log, "audit"))
	shift := service.NewShiftService(store.events, sites, store.tx, audit, logger.Component(log, "shift"))
	scans := service.NewScanService(identify, guard, shift, logger.Component(log, "scan"))
	mirror := service.NewMirrorService(store.events, sites, cfg.Location(), audit, logger.Component(log, "mirror"))
	approvals := service.NewApprovalService(store.events, store.tx, audit, logger.Component(log, "approval"))
	registry := service.NewRegistryService(store.workers, sites, audit, logger.Component(log, "registry"))

	a.Auth = service.NewAuthService(store.users, cfg.JWTSecret, cfg.TokenTTL)
	a.Repair = service.NewRepairService(store.events, audit, logger.Component(log, "repair"))
	a.Dispatcher = queue.NewDispatcher(cfg.Scan.Workers, scans, logger.Component(log, "dispatcher"))
	a.seeder = seed.New(store.workers, sites, a.Auth, logger.Component(log, "seed"))

	a.Echo = api.NewRouter(api.Deps{
		JWTSecret:  cfg.JWTSecret,
		Location:   cfg.Location(),
		Log:        log,
		Auth:       a.Auth,
		Scans:      scans,
		Dispatcher: a.Dispatcher,
		Shift:      shift,
		Mirror:     mirror,
		Approvals:  approvals,
		Registry:   registry,
		Audit:      audit,
		Repair:     a.Repair,
		Health: map[string]handler.Pinger{
			"store":      store.ping,
			"scan_guard": guardPing,
		},
	})

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			AuditRetention: cfg.Store.AuditRetention,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		tx := s.Transactor()
		log.Info().Str("database", cfg.Mongo.Database).Bool("transactions", tx != nil).Msg("using mongo store")
		return &backend{
			events: s.Events(), workers: s.Workers(), sites: s.Sites(), users: s.Users(), audit: s.Audit(),
			tx: tx, ping: s, close: s.Close,
		}, nil

	case config.BackendFile:
		s, err := memory.Open(cfg.Store.DataFile, memory.WithAuditRetention(cfg.Store.AuditRetention))
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		log.Info().Str("file", cfg.Store.DataFile).Msg("using file store")
		return memoryBackend(s), nil

	default:
		log.Info().Msg("using in-memory store")
		return memoryBackend(memory.New(memory.WithAuditRetention(cfg.Store.AuditRetention))), nil
	}
}

func memoryBackend(s *memory.Store) *backend {
	return &backend{
		events: s.Events(), workers: s.Workers(), sites: s.Sites(), users: s.Users(), audit: s.Audit(),
		tx: s, ping: s, close: s.Close,
	}
}

func (a *App) openGuard(ctx context.Context) (ports.ScanGuard, handler.Pinger, error) {
	if a.cfg.Scan.Guard != config.GuardRedis {
		g := memory.NewScanGuard(a.cfg.Scan.GuardTTL)
		return g, g, nil
	}
	client, err := redisguard.Connect(ctx, redisguard.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open scan guard: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	g := redisguard.NewScanGuard(client, a.cfg.Scan.GuardTTL)
	return g, g, nil
}

// Seed loads the demo fixtures when the store is empty.
func (a *App) Seed(ctx context.Context) (bool, error) {
	return a.seeder.Run(ctx, seed.Options{
		AdminUser:     a.cfg.Seed.AdminUser,
		AdminPassword: a.cfg.Seed.AdminPassword,
		UserPassword:  a.cfg.Seed.UserPassword,
	})
}

// Close releases the backends in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Serve runs the HTTP server and the offline scan workers until ctx is done.
// Scans still queued at shutdown are dropped.
func (a *App) Serve(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	a.Dispatcher.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- a.Echo.Start(addr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := a.Echo.Shutdown(shutdownCtx); serr != nil {
		a.log.Error().Err(serr).Msg("http shutdown")
	}

	stopWorkers()
	a.Dispatcher.Wait()
	a.log.Info().Msg("server stopped")

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
