package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/biohealth/ponto/docs"
	"github.com/biohealth/ponto/internal/api/handler"
	"github.com/biohealth/ponto/internal/api/middleware"
	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

// Deps groups everything the HTTP layer needs.
type Deps struct {
	JWTSecret string
	Location  *time.Location
	Log       zerolog.Logger

	Auth       ports.AuthService
	Scans      ports.ScanProcessor
	Dispatcher handler.ScanDispatcher
	Shift      interface {
		handler.NextEventDecider
		handler.EventDeleter
	}
	Mirror    ports.MirrorService
	Approvals ports.ApprovalService
	Registry  handler.Registry
	Audit     handler.AuditLister
	Repair    handler.Repairer

	// Health maps dependency names to their readiness checks.
	Health map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("ponto"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	scanHandler := handler.NewScanHandler(d.Scans, d.Dispatcher, d.Shift)
	eventHandler := handler.NewEventHandler(d.Shift)
	mirrorHandler := handler.NewMirrorHandler(d.Mirror, d.Registry, d.Location)
	approvalHandler := handler.NewApprovalHandler(d.Approvals)
	registryHandler := handler.NewRegistryHandler(d.Registry)
	adminHandler := handler.NewAdminHandler(d.Audit, d.Repair)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", handler.NewHealthHandler().Liveness)                  // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Health).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))
	manager := middleware.RBAC(domain.RoleManager)
	perm := middleware.RequirePermission

	v1.POST("/users", authHandler.Register, manager, perm(domain.PermManagement))

	terminal := middleware.RBAC(domain.RoleSite, domain.RoleManager)
	v1.POST("/scans", scanHandler.Process, terminal, perm(domain.PermClock))
	v1.POST("/scans/batch", scanHandler.ProcessBatch, terminal, perm(domain.PermClock))
	v1.GET("/workers/:id/next-event", scanHandler.NextEvent, terminal)

	v1.DELETE("/events/:id", eventHandler.Delete, manager, perm(domain.PermReports))

	// Worker ownership is checked in the handler.
	reader := middleware.RBAC(domain.RoleWorker, domain.RoleManager)
	v1.GET("/workers/:id/mirror", mirrorHandler.Mirror, reader)
	v1.GET("/workers/:id/mirror.xlsx", mirrorHandler.Export, reader)
	v1.POST("/justifications", mirrorHandler.SubmitJustification, middleware.RBAC(domain.RoleWorker))

	v1.GET("/approvals", approvalHandler.List, manager, perm(domain.PermAuthorization))
	v1.POST("/approvals/:id/approve", approvalHandler.Approve, manager, perm(domain.PermAuthorization))
	v1.POST("/approvals/:id/reject", approvalHandler.Reject, manager, perm(domain.PermAuthorization))

	workers := v1.Group("/workers", manager, perm(domain.PermRegistry))
	workers.GET("", registryHandler.ListWorkers)
	workers.POST("", registryHandler.CreateWorker)
	workers.GET("/:id", registryHandler.GetWorker)
	workers.PUT("/:id", registryHandler.UpdateWorker)
	workers.DELETE("/:id", registryHandler.DeleteWorker)

	v1.POST("/workers/:id/biometrics", registryHandler.EnrollBiometric, manager, perm(domain.PermBiometrics))
	v1.DELETE("/workers/:id/biometrics/:bio_id", registryHandler.RemoveBiometric, manager, perm(domain.PermBiometrics))

	sites := v1.Group("/sites", manager, perm(domain.PermSites))
	sites.GET("", registryHandler.ListSites)
	sites.POST("", registryHandler.CreateSite)
	sites.GET("/:id", registryHandler.GetSite)
	sites.PUT("/:id", registryHandler.UpdateSite)
	sites.DELETE("/:id", registryHandler.DeleteSite)

	v1.GET("/audit", adminHandler.Audit, manager, perm(domain.PermAudit))
	v1.POST("/admin/repair", adminHandler.Repair, manager, perm(domain.PermManagement))

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
