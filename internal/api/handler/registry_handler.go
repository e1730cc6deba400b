package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
)

// Registry is the worker and site register managed from the admin screens.
type Registry interface {
	ListWorkers(ctx context.Context) ([]*domain.Worker, error)
	GetWorker(ctx context.Context, id string) (*domain.Worker, error)
	SaveWorker(ctx context.Context, w *domain.Worker) (*domain.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
	EnrollBiometric(ctx context.Context, workerID string, fingerIndex int, templateHash string) (*domain.BiometricTemplate, error)
	RemoveBiometric(ctx context.Context, workerID, templateID string) error

	ListSites(ctx context.Context) ([]*domain.Site, error)
	GetSite(ctx context.Context, id string) (*domain.Site, error)
	SaveSite(ctx context.Context, s *domain.Site) (*domain.Site, error)
	DeleteSite(ctx context.Context, id string) error
}

type RegistryHandler struct {
	registry Registry
}

func NewRegistryHandler(registry Registry) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// ListWorkers godoc
//
// @Summary      List workers
// @Tags         workers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Worker
// @Router       /v1/workers [get]
func (h *RegistryHandler) ListWorkers(c echo.Context) error {
	workers, err := h.registry.ListWorkers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workers)
}

// GetWorker godoc
//
// @Summary      Get a worker
// @Tags         workers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  domain.Worker
// @Failure      404  {object}  errorResponse
// @Router       /v1/workers/{id} [get]
func (h *RegistryHandler) GetWorker(c echo.Context) error {
	w, err := h.registry.GetWorker(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// CreateWorker godoc
//
// @Summary      Create a worker
// @Tags         workers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      workerRequest  true  "Worker"
// @Success      201   {object}  domain.Worker
// @Failure      422   {object}  errorResponse
// @Router       /v1/workers [post]
func (h *RegistryHandler) CreateWorker(c echo.Context) error {
	return h.saveWorker(c, "", http.StatusCreated)
}

// UpdateWorker godoc
//
// @Summary      Update a worker
// @Tags         workers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Worker ID"
// @Param        body  body      workerRequest  true  "Worker"
// @Success      200   {object}  domain.Worker
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/workers/{id} [put]
func (h *RegistryHandler) UpdateWorker(c echo.Context) error {
	return h.saveWorker(c, c.Param("id"), http.StatusOK)
}

func (h *RegistryHandler) saveWorker(c echo.Context, id string, status int) error {
	var req workerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	w, err := h.registry.SaveWorker(c.Request().Context(), toWorker(id, req))
	if err != nil {
		return err
	}
	return c.JSON(status, w)
}

// DeleteWorker godoc
//
// @Summary      Delete a worker
// @Tags         workers
// @Security     BearerAuth
// @Param        id   path  string  true  "Worker ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/workers/{id} [delete]
func (h *RegistryHandler) DeleteWorker(c echo.Context) error {
	if err := h.registry.DeleteWorker(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// EnrollBiometric godoc
//
// @Summary      Enroll a fingerprint template
// @Tags         biometrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Worker ID"
// @Param        body  body      biometricRequest  true  "Template"
// @Success      201   {object}  domain.BiometricTemplate
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/workers/{id}/biometrics [post]
func (h *RegistryHandler) EnrollBiometric(c echo.Context) error {
	var req biometricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	tpl, err := h.registry.EnrollBiometric(c.Request().Context(), c.Param("id"), req.FingerIndex, req.TemplateHash)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tpl)
}

// RemoveBiometric godoc
//
// @Summary      Remove a fingerprint template
// @Tags         biometrics
// @Security     BearerAuth
// @Param        id      path  string  true  "Worker ID"
// @Param        bio_id  path  string  true  "Template ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/workers/{id}/biometrics/{bio_id} [delete]
func (h *RegistryHandler) RemoveBiometric(c echo.Context) error {
	if err := h.registry.RemoveBiometric(c.Request().Context(), c.Param("id"), c.Param("bio_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSites godoc
//
// @Summary      List sites
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Site
// @Router       /v1/sites [get]
func (h *RegistryHandler) ListSites(c echo.Context) error {
	sites, err := h.registry.ListSites(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sites)
}

// GetSite godoc
//
// @Summary      Get a site
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  domain.Site
// @Failure      404  {object}  errorResponse
// @Router       /v1/sites/{id} [get]
func (h *RegistryHandler) GetSite(c echo.Context) error {
	s, err := h.registry.GetSite(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// CreateSite godoc
//
// @Summary      Create a site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      siteRequest  true  "Site"
// @Success      201   {object}  domain.Site
// @Failure      422   {object}  errorResponse
// @Router       /v1/sites [post]
func (h *RegistryHandler) CreateSite(c echo.Context) error {
	return h.saveSite(c, "", http.StatusCreated)
}

// UpdateSite godoc
//
// @Summary      Update a site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Site ID"
// @Param        body  body      siteRequest  true  "Site"
// @Success      200   {object}  domain.Site
// @Failure      422   {object}  errorResponse
// @Router       /v1/sites/{id} [put]
func (h *RegistryHandler) UpdateSite(c echo.Context) error {
	return h.saveSite(c, c.Param("id"), http.StatusOK)
}

func (h *RegistryHandler) saveSite(c echo.Context, id string, status int) error {
	var req siteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	s, err := h.registry.SaveSite(c.Request().Context(), toSite(id, req))
	if err != nil {
		return err
	}
	return c.JSON(status, s)
}

// DeleteSite godoc
//
// @Summary      Delete a site
// @Tags         sites
// @Security     BearerAuth
// @Param        id   path  string  true  "Site ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/sites/{id} [delete]
func (h *RegistryHandler) DeleteSite(c echo.Context) error {
	if err := h.registry.DeleteSite(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
