package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
)

const defaultAuditLimit = 100

type AuditLister interface {
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

type Repairer interface {
	Run(ctx context.Context) (*ports.RepairReport, error)
}

// AdminHandler serves the audit trail and the cascade repair pass.
type AdminHandler struct {
	audit  AuditLister
	repair Repairer
}

func NewAdminHandler(audit AuditLister, repair Repairer) *AdminHandler {
	return &AdminHandler{audit: audit, repair: repair}
}

// Audit godoc
//
// @Summary      Audit trail, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 100)"
// @Success      200    {array}   domain.AuditEntry
// @Failure      400    {object}  errorResponse
// @Router       /v1/audit [get]
func (h *AdminHandler) Audit(c echo.Context) error {
	limit := defaultAuditLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	entries, err := h.audit.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

type repairResponse struct {
	Closed   []string `json:"closed"`
	Reopened []string `json:"reopened"`
}

// Repair godoc
//
// @Summary      Repair half-applied cascades
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  repairResponse
// @Router       /v1/admin/repair [post]
func (h *AdminHandler) Repair(c echo.Context) error {
	report, err := h.repair.Run(c.Request().Context())
	if err != nil {
		return err
	}
	resp := repairResponse{Closed: report.Closed, Reopened: report.Reopened}
	if resp.Closed == nil {
		resp.Closed = []string{}
	}
	if resp.Reopened == nil {
		resp.Reopened = []string{}
	}
	return c.JSON(http.StatusOK, resp)
}
