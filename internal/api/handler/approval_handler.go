package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

// ApprovalHandler exposes the manager's justification queue.
type ApprovalHandler struct {
	approvals ports.ApprovalService
}

func NewApprovalHandler(approvals ports.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// List handles GET /v1/approvals: pending requests, oldest first.
//
// @Summary      Pending justifications
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ClockEvent
// @Router       /v1/approvals [get]
func (h *ApprovalHandler) List(c echo.Context) error {
	pending, err := h.approvals.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

// Approve handles POST /v1/approvals/:id/approve.
//
// @Summary      Approve a justification
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  domain.ClockEvent
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}
	event, err := h.approvals.Approve(c.Request().Context(), c.Param("id"), cl.Username)
	if err != nil {
		return err
	}
	metrics.ApprovalsTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusOK, event)
}

// Reject handles POST /v1/approvals/:id/reject.
//
// @Summary      Reject a justification
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Event ID"
// @Param        body  body      rejectRequest  false  "Reason"
// @Success      200   {object}  domain.ClockEvent
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req rejectRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	event, err := h.approvals.Reject(c.Request().Context(), c.Param("id"), cl.Username, req.Reason)
	if err != nil {
		return err
	}
	metrics.ApprovalsTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusOK, event)
}
