package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/infrastructure/export"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

const (
	dateParam = "2006-01-02"
	mimeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WorkerLookup resolves a worker by id.
type WorkerLookup interface {
	GetWorker(ctx context.Context, id string) (*domain.Worker, error)
}

// MirrorHandler serves the worker-facing shift mirror and accepts
// justification requests.
type MirrorHandler struct {
	mirror  ports.MirrorService
	workers WorkerLookup
	loc     *time.Location
}

func NewMirrorHandler(mirror ports.MirrorService, workers WorkerLookup, loc *time.Location) *MirrorHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MirrorHandler{mirror: mirror, workers: workers, loc: loc}
}

// Mirror handles GET /v1/workers/:id/mirror.
//
// @Summary      Shift mirror of a worker
// @Tags         mirror
// @Produce      json
// @Security     BearerAuth
// @Param        id         path   string  true   "Worker ID"
// @Param        site_id    query  string  false  "Only shifts at this site"
// @Param        date_from  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        date_to    query  string  false  "YYYY-MM-DD, inclusive"
// @Success      200  {array}   shiftRowResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/workers/{id}/mirror [get]
func (h *MirrorHandler) Mirror(c echo.Context) error {
	rows, _, err := h.rows(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShiftRowResponses(rows))
}

// Export handles GET /v1/workers/:id/mirror.xlsx.
//
// @Summary      Shift mirror as a spreadsheet
// @Tags         mirror
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id         path   string  true   "Worker ID"
// @Param        site_id    query  string  false  "Only shifts at this site"
// @Param        date_from  query  string  false  "YYYY-MM-DD, inclusive"
// @Param        date_to    query  string  false  "YYYY-MM-DD, inclusive"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/workers/{id}/mirror.xlsx [get]
func (h *MirrorHandler) Export(c echo.Context) error {
	rows, workerID, err := h.rows(c)
	if err != nil {
		return err
	}
	worker, err := h.workers.GetWorker(c.Request().Context(), workerID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteShiftMirror(&buf, worker.Name, rows, h.loc); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="espelho-%s.xlsx"`, worker.Registration))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func (h *MirrorHandler) rows(c echo.Context) ([]ports.ShiftRow, string, error) {
	cl, err := ctxClaims(c)
	if err != nil {
		return nil, "", err
	}
	workerID := c.Param("id")
	if !cl.canReadWorker(workerID) {
		return nil, "", domain.ErrForbidden
	}

	filter := ports.MirrorFilter{SiteID: c.QueryParam("site_id")}
	if filter.DateFrom, err = h.parseDate(c.QueryParam("date_from")); err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "date_from must be YYYY-MM-DD")
	}
	if filter.DateTo, err = h.parseDate(c.QueryParam("date_to")); err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "date_to must be YYYY-MM-DD")
	}

	rows, err := h.mirror.BuildShiftRows(c.Request().Context(), workerID, filter)
	if err != nil {
		return nil, "", err
	}
	return rows, workerID, nil
}

func (h *MirrorHandler) parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateParam, v, h.loc)
}

// SubmitJustification handles POST /v1/justifications: a worker asks for a
// missing exit to be recorded.
//
// @Summary      Submit a justification
// @Tags         mirror
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      justificationRequest  true  "Justification"
// @Success      201   {object}  domain.ClockEvent
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/justifications [post]
func (h *MirrorHandler) SubmitJustification(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req justificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	event, err := h.mirror.SubmitJustification(c.Request().Context(), ports.JustificationInput{
		WorkerID:      cl.WorkerID,
		AnchorEventID: req.AnchorEventID,
		RequestedTime: req.RequestedTime,
		Reason:        req.Reason,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	metrics.JustificationsSubmittedTotal.WithLabelValues(req.Reason).Inc()

	return c.JSON(http.StatusCreated, event)
}
