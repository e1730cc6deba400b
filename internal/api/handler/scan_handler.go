package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/core/ports"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

// ScanDispatcher is the interface the handler uses to enqueue offline scans.
type ScanDispatcher interface {
	Enqueue(scan ports.ScanInput)
	EnqueueBatch(scans []ports.ScanInput)
}

// NextEventDecider answers which event a worker's next scan produces.
type NextEventDecider interface {
	NextEventType(ctx context.Context, workerID string) (domain.EventType, error)
}

// ScanHandler handles fingerprint scans coming from site terminals.
type ScanHandler struct {
	processor  ports.ScanProcessor
	dispatcher ScanDispatcher
	shift      NextEventDecider
}

func NewScanHandler(processor ports.ScanProcessor, dispatcher ScanDispatcher, shift NextEventDecider) *ScanHandler {
	return &ScanHandler{processor: processor, dispatcher: dispatcher, shift: shift}
}

// Process handles POST /v1/scans: identifies the worker and registers the
// next event synchronously.
//
// @Summary      Register a fingerprint scan
// @Tags         scans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scanRequest  true  "Scan"
// @Success      201   {object}  scanResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/scans [post]
func (h *ScanHandler) Process(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := bindSite(cl, &req); err != nil {
		return err
	}

	start := time.Now()
	res, err := h.processor.Process(c.Request().Context(), toScanInput(req))
	if err != nil {
		metrics.ObserveScan("", err, time.Since(start))
		return err
	}
	metrics.ObserveScan(res.Event.EventType, nil, time.Since(start))

	return c.JSON(http.StatusCreated, scanResponse{
		EventType:  res.Event.EventType,
		WorkerID:   res.Worker.ID,
		WorkerName: res.Worker.Name,
		Event:      res.Event,
	})
}

// ProcessBatch handles POST /v1/scans/batch: enqueues scans captured while
// a terminal was offline, returns 202.
//
// @Summary      Replay a batch of offline scans
// @Tags         scans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []scanRequest  true  "Scans in capture order"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/scans/batch [post]
func (h *ScanHandler) ProcessBatch(c echo.Context) error {
	cl, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var reqs []scanRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.ScanInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("scan[%d]: %s", i, err.Error()))
		}
		if err := bindSite(cl, &req); err != nil {
			return err
		}
		inputs = append(inputs, toScanInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "scans accepted",
		Count:   len(inputs),
	})
}

// NextEvent handles GET /v1/workers/:id/next-event.
//
// @Summary      Preview the next event type for a worker
// @Tags         scans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  nextEventResponse
// @Router       /v1/workers/{id}/next-event [get]
func (h *ScanHandler) NextEvent(c echo.Context) error {
	id := c.Param("id")
	next, err := h.shift.NextEventType(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nextEventResponse{WorkerID: id, EventType: next})
}

// bindSite pins a site terminal's scans to its own hospital.
func bindSite(cl claims, req *scanRequest) error {
	if cl.Role != domain.RoleSite {
		return nil
	}
	if req.SiteID == "" {
		req.SiteID = cl.SiteID
	}
	if req.SiteID != cl.SiteID {
		return domain.ErrForbidden
	}
	return nil
}
