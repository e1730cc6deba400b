package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/biohealth/ponto/internal/api/handler"
	"github.com/biohealth/ponto/internal/core/domain"
	"github.com/biohealth/ponto/internal/pkg/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// A half-applied cascade needs an operator; the repair endpoint fixes it.
	var ce *domain.CascadeInconsistencyError
	if errors.As(err, &ce) {
		metrics.CascadeFailuresTotal.WithLabelValues(ce.Op).Inc()
		log.Error().
			Err(err).
			Str("op", ce.Op).
			Str("applied_event_id", ce.AppliedEventID).
			Str("failed_event_id", ce.FailedEventID).
			Str("path", c.Path()).
			Msg("cascade left inconsistent")
		return http.StatusInternalServerError, "operation partially applied, run repair"
	}

	code, msg, ok := handler.ErrorStatus(err)
	if ok {
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return code, msg
}
