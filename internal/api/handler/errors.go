package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
)

// ErrorStatus maps known errors to an HTTP status and a client-safe message.
// ok is false for unexpected errors, which must not leak to the client.
func ErrorStatus(err error) (code int, msg string, ok bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error(), true
	}

	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "clock event not found", true
	case errors.Is(err, domain.ErrWorkerNotFound):
		return http.StatusNotFound, "worker not found", true
	case errors.Is(err, domain.ErrSiteNotFound):
		return http.StatusNotFound, "site not found", true
	case errors.Is(err, domain.ErrWorkerNotIdentified):
		return http.StatusNotFound, "worker not identified", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, domain.ErrDuplicateScan):
		return http.StatusConflict, "scan already processed", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), true
	}
	return http.StatusInternalServerError, "internal server error", false
}
