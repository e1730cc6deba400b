package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/api/middleware"
	"github.com/biohealth/ponto/internal/core/domain"
)

type claims struct {
	Username string
	Role     string
	WorkerID string
	SiteID   string
}

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - worker and site roles require their identity claim.
func ctxClaims(c echo.Context) (claims, error) {
	var cl claims
	cl.Role, _ = c.Get(middleware.KeyRole).(string)
	if cl.Role == "" {
		return cl, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	cl.Username, _ = c.Get(middleware.KeyUsername).(string)
	cl.WorkerID, _ = c.Get(middleware.KeyWorkerID).(string)
	cl.SiteID, _ = c.Get(middleware.KeySiteID).(string)

	switch {
	case cl.Role == domain.RoleWorker && cl.WorkerID == "":
		return cl, echo.NewHTTPError(http.StatusUnauthorized, "token missing worker identity")
	case cl.Role == domain.RoleSite && cl.SiteID == "":
		return cl, echo.NewHTTPError(http.StatusUnauthorized, "token missing site identity")
	}
	return cl, nil
}

// canReadWorker reports whether the caller may see workerID's records.
// Workers only see their own; everybody else is gated by the route.
func (cl claims) canReadWorker(workerID string) bool {
	if cl.Role == domain.RoleWorker {
		return cl.WorkerID == workerID
	}
	return true
}
