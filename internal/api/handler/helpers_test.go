package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/api/middleware"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, username, role, workerID, siteID string) {
	c.Set(middleware.KeyUsername, username)
	c.Set(middleware.KeyRole, role)
	c.Set(middleware.KeyWorkerID, workerID)
	c.Set(middleware.KeySiteID, siteID)
}

// run calls h and renders any returned error the way the API error handler does.
func run(t *testing.T, h echo.HandlerFunc, c echo.Context) {
	t.Helper()
	if err := h(c); err != nil {
		code, msg, _ := ErrorStatus(err)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}
