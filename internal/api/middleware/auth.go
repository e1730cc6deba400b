package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/biohealth/ponto/internal/core/domain"
)

// Context keys set by Auth.
const (
	KeyUsername    = "username"
	KeyRole        = "role"
	KeyWorkerID    = "worker_id"
	KeySiteID      = "site_id"
	KeyPermissions = "permissions"
)

// Auth validates the JWT and injects claims into context. The username is
// also attached to the request context as the audit actor.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			username, _ := claims["username"].(string)
			c.Set(KeyUsername, username)
			c.Set(KeyRole, claims["role"])
			c.Set(KeyWorkerID, claims["worker_id"])
			c.Set(KeySiteID, claims["site_id"])
			c.Set(KeyPermissions, permissionsClaim(claims["permissions"]))

			if username != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(domain.WithActor(req.Context(), username)))
			}

			return next(c)
		}
	}
}

// permissionsClaim converts the decoded JSON array into a string slice.
func permissionsClaim(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			perms = append(perms, s)
		}
	}
	return perms
}
