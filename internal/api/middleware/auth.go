// Package middleware holds the relay's echo middleware: request-scoped
// logging and JWT role gating.
package middleware

import (
	"net/http"
	"strings"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/auth"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "app_claims"

// RequireRole authenticates the bearer token and rejects requests whose role
// is not in roles. The token only establishes WHO is calling; whether that
// identity is allowed to mutate engine state is still decided by the engine
// itself.
func RequireRole(s *api.Server, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return httperrors.NewHTTPError(http.StatusUnauthorized, "missing_token", "bearer token required")
			}

			claims, err := s.JWT.Validate(token)
			if err != nil {
				return httperrors.NewHTTPError(http.StatusUnauthorized, "invalid_token", "")
			}

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				return httperrors.NewHTTPError(http.StatusForbidden, "forbidden", "token role is not allowed here")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims attached by RequireRole, or nil on
// unauthenticated routes.
func ClaimsFromContext(c echo.Context) *auth.AppClaims {
	claims, _ := c.Get(claimsContextKey).(*auth.AppClaims)
	return claims
}
