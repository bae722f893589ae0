// Package router wires the echo instance: middleware, route groups and all
// handler registrations.
package router

import (
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/handlers/issuers"
	"github.com/attestra/go-anoncred-infra/internal/api/handlers/keys"
	"github.com/attestra/go-anoncred-infra/internal/api/handlers/proofs"
	"github.com/attestra/go-anoncred-infra/internal/api/handlers/rings"
	"github.com/attestra/go-anoncred-infra/internal/api/handlers/system"
	"github.com/attestra/go-anoncred-infra/internal/api/middleware"
	"github.com/attestra/go-anoncred-infra/internal/auth"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the echo instance and registers every route on s.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.Use(echomiddleware.Recover())
	s.Echo.Use(middleware.RequestLogger())

	root := s.Echo.Group("")
	publicGroup := s.Echo.Group("/api/v1")
	adminGroup := s.Echo.Group("/api/v1", middleware.RequireRole(s, auth.RoleAdmin))
	issuerGroup := s.Echo.Group("/api/v1", middleware.RequireRole(s, auth.RoleIssuer))

	s.Router = &api.Router{
		Root:   root,
		Public: publicGroup,
		Admin:  adminGroup,
		Issuer: issuerGroup,
	}

	root.GET("/healthz", func(c echo.Context) error {
		if !s.Ready() {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	root.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.Router.Routes = []*echo.Route{
		system.PostInitializeRoute(s),
		system.GetAdminRoute(s),
		issuers.PostRegisterIssuerRoute(s),
		issuers.GetListIssuersRoute(s),
		rings.PutCreateRingRoute(s),
		rings.GetRingRoute(s),
		keys.PostGenerateKeysRoute(s),
		proofs.PostCreateChallengeRoute(s),
		proofs.PostVerifyProofRoute(s),
		proofs.GetVerificationCountRoute(s),
	}
}
