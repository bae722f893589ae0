package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/challenge"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/keys"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/registry"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringstore"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/verifier"
	"github.com/attestra/go-anoncred-infra/internal/auth"
	"github.com/attestra/go-anoncred-infra/internal/config"
	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	// Postgres driver for the optional database-backed state store.
	_ "github.com/lib/pq"
)

// Router groups the relay's routes by required authorization.
type Router struct {
	Routes []*echo.Route
	Root   *echo.Group
	Admin  *echo.Group
	Issuer *echo.Group
	Public *echo.Group
}

// Server is the central struct keeping all the relay's dependencies. It is
// thin I/O glue around the credential engine: every route delegates to an
// engine service and never reimplements engine semantics.
type Server struct {
	Echo   *echo.Echo
	Router *Router

	Config config.Server
	DB     *sql.DB
	Clock  time2.Clock
	JWT    *auth.JWTManager

	State      anoncred.StateStore
	Keys       *keys.Generator
	Registry   *registry.Service
	Rings      *ringstore.Service
	Verifier   *verifier.Service
	Challenges *challenge.Service
}

// NewServer creates a server holding only its configuration. Components are
// attached by InitServer.
func NewServer(cfg config.Server) *Server {
	return &Server{Config: cfg}
}

// Ready reports whether every component the routes depend on is attached.
func (s *Server) Ready() bool {
	return s.Echo != nil &&
		s.Router != nil &&
		s.JWT != nil &&
		s.State != nil &&
		s.Keys != nil &&
		s.Registry != nil &&
		s.Rings != nil &&
		s.Verifier != nil &&
		s.Challenges != nil
}

// Start runs the HTTP listener. It blocks until Shutdown.
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown stops the listener and closes the database connection if one was
// opened.
func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")
		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	return errs
}
