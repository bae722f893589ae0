package system

import (
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func GetAdminRoute(s *api.Server) *echo.Route {
	return s.Router.Public.GET("/admin", getAdminHandler(s))
}

func getAdminHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		admin, err := s.Registry.Admin(ctx)
		if err != nil {
			return httperrors.FromEngineError(err)
		}
		if admin == "" {
			return httperrors.NewHTTPError(http.StatusNotFound, "not_initialized", "engine has no admin yet")
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.AdminResponse{Admin: swag.String(admin)})
	}
}
