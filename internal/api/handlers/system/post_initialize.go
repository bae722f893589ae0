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

func PostInitializeRoute(s *api.Server) *echo.Route {
	return s.Router.Public.POST("/initialize", postInitializeHandler(s))
}

// postInitializeHandler sets the admin identity. The engine enforces the
// once-only semantics, so the route needs no token: after the first success
// every further call gets a 409.
func postInitializeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostInitializePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Registry.Initialize(ctx, swag.StringValue(body.Admin)); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize engine")
			return httperrors.FromEngineError(err)
		}

		return util.ValidateAndReturn(c, http.StatusCreated, &types.AdminResponse{Admin: body.Admin})
	}
}
