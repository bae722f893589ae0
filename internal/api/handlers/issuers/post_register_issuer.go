package issuers

import (
	"encoding/hex"
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/api/middleware"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostRegisterIssuerRoute(s *api.Server) *echo.Route {
	return s.Router.Admin.POST("/issuers", postRegisterIssuerHandler(s))
}

// postRegisterIssuerHandler appends an issuer public key to the registry.
// The token subject is the caller identity the engine compares against its
// stored admin; the middleware only establishes that the subject is
// authentic.
func postRegisterIssuerHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostRegisterIssuerPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		raw, err := hex.DecodeString(swag.StringValue(body.PublicKey))
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "public_key must be hex")
		}
		pub, err := group.PointFromBytes(raw)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "public_key is not a valid G1 point")
		}

		caller := middleware.ClaimsFromContext(c).Subject
		if err := s.Registry.RegisterIssuer(ctx, pub, caller); err != nil {
			log.Warn().Err(err).Str("caller", caller).Msg("Failed to register issuer")
			return httperrors.FromEngineError(err)
		}

		return util.ValidateAndReturn(c, http.StatusCreated, &types.PostRegisterIssuerPayload{PublicKey: body.PublicKey})
	}
}
