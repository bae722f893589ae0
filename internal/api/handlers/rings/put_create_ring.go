package rings

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

func PutCreateRingRoute(s *api.Server) *echo.Route {
	return s.Router.Issuer.PUT("/rings/:attribute", putCreateRingHandler(s))
}

// putCreateRingHandler replaces the ring stored under an attribute. PUT
// because the operation is a wholesale overwrite: issuers that want to grow
// a ring read it first and write back the extended member list.
func putCreateRingHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)
		attribute := c.Param("attribute")

		var body types.PutRingPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		members := make([]*group.Point, len(body.Members))
		for i, m := range body.Members {
			raw, err := hex.DecodeString(m)
			if err != nil {
				return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "ring members must be hex")
			}
			if members[i], err = group.PointFromBytes(raw); err != nil {
				return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "ring member is not a valid G1 point")
			}
		}

		claims := middleware.ClaimsFromContext(c)
		issuerRaw, err := hex.DecodeString(claims.PublicKey)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusForbidden, "forbidden", "token carries no issuer key")
		}
		issuer, err := group.PointFromBytes(issuerRaw)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusForbidden, "forbidden", "token issuer key is not a valid G1 point")
		}

		if err := s.Rings.CreateRingForAttribute(ctx, issuer, attribute, members); err != nil {
			log.Warn().Err(err).Str("attribute", attribute).Msg("Failed to store attribute ring")
			return httperrors.FromEngineError(err)
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.RingResponse{
			Attribute: swag.String(attribute),
			Members:   body.Members,
		})
	}
}
