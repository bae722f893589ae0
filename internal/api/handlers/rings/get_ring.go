package rings

import (
	"encoding/hex"
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func GetRingRoute(s *api.Server) *echo.Route {
	return s.Router.Public.GET("/rings/:attribute", getRingHandler(s))
}

func getRingHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		attribute := c.Param("attribute")

		ring, err := s.Rings.GetRingForAttribute(ctx, attribute)
		if err != nil {
			return httperrors.FromEngineError(err)
		}

		members := make([]string, len(ring))
		for i, m := range ring {
			members[i] = hex.EncodeToString(m.Bytes())
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.RingResponse{
			Attribute: swag.String(attribute),
			Members:   members,
		})
	}
}
