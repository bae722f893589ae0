package issuers

import (
	"encoding/hex"
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/labstack/echo/v4"
)

func GetListIssuersRoute(s *api.Server) *echo.Route {
	return s.Router.Public.GET("/issuers", getListIssuersHandler(s))
}

func getListIssuersHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		issuers, err := s.Registry.ListIssuers(ctx)
		if err != nil {
			return httperrors.FromEngineError(err)
		}

		encoded := make([]string, len(issuers))
		for i, pub := range issuers {
			encoded[i] = hex.EncodeToString(pub.Bytes())
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.IssuersResponse{Issuers: encoded})
	}
}
