package proofs

import (
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/labstack/echo/v4"
)

func GetVerificationCountRoute(s *api.Server) *echo.Route {
	return s.Router.Public.GET("/proofs/count", getVerificationCountHandler(s))
}

func getVerificationCountHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		count, err := s.Verifier.VerificationCount(ctx)
		if err != nil {
			return httperrors.FromEngineError(err)
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerificationCountResponse{Count: &count})
	}
}
