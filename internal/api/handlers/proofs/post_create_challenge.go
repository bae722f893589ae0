package proofs

import (
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostCreateChallengeRoute(s *api.Server) *echo.Route {
	return s.Router.Public.POST("/challenges", postCreateChallengeHandler(s))
}

// postCreateChallengeHandler mints the fresh single-use message a holder
// must sign for one proof attempt. Reusing a challenge, or a signature made
// for an older challenge, fails at redemption before any crypto runs.
func postCreateChallengeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ch := s.Challenges.Mint()

		return util.ValidateAndReturn(c, http.StatusCreated, &types.ChallengeResponse{
			Nonce:     swag.String(ch.Nonce),
			Message:   swag.String(string(ch.Message())),
			ExpiresAt: strfmt.DateTime(ch.ExpiresAt),
		})
	}
}
