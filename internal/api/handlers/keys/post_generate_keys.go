package keys

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

func PostGenerateKeysRoute(s *api.Server) *echo.Route {
	return s.Router.Issuer.POST("/keys", postGenerateKeysHandler(s))
}

// postGenerateKeysHandler mints key pairs for the issuance workflow: the
// holder's per-attribute key plus decoys. Secrets are returned exactly once
// and zeroized server-side as soon as the response is encoded; the relay
// never persists them.
func postGenerateKeysHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostGenerateKeysPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		pairs, err := s.Keys.GenerateKeys(int(swag.Int64Value(body.Count)))
		if err != nil {
			log.Warn().Err(err).Msg("Failed to generate keys")
			return httperrors.FromEngineError(err)
		}

		response := &types.GeneratedKeysResponse{
			Secrets: make([]string, len(pairs)),
			Publics: make([]string, len(pairs)),
		}
		for i, pair := range pairs {
			response.Secrets[i] = hex.EncodeToString(pair.Secret.Bytes())
			response.Publics[i] = hex.EncodeToString(pair.Public.Bytes())
			pair.Zeroize()
		}

		return util.ValidateAndReturn(c, http.StatusCreated, response)
	}
}
