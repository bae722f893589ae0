package proofs

import (
	"encoding/hex"
	"net/http"

	"github.com/attestra/go-anoncred-infra/internal/anoncred/challenge"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringsig"
	"github.com/attestra/go-anoncred-infra/internal/api"
	"github.com/attestra/go-anoncred-infra/internal/api/httperrors"
	"github.com/attestra/go-anoncred-infra/internal/types"
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostVerifyProofRoute(s *api.Server) *echo.Route {
	return s.Router.Public.POST("/proofs/verify", postVerifyProofHandler(s))
}

// postVerifyProofHandler redeems the challenge and verifies the ring
// signature against the attribute's current ring. "Signature invalid" is a
// 200 with valid=false; only missing state or malformed input produce error
// statuses, so callers can tell "not verified" from "could not be checked".
func postVerifyProofHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostVerifyProofPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		message, err := s.Challenges.Redeem(swag.StringValue(body.Nonce))
		if err != nil {
			if errors.Is(err, challenge.ErrChallengeUsed) {
				return httperrors.NewHTTPError(http.StatusConflict, "challenge_used", "challenge already redeemed")
			}
			return httperrors.NewHTTPError(http.StatusBadRequest, "challenge_unknown", "challenge unknown or expired")
		}

		sigRaw, err := hex.DecodeString(swag.StringValue(body.Signature))
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "signature must be hex")
		}
		sig, err := ringsig.Unmarshal(sigRaw)
		if err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "invalid_parameter", "signature is malformed")
		}

		attribute := swag.StringValue(body.Attribute)
		valid, err := s.Verifier.VerifyAttribute(ctx, message, sig, attribute)
		if err != nil {
			log.Warn().Err(err).Str("attribute", attribute).Msg("Proof could not be checked")
			return httperrors.FromEngineError(err)
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerifyProofResponse{
			Valid:      swag.Bool(valid),
			Attribute:  body.Attribute,
			VerifiedAt: strfmt.DateTime(s.Clock.Now()),
		})
	}
}
