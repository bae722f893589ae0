// Package types holds the relay API request and response payloads.
package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
)

// PostInitializePayload sets the admin identity, once.
type PostInitializePayload struct {
	Admin *string `json:"admin"`
}

func (p *PostInitializePayload) Validate() error {
	if swag.StringValue(p.Admin) == "" {
		return errors.New("admin is required")
	}
	return nil
}

// PostRegisterIssuerPayload registers an issuer public key (hex, 96-byte
// uncompressed G1).
type PostRegisterIssuerPayload struct {
	PublicKey *string `json:"public_key"`
}

func (p *PostRegisterIssuerPayload) Validate() error {
	if swag.StringValue(p.PublicKey) == "" {
		return errors.New("public_key is required")
	}
	return nil
}

// PutRingPayload replaces the ring stored under an attribute.
type PutRingPayload struct {
	Members []string `json:"members"`
}

func (p *PutRingPayload) Validate() error {
	if len(p.Members) == 0 {
		return errors.New("members is required")
	}
	return nil
}

// PostGenerateKeysPayload mints key pairs.
type PostGenerateKeysPayload struct {
	Count *int64 `json:"count"`
}

func (p *PostGenerateKeysPayload) Validate() error {
	if p.Count == nil {
		return errors.New("count is required")
	}
	return nil
}

// PostVerifyProofPayload redeems a challenge and verifies a ring signature
// against an attribute's current ring.
type PostVerifyProofPayload struct {
	Attribute *string `json:"attribute"`
	Nonce     *string `json:"nonce"`
	Signature *string `json:"signature"`
}

func (p *PostVerifyProofPayload) Validate() error {
	switch {
	case swag.StringValue(p.Attribute) == "":
		return errors.New("attribute is required")
	case swag.StringValue(p.Nonce) == "":
		return errors.New("nonce is required")
	case swag.StringValue(p.Signature) == "":
		return errors.New("signature is required")
	}
	return nil
}

// AdminResponse is the initialized admin identity.
type AdminResponse struct {
	Admin *string `json:"admin"`
}

// IssuersResponse lists registered issuer keys in registration order.
type IssuersResponse struct {
	Issuers []string `json:"issuers"`
}

// RingResponse is the current ring snapshot for an attribute.
type RingResponse struct {
	Attribute *string  `json:"attribute"`
	Members   []string `json:"members"`
}

// GeneratedKeysResponse carries freshly minted key pairs. Secrets appear
// here once and are not retained server-side; the caller owns them from
// this point on.
type GeneratedKeysResponse struct {
	Secrets []string `json:"secrets"`
	Publics []string `json:"publics"`
}

// ChallengeResponse is a freshly minted single-use proof challenge.
type ChallengeResponse struct {
	Nonce     *string         `json:"nonce"`
	Message   *string         `json:"message"`
	ExpiresAt strfmt.DateTime `json:"expires_at"`
}

// VerifyProofResponse reports a verification outcome. Valid=false with a 200
// status is a normal negative result, not an error.
type VerifyProofResponse struct {
	Valid      *bool           `json:"valid"`
	Attribute  *string         `json:"attribute"`
	VerifiedAt strfmt.DateTime `json:"verified_at"`
}

// VerificationCountResponse is the anonymous success tally.
type VerificationCountResponse struct {
	Count *uint64 `json:"count"`
}
