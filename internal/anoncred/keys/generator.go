// Package keys mints the secret/public key pairs that serve both as ring
// members and as credential identities.
package keys

import (
	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/pkg/errors"
)

// KeyPair couples a secret scalar with its public point pk = sk*G. The
// public point is always derivable from the secret; the secret is owned by
// whoever generated the pair and must be zeroized when discarded.
type KeyPair struct {
	Secret *group.Scalar
	Public *group.Point
}

// Zeroize destroys the secret half of the pair.
func (kp *KeyPair) Zeroize() {
	if kp.Secret != nil {
		kp.Secret.Zeroize()
	}
}

// Generator produces key pairs from a cryptographically secure source. It is
// stateless: secrets are handed to the caller and not retained.
type Generator struct{}

// NewGenerator creates a key generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateKeys draws count fresh key pairs and returns them in generation
// order. count must be at least one.
func (g *Generator) GenerateKeys(count int) ([]*KeyPair, error) {
	if count < 1 {
		return nil, errors.Wrapf(anoncred.ErrInvalidParameter, "key count must be >= 1, got %d", count)
	}
	pairs := make([]*KeyPair, count)
	for i := range pairs {
		secret, err := group.NewRandomScalar()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate key %d", i)
		}
		pairs[i] = &KeyPair{
			Secret: secret,
			Public: group.ScalarBaseMul(secret),
		}
	}
	return pairs, nil
}
