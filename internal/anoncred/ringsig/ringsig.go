// Package ringsig implements the AOS-style ring signature scheme the
// credential engine runs on (Abe-Ohkubo-Suzuki, "1-out-of-n signatures from a
// variety of keys", ASIACRYPT 2002), instantiated over BLS12-381 G1 with
// SHA-256 challenges.
//
// A signature proves that the signer holds the secret key of some ring
// member without revealing which one. The challenge chain binds both the
// message and the full ring, so a signature never validates against a
// different ring or message, including supersets of the original ring.
package ringsig

import (
	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/pkg/errors"
)

// Signature is a ring signature: the seed of the challenge chain plus one
// response scalar per ring member. Nothing in it distinguishes the response
// that was solved algebraically from the ones that were drawn at random.
// Signatures use fresh randomness, so two signatures over the same message
// and ring are never bit-identical and must not be used as uniqueness keys.
type Signature struct {
	Challenge *group.Scalar
	Responses []*group.Scalar
}

// challengeBase is the static prefix of every challenge hash: the ring
// members in order followed by the message. Hashing the ring in binds the
// signature to the exact anonymity set.
func challengeBase(ring []*group.Point, message []byte) []byte {
	base := make([]byte, 0, len(ring)*group.PointSize+len(message))
	for _, member := range ring {
		base = append(base, member.Bytes()...)
	}
	return append(base, message...)
}

// nextChallenge derives the challenge for the next ring slot from the
// commitment of the current one: c_{i+1} = H(ring || message || X_i).
func nextChallenge(base []byte, commitment *group.Point) *group.Scalar {
	return group.HashToScalar(base, commitment.Bytes())
}

// Sign produces a ring signature over message by the ring member at
// signerIndex, whose secret key is secret. The secret is only read, never
// retained; the caller stays responsible for zeroizing it.
//
// The signer walks the ring once, starting just past its own slot: every
// other slot gets a random response r_i and contributes the commitment
// X_i = r_i*G + c_i*P_i to the chain. Back at the signer's slot the loop is
// closed algebraically with r_s = a - c_s*sk, where a is the nonce that
// seeded the walk. The chain then recomputes identically for a verifier that
// knows none of the secrets.
func Sign(message []byte, ring []*group.Point, signerIndex int, secret *group.Scalar) (*Signature, error) {
	n := len(ring)
	if n < anoncred.MinRingSize {
		return nil, errors.Wrapf(anoncred.ErrInvalidRingSize, "ring has %d members", n)
	}
	if signerIndex < 0 || signerIndex >= n {
		return nil, errors.Wrapf(anoncred.ErrInvalidParameter, "signer index %d out of range [0,%d)", signerIndex, n)
	}
	if secret == nil || secret.IsZero() {
		return nil, errors.Wrap(anoncred.ErrInvalidParameter, "secret scalar is empty")
	}
	// Emitting a signature with a mismatched key would be garbage that is
	// indistinguishable from noise, so fail loudly before doing the work.
	if !ring[signerIndex].Equal(group.ScalarBaseMul(secret)) {
		return nil, anoncred.ErrKeyMismatch
	}

	nonce, err := group.NewRandomScalar()
	if err != nil {
		return nil, err
	}
	defer nonce.Zeroize()

	responses := make([]*group.Scalar, n)
	for i := range responses {
		if i == signerIndex {
			continue
		}
		if responses[i], err = group.NewRandomScalar(); err != nil {
			return nil, err
		}
	}

	base := challengeBase(ring, message)
	challenges := make([]*group.Scalar, n)

	// Seed the chain with the signer's commitment a*G.
	idx := (signerIndex + 1) % n
	challenges[idx] = nextChallenge(base, group.ScalarBaseMul(nonce))

	// Walk the rest of the ring: X_i = r_i*G + c_i*P_i.
	for idx != signerIndex {
		commitment := group.ScalarBaseMul(responses[idx]).Add(ring[idx].ScalarMul(challenges[idx]))
		next := (idx + 1) % n
		challenges[next] = nextChallenge(base, commitment)
		idx = next
	}

	// Close the loop: r_s = a - c_s*sk.
	responses[signerIndex] = nonce.Sub(challenges[signerIndex].Mul(secret))

	return &Signature{
		Challenge: challenges[0],
		Responses: responses,
	}, nil
}

// Verify recomputes the challenge chain from the responses and reports
// whether it closes back onto its own seed. That holds iff at least one
// response was produced with the secret key of some ring member; which
// member stays hidden.
//
// A false return is a normal negative result. Verify itself never errors:
// structural problems (nil signature, wrong response count) simply cannot
// have been produced for this ring and are reported as invalid.
func Verify(message []byte, sig *Signature, ring []*group.Point) bool {
	if sig == nil || sig.Challenge == nil {
		return false
	}
	n := len(ring)
	if n < anoncred.MinRingSize || len(sig.Responses) != n {
		return false
	}
	for _, r := range sig.Responses {
		if r == nil {
			return false
		}
	}

	base := challengeBase(ring, message)
	c := sig.Challenge
	for i := 0; i < n; i++ {
		commitment := group.ScalarBaseMul(sig.Responses[i]).Add(ring[i].ScalarMul(c))
		c = nextChallenge(base, commitment)
	}
	return c.Equal(sig.Challenge)
}
