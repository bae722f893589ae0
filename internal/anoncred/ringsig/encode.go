package ringsig

import (
	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/pkg/errors"
)

// Marshal encodes the signature as the 32-byte challenge seed followed by
// one 32-byte response per ring member.
func (s *Signature) Marshal() ([]byte, error) {
	if s == nil || s.Challenge == nil {
		return nil, errors.Wrap(anoncred.ErrInvalidParameter, "signature is empty")
	}
	out := make([]byte, 0, (1+len(s.Responses))*group.ScalarSize)
	out = append(out, s.Challenge.Bytes()...)
	for i, r := range s.Responses {
		if r == nil {
			return nil, errors.Wrapf(anoncred.ErrInvalidParameter, "response %d is nil", i)
		}
		out = append(out, r.Bytes()...)
	}
	return out, nil
}

// Unmarshal decodes a signature produced by Marshal. The response count is
// implied by the blob length; whether it matches the ring is the verifier's
// concern, not a decoding error.
func Unmarshal(b []byte) (*Signature, error) {
	if len(b) < (1+anoncred.MinRingSize)*group.ScalarSize || len(b)%group.ScalarSize != 0 {
		return nil, errors.Wrapf(anoncred.ErrInvalidParameter, "signature blob has invalid length %d", len(b))
	}
	challenge, err := group.ScalarFromBytes(b[:group.ScalarSize])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode challenge")
	}
	rest := b[group.ScalarSize:]
	responses := make([]*group.Scalar, 0, len(rest)/group.ScalarSize)
	for off := 0; off < len(rest); off += group.ScalarSize {
		r, err := group.ScalarFromBytes(rest[off : off+group.ScalarSize])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode response %d", off/group.ScalarSize)
		}
		responses = append(responses, r)
	}
	return &Signature{Challenge: challenge, Responses: responses}, nil
}
