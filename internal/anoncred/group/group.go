// Package group wraps the BLS12-381 arithmetic that the credential engine is
// built on. Points live in G1, scalars in the Fr field. Everything above this
// package talks in terms of Scalar and Point and never touches gnark-crypto
// directly.
package group

import (
	"crypto/sha256"
	"crypto/subtle"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/pkg/errors"
)

const (
	// ScalarSize is the serialized size of an Fr scalar in bytes.
	ScalarSize = fr.Bytes
	// PointSize is the serialized size of an uncompressed G1 point in bytes.
	PointSize = bls12381.SizeOfG1AffineUncompressed
)

var g1Gen bls12381.G1Affine

func init() {
	_, _, g1Gen, _ = bls12381.Generators()
}

// Scalar is an element of the Fr scalar field. The zero value is the zero
// scalar. Secret scalars must be destroyed with Zeroize once the owner is
// done with them; they are never serialized implicitly.
type Scalar struct {
	v fr.Element
}

// NewRandomScalar draws a uniformly random nonzero scalar from crypto/rand.
func NewRandomScalar() (*Scalar, error) {
	s := new(Scalar)
	for {
		if _, err := s.v.SetRandom(); err != nil {
			return nil, errors.Wrap(err, "failed to sample scalar")
		}
		if !s.v.IsZero() {
			return s, nil
		}
	}
}

// ScalarFromBytes decodes a big-endian 32-byte scalar. Values are reduced
// modulo the field order, matching how challenge hashes are mapped into Fr.
func ScalarFromBytes(b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, errors.Errorf("scalar must be %d bytes, got %d", ScalarSize, len(b))
	}
	s := new(Scalar)
	s.v.SetBytes(b)
	return s, nil
}

// Bytes returns the canonical big-endian encoding.
func (s *Scalar) Bytes() []byte {
	b := s.v.Bytes()
	return b[:]
}

// Mul returns s * t without modifying either operand.
func (s *Scalar) Mul(t *Scalar) *Scalar {
	r := new(Scalar)
	r.v.Mul(&s.v, &t.v)
	return r
}

// Sub returns s - t without modifying either operand.
func (s *Scalar) Sub(t *Scalar) *Scalar {
	r := new(Scalar)
	r.v.Sub(&s.v, &t.v)
	return r
}

// Equal reports whether two scalars are the same field element.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.v.Equal(&t.v)
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.v.IsZero()
}

// Zeroize overwrites the scalar with zeros. Callers holding secret key
// material must invoke this before releasing the value.
func (s *Scalar) Zeroize() {
	s.v.SetZero()
}

// Point is a point in the G1 subgroup.
type Point struct {
	p bls12381.G1Affine
}

// Generator returns the canonical G1 generator.
func Generator() *Point {
	g := new(Point)
	g.p.Set(&g1Gen)
	return g
}

// PointFromBytes decodes an uncompressed 96-byte G1 point and checks subgroup
// membership.
func PointFromBytes(b []byte) (*Point, error) {
	if len(b) != PointSize {
		return nil, errors.Errorf("point must be %d bytes, got %d", PointSize, len(b))
	}
	p := new(Point)
	if _, err := p.p.SetBytes(b); err != nil {
		return nil, errors.Wrap(err, "failed to decode G1 point")
	}
	if !p.p.IsInSubGroup() {
		return nil, errors.New("point is not in the G1 subgroup")
	}
	return p, nil
}

// Bytes returns the uncompressed 96-byte encoding. This is the wire and
// storage format for ring members.
func (p *Point) Bytes() []byte {
	b := p.p.RawBytes()
	return b[:]
}

// Equal reports whether two points are bit-identical group elements.
func (p *Point) Equal(q *Point) bool {
	return p.p.Equal(&q.p)
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	var jac bls12381.G1Jac
	jac.FromAffine(&p.p)
	jac.AddMixed(&q.p)
	r := new(Point)
	r.p.FromJacobian(&jac)
	return r
}

// ScalarMul returns s * p.
func (p *Point) ScalarMul(s *Scalar) *Point {
	var k big.Int
	s.v.BigInt(&k)
	r := new(Point)
	r.p.ScalarMultiplication(&p.p, &k)
	k.SetInt64(0)
	return r
}

// ScalarBaseMul returns s * G for the canonical generator G.
func ScalarBaseMul(s *Scalar) *Point {
	var k big.Int
	s.v.BigInt(&k)
	r := new(Point)
	r.p.ScalarMultiplicationBase(&k)
	k.SetInt64(0)
	return r
}

// HashToScalar maps the concatenation of the given byte slices into Fr via
// SHA-256. The digest is interpreted big-endian and reduced modulo the field
// order.
func HashToScalar(parts ...[]byte) *Scalar {
	h := sha256.New()
	for _, part := range parts {
		h.Write(part)
	}
	digest := h.Sum(nil)
	s := new(Scalar)
	s.v.SetBytes(digest)
	return s
}

// ConstantTimeEqualBytes compares two encoded group values without leaking
// the mismatch position.
func ConstantTimeEqualBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
