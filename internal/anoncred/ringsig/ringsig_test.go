package ringsig

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
)

func makeRing(t *testing.T, n int) ([]*group.Scalar, []*group.Point) {
	t.Helper()
	secrets := make([]*group.Scalar, n)
	ring := make([]*group.Point, n)
	for i := 0; i < n; i++ {
		sk, err := group.NewRandomScalar()
		if err != nil {
			t.Fatalf("Failed to generate scalar: %v", err)
		}
		secrets[i] = sk
		ring[i] = group.ScalarBaseMul(sk)
	}
	return secrets, ring
}

func TestSignVerify_AllIndices(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8} {
		secrets, ring := makeRing(t, n)
		message := []byte("over-18")

		for idx := 0; idx < n; idx++ {
			sig, err := Sign(message, ring, idx, secrets[idx])
			if err != nil {
				t.Fatalf("Sign failed for ring size %d index %d: %v", n, idx, err)
			}
			if len(sig.Responses) != n {
				t.Fatalf("Expected %d responses, got %d", n, len(sig.Responses))
			}
			if !Verify(message, sig, ring) {
				t.Errorf("Valid signature rejected for ring size %d index %d", n, idx)
			}
		}
	}
}

func TestVerify_WrongMessage(t *testing.T) {
	secrets, ring := makeRing(t, 4)

	sig, err := Sign([]byte("resident"), ring, 2, secrets[2])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if Verify([]byte("Resident"), sig, ring) {
		t.Error("Signature verified against a different message")
	}
	if Verify(nil, sig, ring) {
		t.Error("Signature verified against an empty message")
	}
}

func TestVerify_WrongRing(t *testing.T) {
	secrets, ring := makeRing(t, 3)
	_, otherRing := makeRing(t, 3)
	message := []byte("kyc-passed")

	sig, err := Sign(message, ring, 0, secrets[0])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if Verify(message, sig, otherRing) {
		t.Error("Signature verified against an unrelated ring")
	}

	// The ring is part of the challenge base, so even a reordered copy of
	// the original ring must fail.
	reordered := []*group.Point{ring[1], ring[0], ring[2]}
	if Verify(message, sig, reordered) {
		t.Error("Signature verified against a reordered ring")
	}
}

func TestVerify_SupersetRing(t *testing.T) {
	secrets, ring := makeRing(t, 3)
	message := []byte("accredited")

	sig, err := Sign(message, ring, 1, secrets[1])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, extra := makeRing(t, 1)
	superset := append(append([]*group.Point{}, ring...), extra[0])
	if Verify(message, sig, superset) {
		t.Error("Signature verified against a superset ring")
	}
	if Verify(message, sig, ring[:2]) {
		t.Error("Signature verified against a truncated ring")
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	secrets, ring := makeRing(t, 4)
	message := []byte("employee")

	sig, err := Sign(message, ring, 3, secrets[3])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tampered := &Signature{
		Challenge: sig.Challenge.Sub(group.HashToScalar([]byte("tamper"))),
		Responses: sig.Responses,
	}
	if Verify(message, tampered, ring) {
		t.Error("Tampered challenge verified")
	}

	swapped := &Signature{
		Challenge: sig.Challenge,
		Responses: append([]*group.Scalar{sig.Responses[1], sig.Responses[0]}, sig.Responses[2:]...),
	}
	if Verify(message, swapped, ring) {
		t.Error("Signature with swapped responses verified")
	}
}

func TestVerify_MalformedInput(t *testing.T) {
	secrets, ring := makeRing(t, 2)
	message := []byte("m")

	sig, err := Sign(message, ring, 0, secrets[0])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if Verify(message, nil, ring) {
		t.Error("nil signature verified")
	}
	if Verify(message, sig, nil) {
		t.Error("nil ring verified")
	}
	if Verify(message, &Signature{Challenge: sig.Challenge}, ring) {
		t.Error("Signature without responses verified")
	}
	if Verify(message, sig, ring[:1]) {
		t.Error("Response count mismatch verified")
	}
}

func TestSign_InputValidation(t *testing.T) {
	secrets, ring := makeRing(t, 3)
	message := []byte("m")

	if _, err := Sign(message, ring[:1], 0, secrets[0]); !errors.Is(err, anoncred.ErrInvalidRingSize) {
		t.Errorf("Expected ErrInvalidRingSize for 1-member ring, got %v", err)
	}
	if _, err := Sign(message, ring, -1, secrets[0]); !errors.Is(err, anoncred.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for negative index, got %v", err)
	}
	if _, err := Sign(message, ring, 3, secrets[0]); !errors.Is(err, anoncred.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for out-of-range index, got %v", err)
	}
	// Secret does not match the claimed ring slot.
	if _, err := Sign(message, ring, 1, secrets[0]); !errors.Is(err, anoncred.ErrKeyMismatch) {
		t.Errorf("Expected ErrKeyMismatch, got %v", err)
	}
}

func TestSign_FreshRandomness(t *testing.T) {
	secrets, ring := makeRing(t, 3)
	message := []byte("same message")

	first, err := Sign(message, ring, 1, secrets[1])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	second, err := Sign(message, ring, 1, secrets[1])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	// Identical inputs must still produce distinct signatures.
	if first.Challenge.Equal(second.Challenge) {
		t.Error("Two signatures over the same message share a challenge seed")
	}
	if !Verify(message, first, ring) || !Verify(message, second, ring) {
		t.Error("Repeated signatures over the same message did not both verify")
	}
}

func TestAnonymity_StructuralIndistinguishability(t *testing.T) {
	secrets, ring := makeRing(t, 4)
	message := []byte("same challenge")

	// Signatures from different signer indices must have identical shape:
	// same encoding length, same response count, nothing marking which index
	// was closed algebraically.
	byFirst, err := Sign(message, ring, 0, secrets[0])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	byLast, err := Sign(message, ring, 3, secrets[3])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	firstEnc, err := byFirst.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	lastEnc, err := byLast.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if len(firstEnc) != len(lastEnc) {
		t.Errorf("Signer index leaks through encoding length: %d vs %d", len(firstEnc), len(lastEnc))
	}
	if len(byFirst.Responses) != len(byLast.Responses) {
		t.Errorf("Signer index leaks through response count")
	}
	for i, r := range byFirst.Responses {
		if r.IsZero() {
			t.Errorf("Response %d is zero; a degenerate scalar would mark the closing index", i)
		}
	}
	if !Verify(message, byFirst, ring) || !Verify(message, byLast, ring) {
		t.Error("Both signatures must verify against the shared ring")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	secrets, ring := makeRing(t, 4)
	message := []byte("serialize me")

	sig, err := Sign(message, ring, 2, secrets[2])
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	encoded, err := sig.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if len(encoded) != (1+len(ring))*group.ScalarSize {
		t.Fatalf("Unexpected encoding length %d", len(encoded))
	}

	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !Verify(message, decoded, ring) {
		t.Error("Decoded signature did not verify")
	}

	reencoded, err := decoded.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Error("Round trip changed the encoding")
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too short", make([]byte, group.ScalarSize)},
		{"single response", make([]byte, 2*group.ScalarSize)},
		{"not scalar aligned", make([]byte, 3*group.ScalarSize+1)},
	}
	for _, tc := range cases {
		if _, err := Unmarshal(tc.data); err == nil {
			t.Errorf("Unmarshal accepted %s input", tc.name)
		}
	}
}
