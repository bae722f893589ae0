package keys

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
)

func TestGenerateKeys(t *testing.T) {
	g := NewGenerator()

	pairs, err := g.GenerateKeys(5)
	if err != nil {
		t.Fatalf("GenerateKeys failed: %v", err)
	}
	if len(pairs) != 5 {
		t.Fatalf("Expected 5 pairs, got %d", len(pairs))
	}

	for i, pair := range pairs {
		if pair.Secret == nil || pair.Secret.IsZero() {
			t.Fatalf("Pair %d has an empty secret", i)
		}
		if !group.ScalarBaseMul(pair.Secret).Equal(pair.Public) {
			t.Errorf("Pair %d public key does not match its secret", i)
		}
		for j := i + 1; j < len(pairs); j++ {
			if pair.Secret.Equal(pairs[j].Secret) {
				t.Errorf("Pairs %d and %d share a secret", i, j)
			}
		}
	}
}

func TestGenerateKeys_InvalidCount(t *testing.T) {
	g := NewGenerator()

	for _, count := range []int{0, -1} {
		if _, err := g.GenerateKeys(count); !errors.Is(err, anoncred.ErrInvalidParameter) {
			t.Errorf("Expected ErrInvalidParameter for count %d, got %v", count, err)
		}
	}
}

func TestKeyPairZeroize(t *testing.T) {
	g := NewGenerator()

	pairs, err := g.GenerateKeys(1)
	if err != nil {
		t.Fatalf("GenerateKeys failed: %v", err)
	}

	pair := pairs[0]
	pair.Zeroize()
	if !pair.Secret.IsZero() {
		t.Error("Secret still set after Zeroize")
	}
}
