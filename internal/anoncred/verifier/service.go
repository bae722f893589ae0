// Package verifier checks ring signatures against the ring currently stored
// for an attribute and keeps the anonymous success tally.
package verifier

import (
	"context"
	"sync"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringsig"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringstore"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	metricsOnce  sync.Once
	proofOutcome *prometheus.CounterVec
)

func ensureProofMetrics() {
	metricsOnce.Do(func() {
		proofOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "anoncred",
			Subsystem: "verifier",
			Name:      "proofs_total",
			Help:      "Ring signature verification outcomes by attribute",
		}, []string{"attribute", "outcome"})
	})
}

// Service verifies attribute proofs. It distinguishes a cryptographically
// invalid signature (a normal false result) from a call that could not be
// checked at all (missing ring, malformed input), which surfaces as an
// error. Only genuine successes touch the verification counter.
type Service struct {
	store anoncred.StateStore
	rings *ringstore.Service
}

// NewService creates a verifier over the given state.
func NewService(store anoncred.StateStore, rings *ringstore.Service) *Service {
	ensureProofMetrics()
	return &Service{store: store, rings: rings}
}

// VerifyAttribute checks sig over message against the ring currently stored
// under attribute. On success it atomically bumps the verification counter
// by exactly one. A failed verification is final for this signature/message
// pair; retrying without a fresh signature over a fresh challenge cannot
// succeed.
func (s *Service) VerifyAttribute(ctx context.Context, message []byte, sig *ringsig.Signature, attribute string) (bool, error) {
	if sig == nil {
		return false, errors.Wrap(anoncred.ErrInvalidParameter, "signature is empty")
	}
	ring, err := s.rings.GetRingForAttribute(ctx, attribute)
	if err != nil {
		proofOutcome.WithLabelValues(attribute, "error").Inc()
		return false, err
	}

	if !ringsig.Verify(message, sig, ring) {
		proofOutcome.WithLabelValues(attribute, "invalid").Inc()
		return false, nil
	}

	count, err := s.store.IncrementVerifications(ctx)
	if err != nil {
		proofOutcome.WithLabelValues(attribute, "error").Inc()
		return false, errors.Wrap(err, "proof was valid but counter increment failed")
	}
	proofOutcome.WithLabelValues(attribute, "valid").Inc()
	log.Debug().
		Str("attribute", attribute).
		Uint64("verifications", count).
		Msg("Anonymous proof accepted")
	return true, nil
}

// VerificationCount returns the number of proofs accepted so far.
func (s *Service) VerificationCount(ctx context.Context) (uint64, error) {
	return s.store.VerificationCount(ctx)
}
