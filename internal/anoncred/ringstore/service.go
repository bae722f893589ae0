// Package ringstore keeps one anonymity set per attribute name: an ordered
// list of public keys written by registered issuers and read by the
// verifier.
package ringstore

import (
	"context"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/registry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service is the attribute ring store. Writing a ring for an attribute
// replaces the previous ring wholesale; callers that want to grow a ring
// must read, extend and write it back themselves.
type Service struct {
	store    anoncred.StateStore
	registry *registry.Service
}

// NewService creates a ring store backed by the given state store. The
// registry gates who may write.
func NewService(store anoncred.StateStore, reg *registry.Service) *Service {
	return &Service{store: store, registry: reg}
}

// CreateRingForAttribute stores members as the ring for attribute. The
// issuer must be registered; possession of an arbitrary key string is not
// enough. Rings need at least two bit-distinct members.
func (s *Service) CreateRingForAttribute(ctx context.Context, issuer *group.Point, attribute string, members []*group.Point) error {
	if attribute == "" {
		return errors.Wrap(anoncred.ErrInvalidParameter, "attribute name is empty")
	}
	registered, err := s.registry.IsIssuer(ctx, issuer)
	if err != nil {
		return errors.Wrap(err, "failed to check issuer registration")
	}
	if !registered {
		return errors.Wrap(anoncred.ErrUnauthorized, "caller is not a registered issuer")
	}
	if len(members) < anoncred.MinRingSize {
		return errors.Wrapf(anoncred.ErrInvalidRingSize, "got %d members", len(members))
	}

	raw := make([][]byte, len(members))
	for i, m := range members {
		if m == nil {
			return errors.Wrapf(anoncred.ErrInvalidParameter, "ring member %d is empty", i)
		}
		raw[i] = m.Bytes()
	}
	for i := range raw {
		for j := i + 1; j < len(raw); j++ {
			if group.ConstantTimeEqualBytes(raw[i], raw[j]) {
				return errors.Wrapf(anoncred.ErrDuplicateMember, "members %d and %d are identical", i, j)
			}
		}
	}

	if err := s.store.SaveRing(ctx, attribute, raw); err != nil {
		return errors.Wrapf(err, "failed to save ring for attribute %q", attribute)
	}
	log.Info().
		Str("attribute", attribute).
		Int("ring_size", len(members)).
		Msg("Attribute ring stored")
	return nil
}

// GetRingForAttribute returns the current ring snapshot for the attribute,
// or ErrRingNotFound.
func (s *Service) GetRingForAttribute(ctx context.Context, attribute string) ([]*group.Point, error) {
	raw, err := s.store.GetRing(ctx, attribute)
	if err != nil {
		return nil, err
	}
	ring := make([]*group.Point, len(raw))
	for i, b := range raw {
		if ring[i], err = group.PointFromBytes(b); err != nil {
			return nil, errors.Wrapf(err, "stored ring member %d is corrupt", i)
		}
	}
	return ring, nil
}
