// Package registry manages the admin identity and the set of issuer public
// keys that are allowed to publish attribute rings.
package registry

import (
	"context"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service is the issuer registry. All mutations are admin-gated; the admin
// identity itself is set exactly once and immutable afterwards. Issuers are
// never removed (revocation is out of scope).
type Service struct {
	store anoncred.StateStore
}

// NewService creates an issuer registry backed by the given state store.
func NewService(store anoncred.StateStore) *Service {
	return &Service{store: store}
}

// Initialize records the admin identity. It can succeed at most once per
// engine state.
func (s *Service) Initialize(ctx context.Context, admin string) error {
	if admin == "" {
		return errors.Wrap(anoncred.ErrInvalidParameter, "admin identity is empty")
	}
	if err := s.store.InitAdmin(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("admin", admin).Msg("Engine initialized")
	return nil
}

// Admin returns the admin identity, or "" when Initialize has not run.
func (s *Service) Admin(ctx context.Context) (string, error) {
	return s.store.Admin(ctx)
}

// RegisterIssuer appends the issuer public key to the registry. Only the
// admin identity may call it; a caller compared against an uninitialized
// admin is unauthorized like any other mismatch.
func (s *Service) RegisterIssuer(ctx context.Context, pub *group.Point, caller string) error {
	if pub == nil {
		return errors.Wrap(anoncred.ErrInvalidParameter, "issuer public key is empty")
	}
	admin, err := s.store.Admin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load admin identity")
	}
	if admin == "" || caller != admin {
		return errors.Wrapf(anoncred.ErrUnauthorized, "caller %q is not the admin", caller)
	}
	if err := s.store.AppendIssuer(ctx, pub.Bytes()); err != nil {
		return err
	}
	log.Info().Hex("issuer", pub.Bytes()[:8]).Msg("Issuer registered")
	return nil
}

// ListIssuers returns the registered issuer keys in registration order.
// Insertion order is the only defined order; no re-sorting.
func (s *Service) ListIssuers(ctx context.Context) ([]*group.Point, error) {
	raw, err := s.store.Issuers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list issuers")
	}
	issuers := make([]*group.Point, len(raw))
	for i, b := range raw {
		if issuers[i], err = group.PointFromBytes(b); err != nil {
			return nil, errors.Wrapf(err, "stored issuer %d is corrupt", i)
		}
	}
	return issuers, nil
}

// IsIssuer reports whether the public key is a registered issuer.
func (s *Service) IsIssuer(ctx context.Context, pub *group.Point) (bool, error) {
	if pub == nil {
		return false, nil
	}
	return s.store.HasIssuer(ctx, pub.Bytes())
}
