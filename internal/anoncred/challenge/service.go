// Package challenge implements the relay-side freshness discipline. The
// engine treats proof messages as opaque bytes and does not enforce replay
// protection itself, so the relay mints a fresh challenge per proof attempt
// and allows each one to be redeemed exactly once.
package challenge

import (
	"fmt"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrChallengeUnknown is returned when redeeming a challenge that was
	// never issued or has expired.
	ErrChallengeUnknown = errors.New("challenge unknown or expired")
	// ErrChallengeUsed is returned when a challenge is redeemed twice.
	ErrChallengeUsed = errors.New("challenge already redeemed")
)

// Challenge is a single-use proof message: a random nonce plus the mint
// timestamp. Its byte form is what the holder signs and the verifier checks.
type Challenge struct {
	Nonce     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Message is the opaque byte sequence bound into the ring signature.
func (c *Challenge) Message() []byte {
	return []byte(fmt.Sprintf("%s|%d", c.Nonce, c.IssuedAt.Unix()))
}

// Service mints and redeems challenges. Redemption happens before signature
// verification; an invalid proof still consumes its challenge, so a retry
// always needs a fresh one.
type Service struct {
	clock time2.Clock
	ttl   time.Duration

	mu     sync.Mutex
	issued map[string]*Challenge
	used   map[string]time.Time
}

// NewService creates a challenge service. ttl bounds how long a minted
// challenge stays redeemable.
func NewService(clock time2.Clock, ttl time.Duration) *Service {
	return &Service{
		clock:  clock,
		ttl:    ttl,
		issued: map[string]*Challenge{},
		used:   map[string]time.Time{},
	}
}

// Mint issues a fresh single-use challenge.
func (s *Service) Mint() *Challenge {
	now := s.clock.Now()
	c := &Challenge{
		Nonce:     uuid.New().String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[c.Nonce] = c
	s.expireLocked(now)
	return c
}

// Redeem consumes the challenge with the given nonce and returns its
// message. Each challenge redeems at most once.
func (s *Service) Redeem(nonce string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, redeemed := s.used[nonce]; redeemed {
		return nil, ErrChallengeUsed
	}
	c, ok := s.issued[nonce]
	if !ok || s.clock.Now().After(c.ExpiresAt) {
		return nil, ErrChallengeUnknown
	}
	delete(s.issued, nonce)
	s.used[nonce] = c.ExpiresAt
	return c.Message(), nil
}

// expireLocked drops timed-out challenges. Redeemed nonces are kept until
// their original expiry so a late replay still gets ErrChallengeUsed.
func (s *Service) expireLocked(now time.Time) {
	for nonce, c := range s.issued {
		if now.After(c.ExpiresAt) {
			delete(s.issued, nonce)
		}
	}
	for nonce, expiresAt := range s.used {
		if now.After(expiresAt) {
			delete(s.used, nonce)
		}
	}
}
