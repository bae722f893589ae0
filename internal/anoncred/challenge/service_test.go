package challenge

import (
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndRedeem(t *testing.T) {
	clock := time2.NewMockClock(time.Now())
	svc := NewService(clock, 2*time.Minute)

	c := svc.Mint()
	require.NotEmpty(t, c.Nonce)
	assert.Equal(t, c.IssuedAt.Add(2*time.Minute), c.ExpiresAt)

	message, err := svc.Redeem(c.Nonce)
	require.NoError(t, err)
	assert.Equal(t, c.Message(), message)
}

func TestRedeem_OnlyOnce(t *testing.T) {
	clock := time2.NewMockClock(time.Now())
	svc := NewService(clock, 2*time.Minute)

	c := svc.Mint()
	_, err := svc.Redeem(c.Nonce)
	require.NoError(t, err)

	_, err = svc.Redeem(c.Nonce)
	assert.ErrorIs(t, err, ErrChallengeUsed)

	// Still used after time passes, as long as the original expiry holds.
	clock.Advance(time.Minute)
	_, err = svc.Redeem(c.Nonce)
	assert.ErrorIs(t, err, ErrChallengeUsed)
}

func TestRedeem_Unknown(t *testing.T) {
	svc := NewService(time2.NewMockClock(time.Now()), 2*time.Minute)

	_, err := svc.Redeem("never-minted")
	assert.ErrorIs(t, err, ErrChallengeUnknown)
}

func TestRedeem_Expired(t *testing.T) {
	clock := time2.NewMockClock(time.Now())
	svc := NewService(clock, 2*time.Minute)

	c := svc.Mint()
	clock.Advance(3 * time.Minute)

	_, err := svc.Redeem(c.Nonce)
	assert.ErrorIs(t, err, ErrChallengeUnknown)
}

func TestMint_DistinctNonces(t *testing.T) {
	svc := NewService(time2.NewMockClock(time.Now()), 2*time.Minute)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		c := svc.Mint()
		require.False(t, seen[c.Nonce], "nonce repeated")
		seen[c.Nonce] = true
	}
}

func TestExpiry_EvictsState(t *testing.T) {
	clock := time2.NewMockClock(time.Now())
	svc := NewService(clock, time.Minute)

	stale := svc.Mint()
	redeemed := svc.Mint()
	_, err := svc.Redeem(redeemed.Nonce)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	svc.Mint()

	svc.mu.Lock()
	_, staleHeld := svc.issued[stale.Nonce]
	_, redeemedHeld := svc.used[redeemed.Nonce]
	svc.mu.Unlock()

	assert.False(t, staleHeld, "expired challenge must be evicted")
	assert.False(t, redeemedHeld, "expired redemption record must be evicted")
}
