package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/keys"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/registry"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/storage"
)

func newIssuerKey(t *testing.T) *group.Point {
	t.Helper()
	pairs, err := keys.NewGenerator().GenerateKeys(1)
	require.NoError(t, err)
	return pairs[0].Public
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(storage.NewMemoryStore())

	admin, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Empty(t, admin, "fresh state must have no admin")

	require.NoError(t, svc.Initialize(ctx, "GADMIN"))

	admin, err = svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GADMIN", admin)

	// A second initialization must fail regardless of caller.
	err = svc.Initialize(ctx, "GOTHER")
	assert.ErrorIs(t, err, anoncred.ErrAlreadyInitialized)

	admin, err = svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GADMIN", admin, "failed re-init must not change the admin")
}

func TestInitialize_EmptyAdmin(t *testing.T) {
	svc := registry.NewService(storage.NewMemoryStore())
	err := svc.Initialize(context.Background(), "")
	assert.ErrorIs(t, err, anoncred.ErrInvalidParameter)
}

func TestRegisterIssuer(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(storage.NewMemoryStore())
	require.NoError(t, svc.Initialize(ctx, "GADMIN"))

	first := newIssuerKey(t)
	second := newIssuerKey(t)

	require.NoError(t, svc.RegisterIssuer(ctx, first, "GADMIN"))
	require.NoError(t, svc.RegisterIssuer(ctx, second, "GADMIN"))

	// Registration order is the listing order.
	issuers, err := svc.ListIssuers(ctx)
	require.NoError(t, err)
	require.Len(t, issuers, 2)
	assert.True(t, issuers[0].Equal(first))
	assert.True(t, issuers[1].Equal(second))

	ok, err := svc.IsIssuer(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsIssuer(ctx, newIssuerKey(t))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterIssuer_Unauthorized(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(storage.NewMemoryStore())

	pub := newIssuerKey(t)

	// Before initialization nobody is the admin.
	err := svc.RegisterIssuer(ctx, pub, "GADMIN")
	assert.ErrorIs(t, err, anoncred.ErrUnauthorized)

	require.NoError(t, svc.Initialize(ctx, "GADMIN"))

	err = svc.RegisterIssuer(ctx, pub, "GMALLORY")
	assert.ErrorIs(t, err, anoncred.ErrUnauthorized)

	issuers, err := svc.ListIssuers(ctx)
	require.NoError(t, err)
	assert.Empty(t, issuers, "unauthorized attempts must not register anything")
}

func TestRegisterIssuer_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(storage.NewMemoryStore())
	require.NoError(t, svc.Initialize(ctx, "GADMIN"))

	pub := newIssuerKey(t)
	require.NoError(t, svc.RegisterIssuer(ctx, pub, "GADMIN"))

	err := svc.RegisterIssuer(ctx, pub, "GADMIN")
	assert.ErrorIs(t, err, anoncred.ErrDuplicateIssuer)

	issuers, err := svc.ListIssuers(ctx)
	require.NoError(t, err)
	assert.Len(t, issuers, 1)
}
