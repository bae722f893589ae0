package ringstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/keys"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/registry"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringstore"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/storage"
)

type fixture struct {
	rings  *ringstore.Service
	issuer *group.Point
}

func newFixture(t *testing.T) (*fixture, context.Context) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	reg := registry.NewService(store)
	require.NoError(t, reg.Initialize(ctx, "GADMIN"))

	issuer := newPoints(t, 1)[0]
	require.NoError(t, reg.RegisterIssuer(ctx, issuer, "GADMIN"))

	return &fixture{
		rings:  ringstore.NewService(store, reg),
		issuer: issuer,
	}, ctx
}

func newPoints(t *testing.T, n int) []*group.Point {
	t.Helper()
	pairs, err := keys.NewGenerator().GenerateKeys(n)
	require.NoError(t, err)
	points := make([]*group.Point, n)
	for i, pair := range pairs {
		points[i] = pair.Public
	}
	return points
}

func TestCreateAndGetRing(t *testing.T) {
	f, ctx := newFixture(t)

	members := newPoints(t, 3)
	require.NoError(t, f.rings.CreateRingForAttribute(ctx, f.issuer, "over-18", members))

	ring, err := f.rings.GetRingForAttribute(ctx, "over-18")
	require.NoError(t, err)
	require.Len(t, ring, 3)
	for i := range members {
		assert.True(t, ring[i].Equal(members[i]), "member %d order must be preserved", i)
	}
}

func TestCreateRing_UnregisteredIssuer(t *testing.T) {
	f, ctx := newFixture(t)

	stranger := newPoints(t, 1)[0]
	err := f.rings.CreateRingForAttribute(ctx, stranger, "over-18", newPoints(t, 2))
	assert.ErrorIs(t, err, anoncred.ErrUnauthorized)

	_, err = f.rings.GetRingForAttribute(ctx, "over-18")
	assert.ErrorIs(t, err, anoncred.ErrRingNotFound)
}

func TestCreateRing_Validation(t *testing.T) {
	f, ctx := newFixture(t)
	members := newPoints(t, 2)

	err := f.rings.CreateRingForAttribute(ctx, f.issuer, "", members)
	assert.ErrorIs(t, err, anoncred.ErrInvalidParameter)

	err = f.rings.CreateRingForAttribute(ctx, f.issuer, "over-18", members[:1])
	assert.ErrorIs(t, err, anoncred.ErrInvalidRingSize)

	err = f.rings.CreateRingForAttribute(ctx, f.issuer, "over-18", nil)
	assert.ErrorIs(t, err, anoncred.ErrInvalidRingSize)

	err = f.rings.CreateRingForAttribute(ctx, f.issuer, "over-18", []*group.Point{members[0], members[1], members[0]})
	assert.ErrorIs(t, err, anoncred.ErrDuplicateMember)
}

func TestCreateRing_ReplacesExisting(t *testing.T) {
	f, ctx := newFixture(t)

	first := newPoints(t, 2)
	require.NoError(t, f.rings.CreateRingForAttribute(ctx, f.issuer, "resident", first))

	// Writing again replaces the ring wholesale, it does not append.
	second := newPoints(t, 4)
	require.NoError(t, f.rings.CreateRingForAttribute(ctx, f.issuer, "resident", second))

	ring, err := f.rings.GetRingForAttribute(ctx, "resident")
	require.NoError(t, err)
	require.Len(t, ring, 4)
	for i := range second {
		assert.True(t, ring[i].Equal(second[i]))
	}
}

func TestRings_IndependentPerAttribute(t *testing.T) {
	f, ctx := newFixture(t)

	over18 := newPoints(t, 2)
	resident := newPoints(t, 3)
	require.NoError(t, f.rings.CreateRingForAttribute(ctx, f.issuer, "over-18", over18))
	require.NoError(t, f.rings.CreateRingForAttribute(ctx, f.issuer, "resident", resident))

	ring, err := f.rings.GetRingForAttribute(ctx, "over-18")
	require.NoError(t, err)
	assert.Len(t, ring, 2)

	ring, err = f.rings.GetRingForAttribute(ctx, "resident")
	require.NoError(t, err)
	assert.Len(t, ring, 3)

	_, err = f.rings.GetRingForAttribute(ctx, "unknown")
	assert.ErrorIs(t, err, anoncred.ErrRingNotFound)
}
