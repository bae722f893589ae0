package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", "anoncred-test", time.Hour)

	token, err := m.Generate("GADMIN", RoleAdmin, "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "GADMIN", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "anoncred-test", claims.Issuer)
	assert.Empty(t, claims.PublicKey)
}

func TestIssuerTokenCarriesPublicKey(t *testing.T) {
	m := NewJWTManager("test-secret", "anoncred-test", time.Hour)

	token, err := m.Generate("issuer-1", RoleIssuer, "aabbcc")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, RoleIssuer, claims.Role)
	assert.Equal(t, "aabbcc", claims.PublicKey)
}

func TestValidate_WrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", "anoncred-test", time.Hour)
	other := NewJWTManager("other-secret", "anoncred-test", time.Hour)

	token, err := m.Generate("GADMIN", RoleAdmin, "")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", "anoncred-test", -time.Minute)

	token, err := m.Generate("GADMIN", RoleAdmin, "")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	m := NewJWTManager("test-secret", "anoncred-test", time.Hour)

	_, err := m.Validate("not-a-token")
	assert.Error(t, err)
}
