package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour)

	token, err := svc.GenerateToken(42, "provider_owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "provider_owner", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestService_ExpiredToken(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", -time.Minute)

	token, err := svc.GenerateToken(1, "customer")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_WrongSecret(t *testing.T) {
	issuer := New("test_secret_key_32_characters_min", time.Hour)
	other := New("another_secret_key_32_characters_", time.Hour)

	token, err := issuer.GenerateToken(1, "customer")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_GarbageToken(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
