package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	svc := New("secret", time.Hour, "oficina-api", "oficina-client")

	token, err := svc.GenerateToken(7, "admin", "admin@oficina.test")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@oficina.test", claims.Email)
}

func TestService_RejectsWrongAudience(t *testing.T) {
	issuer := New("secret", time.Hour, "oficina-api", "other-client")
	token, err := issuer.GenerateToken(7, "client", "c@oficina.test")
	require.NoError(t, err)

	_, err = New("secret", time.Hour, "oficina-api", "oficina-client").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsExpired(t *testing.T) {
	svc := New("secret", -time.Minute, "oficina-api", "oficina-client")
	token, err := svc.GenerateToken(7, "client", "c@oficina.test")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsWrongSecret(t *testing.T) {
	token, err := New("one", time.Hour, "oficina-api", "oficina-client").GenerateToken(7, "client", "")
	require.NoError(t, err)

	_, err = New("two", time.Hour, "oficina-api", "oficina-client").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
