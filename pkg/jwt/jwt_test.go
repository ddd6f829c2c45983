package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateToken("42", RoleSeller)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, RoleSeller, claims.Role)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour)

	other, err := NewManager("other", time.Hour).GenerateToken("1", RoleAdmin)
	require.NoError(t, err)
	_, err = m.VerifyToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewManager("secret", -time.Minute).GenerateToken("1", RoleAdmin)
	require.NoError(t, err)
	_, err = m.VerifyToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
