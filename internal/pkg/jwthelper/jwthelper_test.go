package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("secret")

	token, expiresAt, err := GenerateToken(key, "test-agent", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, claims.Subject)
	assert.Equal(t, "test-agent", claims.UserAgent)
}

func TestParseTokenRejects(t *testing.T) {
	key := []byte("secret")

	expired, _, err := GenerateToken(key, "", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(key, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _, err := GenerateToken([]byte("other"), "", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(key, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(key)
	require.NoError(t, err)
	_, err = ParseToken(key, notAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(key, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
