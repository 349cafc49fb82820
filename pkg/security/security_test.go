package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	claims := NewTokenClaims("u-1", "alice", "member", "hr", time.Now().Add(time.Hour).Unix())

	token, err := SignToken(claims, "test-secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", parsed.User)
	assert.Equal(t, "member", parsed.Role)
	assert.Equal(t, "hr", parsed.Department)

	_, err = ParseToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	claims := NewTokenClaims("u-1", "alice", "member", "", time.Now().Add(-time.Hour).Unix())
	token, err := SignToken(claims, "test-secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "test-secret")
	assert.Error(t, err)
}
