// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
)

func newTestManager(t *testing.T, expireSeconds int) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(config.JWTConfig{
		Secret:        "test-secret-with-enough-entropy",
		ExpireSeconds: expireSeconds,
	})
	require.NoError(t, err)
	return m
}

func TestJWTRoundTrip(t *testing.T) {
	m := newTestManager(t, 3600)

	token, err := m.IssueToken("user-123", "alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := m.VerifyToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "user", identity.Role)
}

func TestJWTExpiredToken(t *testing.T) {
	m := newTestManager(t, -10)

	token, err := m.IssueToken("user-123", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = m.VerifyToken(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWTTamperedToken(t *testing.T) {
	m := newTestManager(t, 3600)

	token, err := m.IssueToken("user-123", "alice@example.com", "user")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a character in the payload; the signature no longer matches.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = m.VerifyToken(context.Background(), tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTWrongSecret(t *testing.T) {
	m := newTestManager(t, 3600)

	other, err := NewJWTManager(config.JWTConfig{
		Secret:        "a-completely-different-secret",
		ExpireSeconds: 3600,
	})
	require.NoError(t, err)

	token, err := m.IssueToken("user-123", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = other.VerifyToken(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTMalformedToken(t *testing.T) {
	m := newTestManager(t, 3600)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := m.VerifyToken(context.Background(), token)
		require.Error(t, err, "token %q", token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	}
}

func TestJWTEmptyUserIDRejected(t *testing.T) {
	m := newTestManager(t, 3600)

	token, err := m.IssueToken("", "alice@example.com", "admin")
	require.NoError(t, err)

	_, err = m.VerifyToken(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTTTL(t *testing.T) {
	m := newTestManager(t, 86400)
	assert.Equal(t, 24*time.Hour, m.TTL())
}
