// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/middleware"
)

// JWTManager issues and verifies the API's identity tokens: HS256 over a
// shared secret, claims exactly {user_id, email, role, exp, iat}. Tokens are
// immutable once issued; there is no revocation list, expiry is the only
// invalidation.
type JWTManager struct {
	key jwk.Key
	ttl time.Duration
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &JWTManager{
		key: key,
		ttl: cfg.TTL(),
	}, nil
}

// IssueToken signs a token for the given identity. The signature covers the
// whole claim set including exp, so tampering with any claim (role included)
// invalidates the token.
func (m *JWTManager) IssueToken(userID, email, role string) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Claim("user_id", userID).
		Claim("email", email).
		Claim("role", role).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// VerifyToken checks signature and expiry, classifying every failure as
// expired or invalid. It never panics or leaks parser detail to callers.
func (m *JWTManager) VerifyToken(
	ctx context.Context,
	tokenString string,
) (*middleware.Identity, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var userID string
	if err := token.Get("user_id", &userID); err != nil || userID == "" {
		return nil, fmt.Errorf(
			"verify token: missing user_id claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational; absence is not a failure
	_ = token.Get("email", &email)

	var role string
	//nolint:errcheck // role absence degrades to no-role, rejected by policy
	_ = token.Get("role", &role)

	return &middleware.Identity{
		UserID: userID,
		Email:  email,
		Role:   role,
	}, nil
}

func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
