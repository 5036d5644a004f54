// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carterperez-dev/releasetrack/internal/core"
)

const (
	UserIDKey    contextKey = "user_id"
	UserRoleKey  contextKey = "user_role"
	UserEmailKey contextKey = "user_email"
	IdentityKey  contextKey = "identity"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller as carried by a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// Authenticator resolves the Authorization header into an Identity or rejects
// the request. A missing header or a non-Bearer scheme is distinct from a
// token that fails verification, matching the two 401 bodies clients rely on.
// A token whose user_id claim is empty is rejected even when the signature is
// valid; role alone is not an identity.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractToken(r)
			if !ok {
				core.JSONError(w, core.MissingTokenError())
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				// Expired and malformed tokens share one body; the client
				// remedy is the same either way.
				core.JSONError(w, core.InvalidTokenError())
				return
			}

			if identity.UserID == "" {
				core.JSONError(w, core.InvalidTokenError())
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, identity.Role)
			ctx = context.WithValue(ctx, UserEmailKey, identity.Email)
			ctx = context.WithValue(ctx, IdentityKey, identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on role membership. Identity resolution failures
// surface as 401 via Authenticator before this runs; here a resolved identity
// outside the set gets a 403 carrying the accepted role set.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, userRole := GetIdentity(r.Context())

			if userID == "" {
				core.JSONError(w, core.MissingTokenError())
				return
			}

			if _, ok := roleSet[userRole]; !ok {
				core.JSONError(w, core.ForbiddenRolesError(roles))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

// ExtractToken returns the bearer token and whether the Authorization header
// carried the Bearer scheme at all.
func ExtractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	return strings.TrimSpace(parts[1]), true
}

// GetUserID is the single-granularity accessor: callers that only need the
// authenticated user id. Empty means unauthenticated.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetIdentity returns user id and role together for scope selection. The
// user id check is repeated here so a role claim without a user id can never
// pass as an identity, whichever accessor a handler reaches for.
func GetIdentity(ctx context.Context) (string, string) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		return "", ""
	}

	role, _ := ctx.Value(UserRoleKey).(string)
	return id, role
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	_, role := GetIdentity(ctx)
	return role == RoleAdmin
}
