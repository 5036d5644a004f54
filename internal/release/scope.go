// AngelaMos | 2026
// scope.go

package release

import (
	"github.com/carterperez-dev/releasetrack/internal/middleware"
	"github.com/carterperez-dev/releasetrack/internal/store"
)

// Scope decides whose rows a query can see. Admins read and update across
// every owner; anyone else is pinned to their own user_id. Deletion is the
// exception and never consults the scope: it filters on the caller's own
// user_id for every role, so an admin cannot delete another user's release.
type Scope struct {
	UserID string
	Admin  bool
}

func ScopeFor(userID, role string) Scope {
	return Scope{
		UserID: userID,
		Admin:  role == middleware.RoleAdmin,
	}
}

// apply narrows q to the caller's rows unless the scope is admin.
func (s Scope) apply(q *store.Query) *store.Query {
	if s.Admin {
		return q
	}
	return q.Eq("user_id", s.UserID)
}
