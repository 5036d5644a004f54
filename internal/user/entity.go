// AngelaMos | 2026
// entity.go

// Package user owns account storage and the admin user-management surface.
// It is also the credential source for authentication.
package user

// User is the sanitized account representation. The password hash lives only
// in the repository's Record and never carries a JSON tag anywhere.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Record is a full account row including the credential hash. CreatedAt stays
// a string because the store emits timestamps without a zone designator.
type Record struct {
	ID           string
	Name         string
	Email        string
	Role         string
	CreatedAt    string
	PasswordHash string
}

func (r Record) Sanitized() User {
	return User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
	}
}
