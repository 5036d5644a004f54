// AngelaMos | 2026
// entity.go

// Package release tracks project release records. Reads and updates are
// scoped by the caller's role; writes always attribute ownership.
package release

// DefaultStatus is applied whenever a create or import omits the status.
const DefaultStatus = "Planned"

// Release mirrors a store row. CreatedAt stays a string because the store
// emits zoneless timestamps; ids are numeric in the releases table.
type Release struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	ProjectName string `json:"project_name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}
