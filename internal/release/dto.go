// AngelaMos | 2026
// dto.go

package release

import "strings"

// CreateReleaseRequest creates a single release. UserID lets an admin
// attribute the release to another account; when empty the release belongs
// to the caller.
type CreateReleaseRequest struct {
	ProjectName string `json:"project_name" validate:"required"`
	Version     string `json:"version" validate:"required"`
	Status      string `json:"status"`
	UserID      string `json:"user_id"`
}

// Normalize strips surrounding whitespace so validation judges the value
// that would actually be stored; "   " is as absent as "".
func (r *CreateReleaseRequest) Normalize() {
	r.ProjectName = strings.TrimSpace(r.ProjectName)
	r.Version = strings.TrimSpace(r.Version)
	r.Status = strings.TrimSpace(r.Status)
	r.UserID = strings.TrimSpace(r.UserID)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

// ImportRow is one scanned dependency as produced by the scan endpoint.
type ImportRow struct {
	Name          string `json:"name"`
	LatestVersion string `json:"latest_version"`
}

type ImportScanRequest struct {
	Rows   []ImportRow `json:"rows"`
	Status string      `json:"status"`
}
