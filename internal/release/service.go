// AngelaMos | 2026
// service.go

package release

import (
	"context"
	"errors"
	"strings"

	"github.com/carterperez-dev/releasetrack/internal/core"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	userID, role string,
) ([]Release, error) {
	releases, err := s.repo.List(ctx, ScopeFor(userID, role))
	if err != nil {
		return nil, core.UpstreamError("failed to fetch releases")
	}
	if releases == nil {
		releases = []Release{}
	}
	return releases, nil
}

// Create inserts a single release on behalf of callerID. The request may name
// a different owner; that path is only reachable through the admin-gated
// route.
func (s *Service) Create(
	ctx context.Context,
	callerID string,
	req CreateReleaseRequest,
) (*Release, error) {
	owner := strings.TrimSpace(req.UserID)
	if owner == "" {
		owner = callerID
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = DefaultStatus
	}

	created, err := s.repo.Insert(
		ctx,
		owner,
		strings.TrimSpace(req.ProjectName),
		strings.TrimSpace(req.Version),
		status,
	)
	if err != nil {
		return nil, core.UpstreamError("failed to create release")
	}
	return created, nil
}

// UpdateStatus patches within the caller's scope. A filter that matches no
// rows is not an error; the caller gets (nil, false, nil) and reports a
// generic success, never revealing whether the id exists outside the scope.
func (s *Service) UpdateStatus(
	ctx context.Context,
	userID, role string,
	id int64,
	status string,
) (*Release, bool, error) {
	updated, found, err := s.repo.UpdateStatus(
		ctx,
		id,
		strings.TrimSpace(status),
		ScopeFor(userID, role),
	)
	if err != nil {
		return nil, false, core.UpstreamError("failed to update release")
	}
	return updated, found, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return core.UpstreamError("failed to delete release")
	}
	return nil
}

// ImportScan upserts scanned dependencies as releases. Rows already present
// under the caller's scope are returned as-is; the rest are inserted with the
// caller as owner. The existence check and the insert are separate store
// calls, so two concurrent imports of the same row can both insert.
func (s *Service) ImportScan(
	ctx context.Context,
	userID, role string,
	req ImportScanRequest,
) ([]Release, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = DefaultStatus
	}

	scope := ScopeFor(userID, role)

	results := make([]Release, 0, len(req.Rows))
	for _, row := range req.Rows {
		projectName := strings.TrimSpace(row.Name)
		if projectName == "" {
			continue
		}

		version := strings.TrimSpace(row.LatestVersion)
		if version == "" {
			version = "unknown"
		}

		existing, err := s.repo.FindByKey(ctx, projectName, version, scope)
		if err == nil {
			results = append(results, *existing)
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, core.UpstreamError("failed to check existing releases")
		}

		created, err := s.repo.Insert(ctx, userID, projectName, version, status)
		if err != nil {
			return nil, core.UpstreamError("failed to insert release")
		}
		results = append(results, *created)
	}

	return results, nil
}
