// AngelaMos | 2026
// repository.go

package release

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/store"
)

const createdAtLayout = "2006-01-02T15:04:05.999999"

type Repository struct {
	client *store.Client
	table  string
}

func NewRepository(client *store.Client, cfg config.StoreConfig) *Repository {
	return &Repository{
		client: client,
		table:  cfg.ReleasesTable,
	}
}

// insertRow is the write shape; created_at is always set by this process.
type insertRow struct {
	UserID      string `json:"user_id"`
	ProjectName string `json:"project_name"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// List returns the scope's releases, newest first.
func (r *Repository) List(ctx context.Context, scope Scope) ([]Release, error) {
	q := scope.apply(store.NewQuery().Select("*").Order("created_at.desc"))

	var releases []Release
	if err := r.client.Select(ctx, r.table, q, &releases); err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	return releases, nil
}

func (r *Repository) Insert(
	ctx context.Context,
	userID, projectName, version, status string,
) (*Release, error) {
	payload := insertRow{
		UserID:      userID,
		ProjectName: projectName,
		Version:     version,
		Status:      status,
		CreatedAt:   time.Now().UTC().Format(createdAtLayout),
	}

	var rows []Release
	if err := r.client.Insert(ctx, r.table, payload, &rows); err != nil {
		return nil, fmt.Errorf("insert release: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert release: %w", core.ErrUpstream)
	}

	return &rows[0], nil
}

// UpdateStatus patches the status of the matched release. found is false when
// the filter matched nothing, which covers both a missing id and a row the
// scope cannot see.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
	scope Scope,
) (*Release, bool, error) {
	q := scope.apply(store.NewQuery().Eq("id", strconv.FormatInt(id, 10)))

	var rows []Release
	err := r.client.Update(
		ctx,
		r.table,
		q,
		map[string]any{"status": status},
		&rows,
	)
	if err != nil {
		return nil, false, fmt.Errorf("update release: %w", err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	return &rows[0], true, nil
}

// Delete removes the release only when it belongs to userID. There is no
// admin variant.
func (r *Repository) Delete(ctx context.Context, id int64, userID string) error {
	q := store.NewQuery().
		Eq("id", strconv.FormatInt(id, 10)).
		Eq("user_id", userID)

	if err := r.client.Delete(ctx, r.table, q); err != nil {
		return fmt.Errorf("delete release: %w", err)
	}
	return nil
}

// FindByKey looks up a release by (project_name, version) within the scope.
// Returns core.ErrNotFound when no row matches.
func (r *Repository) FindByKey(
	ctx context.Context,
	projectName, version string,
	scope Scope,
) (*Release, error) {
	q := scope.apply(
		store.NewQuery().
			Eq("project_name", projectName).
			Eq("version", version).
			Select("*"),
	)

	var rows []Release
	if err := r.client.Select(ctx, r.table, q, &rows); err != nil {
		return nil, fmt.Errorf("find release: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}

	return &rows[0], nil
}
