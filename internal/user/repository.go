// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/middleware"
	"github.com/carterperez-dev/releasetrack/internal/store"
)

// createdAtLayout matches the store's zoneless microsecond timestamps.
const createdAtLayout = "2006-01-02T15:04:05.999999"

// Repository reads and writes account rows through the store's filter
// interface. Rows are decoded as generic maps because the credential column
// name is deployment configuration, not a compile-time constant.
type Repository struct {
	client      *store.Client
	table       string
	passwordCol string
}

func NewRepository(client *store.Client, cfg config.StoreConfig) *Repository {
	return &Repository{
		client:      client,
		table:       cfg.UsersTable,
		passwordCol: cfg.PasswordColumn,
	}
}

func (r *Repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Record, error) {
	var rows []map[string]any
	err := r.client.Select(
		ctx,
		r.table,
		store.NewQuery().Eq("email", email),
		&rows,
	)
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}

	record := r.fromRow(rows[0])
	return &record, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Record, error) {
	var rows []map[string]any
	err := r.client.Select(
		ctx,
		r.table,
		store.NewQuery().Eq("id", id),
		&rows,
	)
	if err != nil {
		return nil, fmt.Errorf("user by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}

	record := r.fromRow(rows[0])
	return &record, nil
}

func (r *Repository) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	var rows []map[string]any
	err := r.client.Select(
		ctx,
		r.table,
		store.NewQuery().Eq("email", email).Select("id"),
		&rows,
	)
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}

	return len(rows) > 0, nil
}

func (r *Repository) Create(
	ctx context.Context,
	name, email, passwordHash string,
) (*Record, error) {
	payload := map[string]any{
		"name":        name,
		"email":       email,
		"role":        middleware.RoleUser,
		"created_at":  time.Now().UTC().Format(createdAtLayout),
		r.passwordCol: passwordHash,
	}

	var rows []map[string]any
	if err := r.client.Insert(ctx, r.table, payload, &rows); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create user: %w", core.ErrUpstream)
	}

	record := r.fromRow(rows[0])
	return &record, nil
}

// List returns every account, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	var rows []map[string]any
	err := r.client.Select(
		ctx,
		r.table,
		store.NewQuery().Order("created_at.desc"),
		&rows,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.fromRow(row))
	}
	return records, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, r.table, store.NewQuery().Eq("id", id))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UpdateRole patches the role column on the matched account. A filter that
// matches no rows returns core.ErrNotFound; the store does not distinguish a
// missing id from an already-deleted one.
func (r *Repository) UpdateRole(
	ctx context.Context,
	id, role string,
) (*Record, error) {
	var rows []map[string]any
	err := r.client.Update(
		ctx,
		r.table,
		store.NewQuery().Eq("id", id),
		map[string]any{"role": role},
		&rows,
	)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}

	record := r.fromRow(rows[0])
	return &record, nil
}

func (r *Repository) fromRow(row map[string]any) Record {
	return Record{
		ID:           asString(row["id"]),
		Name:         asString(row["name"]),
		Email:        asString(row["email"]),
		Role:         asString(row["role"]),
		CreatedAt:    asString(row["created_at"]),
		PasswordHash: asString(row[r.passwordCol]),
	}
}

// asString tolerates the store returning ids as either text or numbers.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
