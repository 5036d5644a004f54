// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"

	"github.com/carterperez-dev/releasetrack/internal/auth"
	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/middleware"
)

var (
	ErrInvalidRole            = errors.New("invalid role")
	ErrAdminPromotionDisabled = errors.New("admin promotion disabled")
)

type Service struct {
	repo *Repository
}

var _ auth.UserProvider = (*Service)(nil)

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserAccount, error) {
	record, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toAccount(record), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserAccount, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAccount(record), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.EmailExists(ctx, email)
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash string,
) (*auth.UserAccount, error) {
	record, err := s.repo.Create(ctx, name, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return toAccount(record), nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, core.UpstreamError("failed to fetch users")
	}

	users := make([]User, 0, len(records))
	for _, record := range records {
		users = append(users, record.Sanitized())
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return core.UpstreamError("failed to delete user")
	}
	return nil
}

// UpdateRole changes an account's role. Only "user" is assignable: unknown
// role names are rejected, and "admin" is refused so the admin set cannot
// grow through the API. Admin accounts are provisioned directly in the store.
func (s *Service) UpdateRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	switch role {
	case middleware.RoleUser:
	case middleware.RoleAdmin:
		return nil, ErrAdminPromotionDisabled
	default:
		return nil, ErrInvalidRole
	}

	record, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, core.UpstreamError("failed to update role")
	}

	updated := record.Sanitized()
	return &updated, nil
}

func toAccount(record *Record) *auth.UserAccount {
	return &auth.UserAccount{
		ID:           record.ID,
		Name:         record.Name,
		Email:        record.Email,
		Role:         record.Role,
		CreatedAt:    record.CreatedAt,
		PasswordHash: record.PasswordHash,
	}
}
