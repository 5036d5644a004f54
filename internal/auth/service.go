// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/releasetrack/internal/core"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already registered")
	ErrAdminSignupDisabled = errors.New("admin signup is disabled")
)

// RoleMismatchError is returned when a login asks for a role the account
// does not hold. The actual role belongs to the authenticated caller
// themselves, so echoing it is not a leak.
type RoleMismatchError struct {
	Actual string
}

func (e *RoleMismatchError) Error() string {
	return "role mismatch"
}

// UserAccount is the provider-facing view of a stored user. PasswordHash is
// only populated by GetByEmail and never crosses the HTTP boundary.
type UserAccount struct {
	ID           string
	Name         string
	Email        string
	Role         string
	CreatedAt    string
	PasswordHash string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserAccount, error)
	GetByID(ctx context.Context, id string) (*UserAccount, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
	) (*UserAccount, error)
}

type Service struct {
	users UserProvider
	jwt   *JWTManager
}

func NewService(users UserProvider, jwt *JWTManager) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a user account. Emails are normalized to lowercase before
// any lookup or write. Requesting role "admin" is refused outright: there is
// no code path that assigns the admin role through the public API.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, core.UpstreamError("failed to check existing users")
	}
	if exists {
		return nil, ErrEmailExists
	}

	if strings.TrimSpace(req.Role) == "admin" {
		return nil, ErrAdminSignupDisabled
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.users.Create(
		ctx,
		strings.TrimSpace(req.Name),
		email,
		passwordHash,
	)
	if err != nil {
		return nil, core.UpstreamError("failed to create user")
	}

	return s.issueResponse(account)
}

// Login verifies credentials with a uniform failure path: an unknown email
// and a wrong password produce the same error after the same amount of work.
// When as_role is supplied it must match the stored role exactly.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention, result is discarded
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, core.UpstreamError("failed to fetch user")
	}

	valid, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&account.PasswordHash,
	)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if requested := strings.TrimSpace(req.AsRole); requested != "" &&
		requested != account.Role {
		return nil, &RoleMismatchError{Actual: account.Role}
	}

	return s.issueResponse(account)
}

func (s *Service) Me(
	ctx context.Context,
	userID string,
) (*ProfileResponse, error) {
	// A token whose subject no longer resolves in the store is an upstream
	// inconsistency, not a client fault, so missing users surface as 502 here.
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, core.UpstreamError("failed to fetch user")
	}

	return &ProfileResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
	}, nil
}

func (s *Service) issueResponse(account *UserAccount) (*AuthResponse, error) {
	token, err := s.jwt.IssueToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		User: UserResponse{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
			Role:  account.Role,
		},
		Token: token,
	}, nil
}
