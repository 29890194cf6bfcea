package ports

import (
	"context"
	"time"

	"github.com/campusboard/board-api/internal/core/domain"
)

// PasswordHasher is the one-way credential capability.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer produces signed, time-boxed credentials.
type TokenIssuer interface {
	Issue(id domain.Identity) (token string, expiresAt time.Time, err error)
}

// TokenValidator reconstructs an identity from an Authorization header value.
type TokenValidator interface {
	ValidateHeader(header string) (domain.Identity, error)
}

// RegisterInput carries the data for a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
