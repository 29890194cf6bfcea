package ports

import (
	"context"

	"github.com/campusboard/board-api/internal/core/domain"
)

// UpdateUserInput carries a partial user update. Nil fields are unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *domain.Role
}

// UserService defines account management operations. Every call carries the
// requester identity; the service enforces ownership.
type UserService interface {
	Get(ctx context.Context, actor domain.Identity, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}
