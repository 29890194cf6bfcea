package ports

import (
	"context"

	"github.com/campusboard/board-api/internal/core/domain"
)

// CategoryInput carries category fields. On update nil fields are unchanged.
type CategoryInput struct {
	Name        *string
	Description *string
}

// CategoryService defines category operations.
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
