package ports

import (
	"context"

	"github.com/campusboard/board-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
// Name uniqueness is enforced atomically by the store: Create and Update
// return domain.ErrCategoryExists on a duplicate name.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
}
