package ports

import (
	"context"

	"github.com/campusboard/board-api/internal/core/domain"
)

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	Title      string
	Body       string
	CategoryID int64
}

// UpdatePostInput carries a partial post edit. Nil fields are unchanged.
type UpdatePostInput struct {
	Title      *string
	Body       *string
	CategoryID *int64
}

// PostService defines post use cases, including moderation.
type PostService interface {
	Create(ctx context.Context, actor domain.Identity, in CreatePostInput) (*domain.PostView, error)
	// ListPublic returns approved posts, newest first. categoryID 0 means all.
	ListPublic(ctx context.Context, categoryID int64) ([]domain.PostView, error)
	GetPublic(ctx context.Context, id int64) (*domain.PostView, error)
	ListMine(ctx context.Context, actor domain.Identity) ([]domain.PostView, error)
	ListPending(ctx context.Context, actor domain.Identity) ([]domain.PostView, error)
	Update(ctx context.Context, actor domain.Identity, id int64, in UpdatePostInput) (*domain.PostView, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
	Moderate(ctx context.Context, actor domain.Identity, id int64, target domain.PostStatus) (*domain.PostView, error)
}
