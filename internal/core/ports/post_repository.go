package ports

import (
	"context"
	"time"

	"github.com/campusboard/board-api/internal/core/domain"
)

// ListPostsFilter narrows a post listing. Zero values mean "no filter".
type ListPostsFilter struct {
	Status      domain.PostStatus
	AuthorID    *int64
	CategoryID  *int64
	OldestFirst bool // default ordering is newest first
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create assigns the post an id and stores it.
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, error)
	// Update stores the editable fields (title, body, category, updated_at)
	// of a post that is still pending. It returns domain.ErrPostNotFound when
	// the post does not exist and domain.ErrAlreadyModerated when it has left
	// the pending state.
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) error

	// TransitionStatus atomically sets the status to `to` only if the stored
	// status is still `from`. It returns domain.ErrPostNotFound when the post
	// does not exist and domain.ErrAlreadyModerated when the status differs.
	TransitionStatus(ctx context.Context, id int64, from, to domain.PostStatus, at time.Time) (*domain.Post, error)

	// OrphanByAuthor clears the author reference on every post by authorID.
	OrphanByAuthor(ctx context.Context, authorID int64) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}
