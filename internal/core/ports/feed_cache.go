package ports

import (
	"context"

	"github.com/campusboard/board-api/internal/core/domain"
)

// FeedCache caches the public (approved) post listing. Implementations
// fail safe: errors are reported but callers treat them as misses.
//
// Entries belong to a generation. Invalidate starts a new one, and Set
// drops writes made under an older generation, so a listing read from the
// store before an invalidation is never cached after it.
type FeedCache interface {
	// Get returns the cached feed for categoryID (0 = all categories) and the
	// generation current at lookup time. On a miss the caller loads the feed
	// and passes that generation back to Set.
	Get(ctx context.Context, categoryID int64) (posts []domain.PostView, gen int64, ok bool, err error)
	Set(ctx context.Context, gen, categoryID int64, posts []domain.PostView) error
	// Invalidate retires every cached feed variant.
	Invalidate(ctx context.Context) error
}
