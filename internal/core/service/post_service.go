package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

// PostService implements post publishing and moderation.
type PostService struct {
	posts      ports.PostRepository
	users      ports.UserRepository
	categories ports.CategoryRepository
	feed       ports.FeedCache
	log        zerolog.Logger
	now        func() time.Time
}

// NewPostService wires the post use cases. feed may be nil, in which case
// the public listing is always read from the repository.
func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	categories ports.CategoryRepository,
	feed ports.FeedCache,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		users:      users,
		categories: categories,
		feed:       feed,
		log:        log,
		now:        time.Now,
	}
}

// Create stores a new post authored by actor. Every post starts pending.
func (s *PostService) Create(ctx context.Context, actor domain.Identity, in ports.CreatePostInput) (*domain.PostView, error) {
	title, body := cleanText(in.Title), cleanRichText(in.Body)
	if title == "" || body == "" {
		return nil, domain.Validation("title and body are required")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	authorID := actor.SubjectID
	post := &domain.Post{
		Title:      title,
		Body:       body,
		Status:     domain.StatusPending,
		AuthorID:   &authorID,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.log.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	s.log.Info().Int64("post_id", post.ID).Int64("author_id", authorID).Msg("post created")
	return s.view(ctx, post)
}

// ListPublic returns approved posts only. A cache miss is refilled with the
// generation seen at lookup, so a listing that an edit, deletion or decision
// outdated while it was loading is not written back.
func (s *PostService) ListPublic(ctx context.Context, categoryID int64) ([]domain.PostView, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.feed != nil {
		cached, g, ok, err := s.feed.Get(ctx, categoryID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("feed cache read failed")
		case ok:
			return cached, nil
		default:
			gen, cacheable = g, true
		}
	}

	filter := ports.ListPostsFilter{Status: domain.StatusApproved}
	if categoryID != 0 {
		filter.CategoryID = &categoryID
	}
	views, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.feed.Set(ctx, gen, categoryID, views); err != nil {
			s.log.Warn().Err(err).Msg("feed cache write failed")
		}
	}
	return views, nil
}

// GetPublic returns a single approved post. Posts that are not publicly
// visible are reported as not found.
func (s *PostService) GetPublic(ctx context.Context, id int64) (*domain.PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.PubliclyVisible() {
		return nil, domain.ErrPostNotFound
	}
	return s.view(ctx, post)
}

// ListMine returns every post authored by actor regardless of status.
func (s *PostService) ListMine(ctx context.Context, actor domain.Identity) ([]domain.PostView, error) {
	authorID := actor.SubjectID
	return s.list(ctx, ports.ListPostsFilter{AuthorID: &authorID})
}

// ListPending returns the moderation queue, oldest first.
func (s *PostService) ListPending(ctx context.Context, actor domain.Identity) ([]domain.PostView, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListPostsFilter{Status: domain.StatusPending, OldestFirst: true})
}

// Update edits a post owned by actor (or any post, for admins). Only pending
// posts can be edited: approved and rejected are final, so an edit never
// reopens a moderated post. The store applies the edit only while the post
// is still pending, which also covers a decision landing mid-edit.
func (s *PostService) Update(ctx context.Context, actor domain.Identity, id int64, in ports.UpdatePostInput) (*domain.PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanMutate(actor, post.AuthorID); err != nil {
		return nil, err
	}
	if post.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyModerated
	}

	if in.Title != nil {
		if post.Title = cleanText(*in.Title); post.Title == "" {
			return nil, domain.Validation("title must not be empty")
		}
	}
	if in.Body != nil {
		if post.Body = cleanRichText(*in.Body); post.Body == "" {
			return nil, domain.Validation("body must not be empty")
		}
	}
	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = *in.CategoryID
	}
	post.UpdatedAt = s.now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Int64("post_id", id).Int64("actor_id", actor.SubjectID).Msg("post updated")
	return s.view(ctx, post)
}

// Delete removes a post owned by actor (or any post, for admins).
func (s *PostService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.CanMutate(actor, post.AuthorID); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	if post.PubliclyVisible() {
		s.invalidateFeed(ctx)
	}

	s.log.Info().Int64("post_id", id).Int64("actor_id", actor.SubjectID).Msg("post deleted")
	return nil
}

// Moderate records an admin decision on a pending post. Approved and
// rejected are terminal: a post that has already been moderated yields
// domain.ErrAlreadyModerated. The transition is a conditional write, so two
// concurrent decisions cannot both succeed.
func (s *PostService) Moderate(ctx context.Context, actor domain.Identity, id int64, target domain.PostStatus) (*domain.PostView, error) {
	if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !target.IsModerationTarget() {
		return nil, domain.Validation(`status must be "approved" or "rejected"`)
	}

	post, err := s.posts.TransitionStatus(ctx, id, domain.StatusPending, target, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyModerated) {
			s.log.Info().Int64("post_id", id).Str("target", string(target)).Msg("moderation refused: post already moderated")
		}
		return nil, err
	}
	if post.PubliclyVisible() {
		s.invalidateFeed(ctx)
	}

	s.log.Info().
		Int64("post_id", id).
		Int64("moderator_id", actor.SubjectID).
		Str("status", string(target)).
		Msg("post moderated")
	return s.view(ctx, post)
}

func (s *PostService) requireCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.Validation("category_id does not reference an existing category")
		}
		return err
	}
	return nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("feed cache invalidation failed")
	}
}

func (s *PostService) list(ctx context.Context, filter ports.ListPostsFilter) ([]domain.PostView, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, posts)
}

func (s *PostService) view(ctx context.Context, post *domain.Post) (*domain.PostView, error) {
	views, err := s.resolve(ctx, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// resolve attaches author and category summaries. A missing author (deleted
// account) resolves to nil.
func (s *PostService) resolve(ctx context.Context, posts []*domain.Post) ([]domain.PostView, error) {
	authorIDs := make([]int64, 0, len(posts))
	categoryIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		if p.AuthorID != nil {
			authorIDs = append(authorIDs, *p.AuthorID)
		}
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	views := make([]domain.PostView, len(posts))
	for i, p := range posts {
		v := domain.PostView{Post: *p, Category: domain.CategorySummary{ID: p.CategoryID}}
		if p.AuthorID != nil {
			if u, ok := authors[*p.AuthorID]; ok {
				v.Author = &domain.AuthorSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
			}
		}
		if c, ok := categories[p.CategoryID]; ok {
			v.Category.Name = c.Name
		}
		views[i] = v
	}
	return views, nil
}
