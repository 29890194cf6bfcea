package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

// CategoryService implements category management. Name uniqueness is left
// to the repository's atomic constraint; there is no pre-check.
type CategoryService struct {
	categories ports.CategoryRepository
	posts      ports.PostRepository
	feed       ports.FeedCache
	log        zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, posts ports.PostRepository, feed ports.FeedCache, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, feed: feed, log: log}
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	if in.Name == nil {
		return nil, domain.Validation("name is required")
	}
	name := cleanText(*in.Name)
	if name == "" {
		return nil, domain.Validation("name is required")
	}

	category := &domain.Category{Name: name, Description: cleanOptional(in.Description)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info().Int64("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if category.Name = cleanText(*in.Name); category.Name == "" {
			return nil, domain.Validation("name must not be empty")
		}
	}
	if in.Description != nil {
		category.Description = cleanOptional(in.Description)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	s.log.Info().Int64("category_id", id).Msg("category updated")
	return category, nil
}

// Delete removes a category that no post references.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.posts.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) invalidateFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("feed cache invalidation failed")
	}
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := cleanText(*s)
	if v == "" {
		return nil
	}
	return &v
}
