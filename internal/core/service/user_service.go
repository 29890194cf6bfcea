package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

// UserService implements account management behind the ownership gate.
type UserService struct {
	users  ports.UserRepository
	posts  ports.PostRepository
	hasher ports.PasswordHasher
	feed   ports.FeedCache
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, posts ports.PostRepository, hasher ports.PasswordHasher, feed ports.FeedCache, log zerolog.Logger) *UserService {
	return &UserService{users: users, posts: posts, hasher: hasher, feed: feed, log: log}
}

// Get returns the account with id if actor owns it or is an admin.
func (s *UserService) Get(ctx context.Context, actor domain.Identity, id int64) (*domain.User, error) {
	if err := domain.CanMutate(actor, &id); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update. Changing a role requires the admin role,
// even on one's own account.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.CanMutate(actor, &id); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != user.Role {
		if err := domain.Authorize(actor, domain.RoleAdmin); err != nil {
			return nil, err
		}
		if !in.Role.Valid() {
			return nil, domain.Validation("role must be one of: participant, organizer, admin")
		}
		user.Role = *in.Role
	}

	namesChanged := false
	if in.FirstName != nil {
		if user.FirstName = cleanText(*in.FirstName); user.FirstName == "" {
			return nil, domain.Validation("first name must not be empty")
		}
		namesChanged = true
	}
	if in.LastName != nil {
		if user.LastName = cleanText(*in.LastName); user.LastName == "" {
			return nil, domain.Validation("last name must not be empty")
		}
		namesChanged = true
	}
	if in.Email != nil {
		if user.Email = normalizeEmail(*in.Email); user.Email == "" {
			return nil, domain.Validation("email must not be empty")
		}
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, domain.Validation("password must be at least 8 characters")
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if namesChanged {
		s.invalidateFeed(ctx)
	}

	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.SubjectID).Msg("user updated")
	return user, nil
}

// Delete removes the account. Posts it authored stay in place with no
// author.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	if err := domain.CanMutate(actor, &id); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	// Authorship goes first: a post must never keep pointing at a deleted
	// account whose token is still valid.
	if err := s.posts.OrphanByAuthor(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("failed to orphan posts, user kept")
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateFeed(ctx)

	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.SubjectID).Msg("user deleted")
	return nil
}

func (s *UserService) invalidateFeed(ctx context.Context) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("feed cache invalidation failed")
	}
}
