package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

// memoryStore backs the router tests. One mutex guards every collection, so
// the unique and conditional writes behave like the real indexes.
type memoryStore struct {
	mu         sync.Mutex
	seq        int64
	users      map[int64]domain.User
	posts      map[int64]domain.Post
	categories map[int64]domain.Category
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      make(map[int64]domain.User),
		posts:      make(map[int64]domain.Post),
		categories: make(map[int64]domain.Category),
	}
}

func (s *memoryStore) next() int64 {
	s.seq++
	return s.seq
}

type memoryUsers struct{ *memoryStore }

func (r memoryUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	u.ID = r.next()
	r.users[u.ID] = *u
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memoryUsers) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r memoryUsers) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryUsers) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r memoryUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type memoryCategories struct{ *memoryStore }

func (r memoryCategories) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrCategoryExists
		}
	}
	c.ID = r.next()
	r.categories[c.ID] = *c
	return nil
}

func (r memoryCategories) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r memoryCategories) FindByIDs(_ context.Context, ids []int64) (map[int64]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]*domain.Category)
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			out[id] = &c
		}
	}
	return out, nil
}

func (r memoryCategories) List(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryCategories) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.categories[c.ID] = *c
	return nil
}

func (r memoryCategories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type memoryPosts struct{ *memoryStore }

func (r memoryPosts) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.next()
	r.posts[p.ID] = *p
	return nil
}

func (r memoryPosts) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &p, nil
}

func (r memoryPosts) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.posts {
		p := p
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.AuthorID != nil && (p.AuthorID == nil || *p.AuthorID != *f.AuthorID) {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.OldestFirst {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memoryPosts) Update(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if stored.Status != domain.StatusPending {
		return domain.ErrAlreadyModerated
	}
	stored.Title, stored.Body, stored.CategoryID, stored.UpdatedAt = p.Title, p.Body, p.CategoryID, p.UpdatedAt
	r.posts[p.ID] = stored
	return nil
}

func (r memoryPosts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r memoryPosts) TransitionStatus(_ context.Context, id int64, from, to domain.PostStatus, at time.Time) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if p.Status != from {
		return nil, domain.ErrAlreadyModerated
	}
	p.Status, p.UpdatedAt = to, at
	r.posts[id] = p
	return &p, nil
}

func (r memoryPosts) OrphanByAuthor(_ context.Context, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.AuthorID != nil && *p.AuthorID == authorID {
			p.AuthorID = nil
			r.posts[id] = p
		}
	}
	return nil
}

func (r memoryPosts) CountByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}
