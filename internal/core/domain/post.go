package domain

import "time"

// PostStatus represents the moderation state of a post.
type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusApproved PostStatus = "approved"
	StatusRejected PostStatus = "rejected"
)

// validTransitions defines the moderation state machine. Approved and
// rejected are terminal.
var validTransitions = map[PostStatus][]PostStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether moderation may move a post from s to next.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsModerationTarget reports whether s is a valid moderation decision.
func (s PostStatus) IsModerationTarget() bool {
	return s == StatusApproved || s == StatusRejected
}

// Post is a user-submitted content item.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Status     PostStatus `json:"status"`
	AuthorID   *int64     `json:"author_id"` // nil once the author account is deleted
	CategoryID int64      `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PubliclyVisible reports whether the post belongs in the public listing.
func (p *Post) PubliclyVisible() bool {
	return p.Status == StatusApproved
}

// AuthorSummary is the public projection of a post's author.
type AuthorSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CategorySummary is the public projection of a post's category.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PostView is a post with its references resolved at read time.
type PostView struct {
	Post
	Author   *AuthorSummary  `json:"author"`
	Category CategorySummary `json:"category"`
}
