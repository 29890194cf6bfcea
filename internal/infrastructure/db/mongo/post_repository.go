package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewPostRepository(db *mongo.Database, counters *mongo.Collection) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts), counters: counters}
}

type postDoc struct {
	ID         int64     `bson:"_id"`
	Title      string    `bson:"title"`
	Body       string    `bson:"body"`
	Status     string    `bson:"status"`
	AuthorID   *int64    `bson:"author_id"`
	CategoryID int64     `bson:"category_id"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toPostDoc(p *domain.Post) postDoc {
	return postDoc{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		Status:     string(p.Status),
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:         d.ID,
		Title:      d.Title,
		Body:       d.Body,
		Status:     domain.PostStatus(d.Status),
		AuthorID:   d.AuthorID,
		CategoryID: d.CategoryID,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.counters, collectionPosts)
	if err != nil {
		return err
	}

	doc := toPostDoc(p)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = id
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns posts matching f, newest first unless f.OldestFirst is set.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.AuthorID != nil {
		filter["author_id"] = *f.AuthorID
	}
	if f.CategoryID != nil {
		filter["category_id"] = *f.CategoryID
	}

	order := -1
	if f.OldestFirst {
		order = 1
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: order}}))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toDomain()
	}
	return posts, nil
}

// Update writes the editable fields only while the post is pending.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": p.ID, "status": string(domain.StatusPending)},
		bson.M{"$set": bson.M{
			"title":       p.Title,
			"body":        p.Body,
			"category_id": p.CategoryID,
			"updated_at":  p.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrModerated(ctx, p.ID)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// TransitionStatus moves a post from one status to another in a single
// conditional write. When no document matches, a follow-up lookup tells a
// missing post apart from one whose status has already moved on.
func (r *PostRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.PostStatus, at time.Time) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transition post: %w", err)
	}

	return nil, r.missOrModerated(ctx, id)
}

// missOrModerated explains a conditional write that matched nothing.
func (r *PostRepository) missOrModerated(ctx context.Context, id int64) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count post: %w", err)
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return domain.ErrAlreadyModerated
}

// OrphanByAuthor clears the author reference on every post by authorID.
func (r *PostRepository) OrphanByAuthor(ctx context.Context, authorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"author_id": authorID},
		bson.M{"$set": bson.M{"author_id": nil}},
	)
	if err != nil {
		return fmt.Errorf("orphan posts: %w", err)
	}
	return nil
}

func (r *PostRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	})
	return err
}
