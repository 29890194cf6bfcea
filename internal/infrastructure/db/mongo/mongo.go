package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusboard/board-api/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetAppName("board-api"))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

var (
	_ ports.UserRepository     = (*UserRepository)(nil)
	_ ports.PostRepository     = (*PostRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
)

// Store groups the repositories that share one database.
type Store struct {
	Users      *UserRepository
	Posts      *PostRepository
	Categories *CategoryRepository
}

func NewStore(db *mongo.Database) *Store {
	counters := db.Collection(collectionCounters)
	return &Store{
		Users:      NewUserRepository(db, counters),
		Posts:      NewPostRepository(db, counters),
		Categories: NewCategoryRepository(db, counters),
	}
}

// EnsureIndexes creates the indexes every repository relies on, including
// the unique constraints on user email and category name.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for name, ensure := range map[string]func(context.Context) error{
		collectionUsers:      s.Users.EnsureIndexes,
		collectionPosts:      s.Posts.EnsureIndexes,
		collectionCategories: s.Categories.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
