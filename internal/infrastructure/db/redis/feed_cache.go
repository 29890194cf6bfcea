package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusboard/board-api/internal/api/metrics"
	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

const (
	// genKey counts invalidations. Entry keys embed the generation they were
	// written under, so bumping it retires every cached variant at once.
	genKey         = "feed:gen"
	entryPrefix    = "feed:public:"
	defaultFeedTTL = time.Minute
)

// FeedCache stores the approved post listing in Redis. A nil *FeedCache is a
// permanently empty cache.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.FeedCache = (*FeedCache)(nil)

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl <= 0 {
		ttl = defaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

func field(categoryID int64) string {
	if categoryID == 0 {
		return "all"
	}
	return "category:" + strconv.FormatInt(categoryID, 10)
}

func entryKey(gen, categoryID int64) string {
	return entryPrefix + strconv.FormatInt(gen, 10) + ":" + field(categoryID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// generation reads the current generation. A missing counter is generation 0.
func generation(ctx context.Context, r getter) (int64, error) {
	gen, err := r.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached listing for categoryID. A missing entry is a miss,
// not an error.
func (c *FeedCache) Get(ctx context.Context, categoryID int64) ([]domain.PostView, int64, bool, error) {
	if c == nil || c.client == nil {
		return nil, 0, false, nil
	}

	gen, err := generation(ctx, c.client)
	if err != nil {
		metrics.FeedCacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("feed cache generation: %w", err)
	}

	raw, err := c.client.Get(ctx, entryKey(gen, categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.FeedCacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, gen, false, nil
	}
	if err != nil {
		metrics.FeedCacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("feed cache get: %w", err)
	}

	var views []domain.PostView
	if err := json.Unmarshal(raw, &views); err != nil {
		metrics.FeedCacheRequestsTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("feed cache decode: %w", err)
	}
	metrics.FeedCacheRequestsTotal.WithLabelValues("hit").Inc()
	return views, gen, true, nil
}

// Set stores the listing for categoryID with its own expiry. The write runs
// under WATCH on the generation counter and is skipped when the feed was
// invalidated after gen was read.
func (c *FeedCache) Set(ctx context.Context, gen, categoryID int64, views []domain.PostView) error {
	if c == nil || c.client == nil {
		return nil
	}
	if views == nil {
		views = []domain.PostView{}
	}

	raw, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("feed cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entryKey(gen, categoryID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Invalidated between the check and the write.
		return nil
	}
	if err != nil {
		return fmt.Errorf("feed cache set: %w", err)
	}
	return nil
}

// Invalidate starts a new generation. Entries of older generations are no
// longer read and expire on their own.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("feed cache invalidate: %w", err)
	}
	return nil
}
