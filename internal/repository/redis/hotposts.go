package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hualinpp/threadhub/domain"
)

const KeyHotPosts = "hot:posts"

type hotPostCache struct {
	client *redis.Client
}

var _ domain.HotPostCache = (*hotPostCache)(nil)

func NewHotPostCache(client *redis.Client) *hotPostCache {
	return &hotPostCache{client}
}

func (c *hotPostCache) GetHotPosts(ctx context.Context) ([]domain.HotPost, error) {
	data, err := c.client.Get(ctx, KeyHotPosts).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	} else if err != nil {
		return nil, err
	}

	var res []domain.HotPost
	if err = json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// SetHotPosts replaces the snapshot with a single SET: readers observe the
// old list or the new one, never a half-written one.
func (c *hotPostCache) SetHotPosts(ctx context.Context, posts []domain.HotPost, ttl time.Duration) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, KeyHotPosts, data, ttl).Err()
}

func (c *hotPostCache) DeleteHotPosts(ctx context.Context) error {
	return c.client.Del(ctx, KeyHotPosts).Err()
}
