package domain

import (
	"context"
	"time"
)

const (
	// HotPostLimit is the size of the ranked hot-posts snapshot.
	HotPostLimit = 100
	// HotPostTTL bounds the staleness of the snapshot.
	HotPostTTL = 600 * time.Second
)

// HotPost is one entry of the ranked hot-posts snapshot, with the author
// display fields denormalized so the read path touches nothing but the cache.
type HotPost struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UserName      string    `json:"user_name"`
	AccountName   string    `json:"account_name"`
	AvatarURL     string    `json:"avatar_url"`
}

// HotPostCache is the cache adapter contract for the hot-posts snapshot.
// The snapshot is replaced wholesale; readers see either the old list or the
// new one, never a partial write.
type HotPostCache interface {
	// GetHotPosts returns the cached snapshot.
	// Returns ErrCacheMiss when absent or expired.
	GetHotPosts(ctx context.Context) ([]HotPost, error)

	// SetHotPosts replaces the snapshot with the given ttl.
	SetHotPosts(ctx context.Context, posts []HotPost, ttl time.Duration) error

	// DeleteHotPosts drops the snapshot.
	DeleteHotPosts(ctx context.Context) error
}

// HotPostUsecase serves the ranked hot-posts list.
type HotPostUsecase interface {
	// GetHotPosts serves the snapshot from cache. On a miss it triggers
	// recomputation in the background and returns an empty list
	// immediately; the caller never waits for a full recompute.
	GetHotPosts(ctx context.Context) ([]HotPost, error)

	// Recompute reads the ranked top posts from the primary store and
	// replaces the cached snapshot.
	Recompute(ctx context.Context) error
}
