package hot

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hualinpp/threadhub/domain"
)

const (
	recomputeTimeout = 30 * time.Second
	recomputeKey     = "hot:recompute"
)

// Service maintains the ranked hot-posts snapshot: a scheduled recompute
// keeps it warm, a cache miss fires one in the background, and the read path
// never waits for it.
type Service struct {
	store domain.Store
	cache domain.HotPostCache
	group singleflight.Group
}

var _ domain.HotPostUsecase = (*Service)(nil)

// NewService will create a new hot post service object
func NewService(store domain.Store, cache domain.HotPostCache) *Service {
	return &Service{
		store: store,
		cache: cache,
	}
}

func (s *Service) GetHotPosts(ctx context.Context) ([]domain.HotPost, error) {
	res, err := s.cache.GetHotPosts(ctx)
	if err == nil {
		return res, nil
	}

	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Errorf("failed to get hot posts from cache: %v", err)
	}

	// Cold start or lapsed TTL: kick a recompute and serve empty rather
	// than blocking the caller on a full ranking pass.
	go s.recomputeAsync()
	return []domain.HotPost{}, nil
}

// Recompute reads the ranked top posts with their author summaries and
// replaces the snapshot wholesale.
func (s *Service) Recompute(ctx context.Context) error {
	posts, err := s.store.FetchHottestPosts(ctx, domain.HotPostLimit)
	if err != nil {
		return err
	}

	userIDs := make([]int64, 0, len(posts))
	seen := make(map[int64]bool)
	for i := range posts {
		if !seen[posts[i].User.ID] {
			userIDs = append(userIDs, posts[i].User.ID)
			seen[posts[i].User.ID] = true
		}
	}
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	entries := make([]domain.HotPost, len(posts))
	for i := range posts {
		author := userMap[posts[i].User.ID]
		entries[i] = domain.HotPost{
			ID:            posts[i].ID,
			Content:       posts[i].Content,
			LikesCount:    posts[i].LikesCount,
			CommentsCount: posts[i].CommentsCount,
			CreatedAt:     posts[i].CreatedAt,
			UserName:      author.UserName,
			AccountName:   author.AccountName,
			AvatarURL:     author.AvatarURL,
		}
	}

	return s.cache.SetHotPosts(ctx, entries, domain.HotPostTTL)
}

// recomputeAsync runs one recompute, deduplicating concurrent triggers from
// parallel cache misses.
func (s *Service) recomputeAsync() {
	_, err, _ := s.group.Do(recomputeKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()
		return nil, s.Recompute(ctx)
	})
	if err != nil {
		logrus.Errorf("hot posts recompute failed: %v", err)
	}
}
