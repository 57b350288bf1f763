package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hualinpp/threadhub/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Service keeps the search index in step with the primary store. The index
// is derived and non-authoritative, so unlike the interaction engine this
// service favors availability: connectivity is retried with backoff, partial
// bulk failures are logged, and exhaustion degrades search instead of taking
// the system down.
type Service struct {
	index       domain.SearchIndex
	store       domain.Store
	available   atomic.Bool
	backoffBase time.Duration
}

var _ domain.SearchUsecase = (*Service)(nil)

// NewService will create a new search sync service object. backoffBase is
// the unit of the exponential backoff between bootstrap attempts.
func NewService(index domain.SearchIndex, store domain.Store, backoffBase time.Duration) *Service {
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	return &Service{
		index:       index,
		store:       store,
		backoffBase: backoffBase,
	}
}

// Bootstrap connects to the index store with bounded retries, backing off
// 2^(attempt-1) units between attempts. On success it ensures the index
// schemas exist and bulk re-syncs all posts and users; on exhaustion it logs
// and returns, leaving search degraded. It never fails the caller.
func (s *Service) Bootstrap(ctx context.Context, maxRetries int) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.setup(ctx)
		if err == nil {
			s.available.Store(true)
			logrus.Info("search index ready")
			return
		}
		logrus.Errorf("search bootstrap failed (attempt %d/%d): %v", attempt, maxRetries, err)

		if attempt == maxRetries {
			break
		}
		wait := s.backoffBase * (1 << (attempt - 1))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			logrus.Warn("search bootstrap cancelled")
			return
		}
	}
	logrus.Warn("search bootstrap retries exhausted, serving without search")
}

func (s *Service) setup(ctx context.Context) error {
	if err := s.index.Ping(ctx); err != nil {
		return err
	}

	for _, name := range []string{domain.IndexPosts, domain.IndexUsers} {
		exists, err := s.index.IndexExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.index.CreateIndex(ctx, name); err != nil {
			return err
		}
		logrus.Infof("created search index %q", name)
	}

	s.bulkSyncAll(ctx)
	return nil
}

// bulkSyncAll re-syncs every post and user. A failed bulk is logged, not
// returned: the bootstrap sequence continues and the index converges on the
// next sync.
func (s *Service) bulkSyncAll(ctx context.Context) {
	users, err := s.store.FetchAllUsers(ctx)
	if err != nil {
		logrus.Errorf("failed to load users for index sync: %v", err)
		return
	}
	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	posts, err := s.store.FetchAllPosts(ctx)
	if err != nil {
		logrus.Errorf("failed to load posts for index sync: %v", err)
		return
	}

	if len(posts) > 0 {
		docs := make([]domain.BulkDoc, len(posts))
		for i := range posts {
			posts[i].User = userMap[posts[i].User.ID]
			doc := domain.NewPostDocument(posts[i])
			docs[i] = domain.BulkDoc{ID: doc.ID, Body: doc}
		}
		if err := s.index.BulkUpsert(ctx, domain.IndexPosts, docs, true); err != nil {
			logrus.Errorf("post bulk sync failed: %v", err)
		} else {
			logrus.Infof("synced %d posts to the search index", len(posts))
		}
	}

	if len(users) > 0 {
		docs := make([]domain.BulkDoc, len(users))
		for i := range users {
			doc := domain.NewUserDocument(users[i])
			docs[i] = domain.BulkDoc{ID: doc.ID, Body: doc}
		}
		if err := s.index.BulkUpsert(ctx, domain.IndexUsers, docs, true); err != nil {
			logrus.Errorf("user bulk sync failed: %v", err)
		} else {
			logrus.Infof("synced %d users to the search index", len(users))
		}
	}
}

// Available reports whether the search index is usable.
func (s *Service) Available() bool {
	return s.available.Load()
}

func pageToRange(page, pageSize int64) (from, size int64) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

func (s *Service) SearchPosts(ctx context.Context, query string, page, pageSize int64) ([]domain.PostDocument, int64, error) {
	if !s.available.Load() {
		return nil, 0, domain.ErrIndexUnavailable
	}

	from, size := pageToRange(page, pageSize)
	res, total, err := s.index.SearchPosts(ctx, query, from, size)
	if err != nil {
		logrus.Errorf("post search failed: %v", err)
		return nil, 0, domain.ErrIndexUnavailable
	}
	return res, total, nil
}

func (s *Service) SearchUsers(ctx context.Context, query string, page, pageSize int64) ([]domain.UserDocument, int64, error) {
	if !s.available.Load() {
		return nil, 0, domain.ErrIndexUnavailable
	}

	from, size := pageToRange(page, pageSize)
	res, total, err := s.index.SearchUsers(ctx, query, from, size)
	if err != nil {
		logrus.Errorf("user search failed: %v", err)
		return nil, 0, domain.ErrIndexUnavailable
	}
	return res, total, nil
}
