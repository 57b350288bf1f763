package post_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hualinpp/threadhub/domain"
	mysqlRepo "github.com/hualinpp/threadhub/internal/repository/mysql"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
	"github.com/hualinpp/threadhub/internal/usecase/post"
)

// recordingSyncer captures the tasks the engine hands off after a commit.
type recordingSyncer struct {
	mu    sync.Mutex
	tasks []domain.SearchTask
}

func (r *recordingSyncer) Start(ctx context.Context) {}

func (r *recordingSyncer) Send(t domain.SearchTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
}

func (r *recordingSyncer) sent() []domain.SearchTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SearchTask(nil), r.tasks...)
}

type fixture struct {
	store  *mysqlRepo.Store
	syncer *recordingSyncer
	svc    *post.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := mysqlRepo.NewStore(db)
	require.NoError(t, store.Migrate())

	syncer := &recordingSyncer{}
	return &fixture{
		store:  store,
		syncer: syncer,
		svc:    post.NewService(store, syncer),
	}
}

func (f *fixture) seedUser(t *testing.T) domain.User {
	t.Helper()

	u := model.User{
		UserName:    faker.Name(),
		AccountName: faker.Username(),
		AvatarURL:   faker.URL(),
		IsPublic:    true,
	}
	require.NoError(t, f.store.DB.Create(&u).Error)
	return u.ToDomain()
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	_, err := f.svc.CreatePost(ctx, author.ID, "")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	// the bound counts code points, not bytes
	_, err = f.svc.CreatePost(ctx, author.ID, strings.Repeat("字", domain.MaxContentRunes+1))
	assert.ErrorIs(t, err, domain.ErrContentTooLong)

	p, err := f.svc.CreatePost(ctx, author.ID, strings.Repeat("字", domain.MaxContentRunes))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, author.UserName, p.User.UserName)

	tasks := f.syncer.sent()
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.SearchUpsert, tasks[0].Op)
	assert.Equal(t, domain.IndexPosts, tasks[0].Index)
}

func TestUpdatePostOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	stranger := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, "original")
	require.NoError(t, err)

	_, err = f.svc.UpdatePost(ctx, p.ID, stranger.ID, "hijacked")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.UpdatePost(ctx, p.ID, author.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
}

func TestDeletePostCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	fan := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	changed, err := f.svc.LikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, changed)

	c, err := f.svc.AddComment(ctx, p.ID, fan.ID, "nice one")
	require.NoError(t, err)

	// a like on the comment is part of the post's footprint too
	l := domain.Like{UserID: author.ID, TargetID: c.ID, TargetKind: domain.TargetComment}
	require.NoError(t, f.store.CreateLike(ctx, &l))

	require.NoError(t, f.svc.DeletePost(ctx, p.ID, author.ID))

	_, err = f.svc.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	comments, err := f.store.FetchCommentsByPosts(ctx, []int64{p.ID})
	require.NoError(t, err)
	assert.Empty(t, comments)

	likes, err := f.store.CountLikesByTarget(ctx, p.ID, domain.TargetPost)
	require.NoError(t, err)
	assert.Zero(t, likes)

	commentLikes, err := f.store.CountLikesByTarget(ctx, c.ID, domain.TargetComment)
	require.NoError(t, err)
	assert.Zero(t, commentLikes)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	tasks := f.syncer.sent()
	require.NotEmpty(t, tasks)
	last := tasks[len(tasks)-1]
	assert.Equal(t, domain.SearchDelete, last.Op)
	assert.Equal(t, domain.FormatDocID(p.ID), last.DocID)
}

func TestDeletePostByStranger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	stranger := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	err = f.svc.DeletePost(ctx, p.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetPost(ctx, p.ID)
	assert.NoError(t, err)
}

func TestLikePostIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	fan := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	changed, err := f.svc.LikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.LikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventLike, events[0].Kind)
	assert.Equal(t, fan.ID, events[0].SenderID)
}

func TestLikeOwnPostEmitsNoEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	changed, err := f.svc.LikePost(ctx, p.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLikeMissingPost(t *testing.T) {
	f := newFixture(t)
	fan := f.seedUser(t)

	_, err := f.svc.LikePost(context.Background(), 42, fan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnlikePostRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	fan := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	// unliking before liking is a no-op
	changed, err := f.svc.UnlikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = f.svc.LikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = f.svc.UnlikePost(ctx, p.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)

	// the like notification is retracted together with the like
	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestConcurrentLikesFromDistinctUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	const fans = 8
	ids := make([]int64, fans)
	for i := range ids {
		ids[i] = f.seedUser(t).ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.svc.LikePost(ctx, p.ID, userID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(fans), got.LikesCount)

	total, err := f.store.CountLikesByTarget(ctx, p.ID, domain.TargetPost)
	require.NoError(t, err)
	assert.Equal(t, int64(fans), total)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	commenter := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	c, err := f.svc.AddComment(ctx, p.ID, commenter.ID, "well said")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	require.NotNil(t, c.User)
	assert.Equal(t, commenter.UserName, c.User.UserName)

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CommentsCount)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventComment, events[0].Kind)
	assert.Equal(t, c.ID, events[0].Detail.CommentID)
}

func TestAddCommentMissingPost(t *testing.T) {
	f := newFixture(t)
	commenter := f.seedUser(t)

	_, err := f.svc.AddComment(context.Background(), 42, commenter.ID, "into the void")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// the aborted unit must not leave a comment row behind
	comments, err := f.store.FetchCommentsByPosts(context.Background(), []int64{42})
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentOwnPostEmitsNoEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	_, err = f.svc.AddComment(ctx, p.ID, author.ID, "replying to myself")
	require.NoError(t, err)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	commenter := f.seedUser(t)

	var last domain.Post
	for i := 0; i < 12; i++ {
		p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
		require.NoError(t, err)
		last = p
	}
	_, err := f.svc.AddComment(ctx, last.ID, commenter.ID, "first!")
	require.NoError(t, err)

	posts, total, err := f.svc.ListPosts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, posts, 10)

	// newest first, authors and comments resolved
	assert.Equal(t, last.ID, posts[0].ID)
	assert.Equal(t, author.UserName, posts[0].User.UserName)
	require.Len(t, posts[0].Comments, 1)
	require.NotNil(t, posts[0].Comments[0].User)
	assert.Equal(t, commenter.UserName, posts[0].Comments[0].User.UserName)

	rest, _, err := f.svc.ListPosts(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	// out-of-range params fall back to defaults
	posts, _, err = f.svc.ListPosts(ctx, 0, 500)
	require.NoError(t, err)
	assert.Len(t, posts, 10)
}

func TestGetPostNestsReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	commenter := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	root, err := f.svc.AddComment(ctx, p.ID, commenter.ID, "root")
	require.NoError(t, err)

	reply := domain.Comment{PostID: p.ID, UserID: author.ID, Content: "reply", ParentID: root.ID}
	require.NoError(t, f.store.CreateComment(ctx, &reply))

	got, err := f.svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, "reply", got.Comments[0].Replies[0].Content)
}

func TestGetPostStoreOutageIsRetryable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	sqlDB, err := f.store.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// an outage must not masquerade as a missing post
	_, err = f.svc.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, _, err = f.svc.ListPosts(ctx, 1, 10)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUpdatePostRejectsOverlongContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, "original")
	require.NoError(t, err)

	_, err = f.svc.UpdatePost(ctx, p.ID, author.ID, strings.Repeat("字", domain.MaxContentRunes+1))
	assert.ErrorIs(t, err, domain.ErrContentTooLong)

	_, err = f.svc.UpdatePost(ctx, p.ID, author.ID, "")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)
}

func TestAddCommentRejectsOverlongContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.seedUser(t)
	commenter := f.seedUser(t)

	p, err := f.svc.CreatePost(ctx, author.ID, faker.Sentence())
	require.NoError(t, err)

	_, err = f.svc.AddComment(ctx, p.ID, commenter.ID, strings.Repeat("字", domain.MaxContentRunes+1))
	assert.ErrorIs(t, err, domain.ErrContentTooLong)

	// no partial record: no comment row, counter untouched, no event
	comments, err := f.store.FetchCommentsByPosts(ctx, []int64{p.ID})
	require.NoError(t, err)
	assert.Empty(t, comments)

	got, err := f.store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentsCount)

	events, err := f.store.FetchEventsByReceiver(ctx, author.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
