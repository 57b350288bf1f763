package hot_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-faker/faker/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hualinpp/threadhub/domain"
	mysqlRepo "github.com/hualinpp/threadhub/internal/repository/mysql"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
	redisRepo "github.com/hualinpp/threadhub/internal/repository/redis"
	"github.com/hualinpp/threadhub/internal/usecase/hot"
)

type fixture struct {
	store *mysqlRepo.Store
	mr    *miniredis.Miniredis
	cache domain.HotPostCache
	svc   *hot.Service
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

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := redisRepo.NewHotPostCache(client)
	return &fixture{
		store: store,
		mr:    mr,
		cache: cache,
		svc:   hot.NewService(store, cache),
	}
}

func (f *fixture) seedRankedPosts(t *testing.T) {
	t.Helper()

	u := model.User{UserName: faker.Name(), AccountName: faker.Username(), IsPublic: true}
	require.NoError(t, f.store.DB.Create(&u).Error)

	posts := []model.Post{
		{UserID: u.ID, Content: "third", LikesCount: 1, CreatedAt: time.Now()},
		{UserID: u.ID, Content: "first", LikesCount: 9, CreatedAt: time.Now()},
		{UserID: u.ID, Content: "second", LikesCount: 4, CreatedAt: time.Now()},
	}
	for i := range posts {
		require.NoError(t, f.store.DB.Create(&posts[i]).Error)
	}
}

func TestRecomputeBuildsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRankedPosts(t)

	require.NoError(t, f.svc.Recompute(ctx))

	got, err := f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
	assert.Equal(t, "third", got[2].Content)
	assert.NotEmpty(t, got[0].UserName)

	ttl := f.mr.TTL(redisRepo.KeyHotPosts)
	assert.Equal(t, domain.HotPostTTL, ttl)
}

func TestGetHotPostsMissServesEmptyAndWarms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRankedPosts(t)

	// cold cache: the caller gets an empty list immediately
	got, err := f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// the background recompute fills the snapshot shortly after
	assert.Eventually(t, func() bool {
		return f.mr.Exists(redisRepo.KeyHotPosts)
	}, 2*time.Second, 10*time.Millisecond)

	got, err = f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSnapshotExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedRankedPosts(t)

	require.NoError(t, f.svc.Recompute(ctx))
	f.mr.FastForward(domain.HotPostTTL + time.Second)

	got, err := f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecomputeEmptyStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Recompute(ctx))

	got, err := f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecomputeCapsSnapshotAtLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := model.User{UserName: faker.Name(), AccountName: faker.Username(), IsPublic: true}
	require.NoError(t, f.store.DB.Create(&u).Error)

	// 150 candidates with distinct like counts so the rank order is total
	for i := 0; i < 150; i++ {
		p := model.Post{
			UserID:     u.ID,
			Content:    faker.Sentence(),
			LikesCount: int64(i),
			CreatedAt:  time.Now(),
		}
		require.NoError(t, f.store.DB.Create(&p).Error)
	}

	require.NoError(t, f.svc.Recompute(ctx))

	got, err := f.svc.GetHotPosts(ctx)
	require.NoError(t, err)
	require.Len(t, got, domain.HotPostLimit)
	assert.Equal(t, int64(149), got[0].LikesCount)
	assert.Equal(t, int64(50), got[domain.HotPostLimit-1].LikesCount)
}
