package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hualinpp/threadhub/domain"
	mysqlRepo "github.com/hualinpp/threadhub/internal/repository/mysql"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
	"github.com/hualinpp/threadhub/internal/usecase/search"
)

// fakeIndex is an in-memory stand-in for the search index adapter.
type fakeIndex struct {
	mu sync.Mutex

	pingErr      error
	pingCalls    int
	existing     map[string]bool
	createCalls  []string
	bulkErr      error
	bulkByIndex  map[string][]domain.BulkDoc
	searchErr    error
	searchedFrom int64
	searchedSize int64
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		existing:    map[string]bool{},
		bulkByIndex: map[string][]domain.BulkDoc{},
	}
}

func (f *fakeIndex) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeIndex) IndexExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[name], nil
}

func (f *fakeIndex) CreateIndex(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, name)
	f.existing[name] = true
	return nil
}

func (f *fakeIndex) BulkUpsert(ctx context.Context, index string, docs []domain.BulkDoc, refresh bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulkByIndex[index] = append(f.bulkByIndex[index], docs...)
	return nil
}

func (f *fakeIndex) DeleteDoc(ctx context.Context, index, docID string) error {
	return nil
}

func (f *fakeIndex) SearchPosts(ctx context.Context, query string, from, size int64) ([]domain.PostDocument, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	f.searchedFrom, f.searchedSize = from, size
	return []domain.PostDocument{{Content: "match"}}, 1, nil
}

func (f *fakeIndex) SearchUsers(ctx context.Context, query string, from, size int64) ([]domain.UserDocument, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return []domain.UserDocument{{UserName: "alice"}}, 1, nil
}

func newTestStore(t *testing.T) *mysqlRepo.Store {
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
	return store
}

func seedCorpus(t *testing.T, store *mysqlRepo.Store) {
	t.Helper()

	u := model.User{UserName: faker.Name(), AccountName: faker.Username(), IsPublic: true}
	require.NoError(t, store.DB.Create(&u).Error)
	for i := 0; i < 3; i++ {
		p := model.Post{UserID: u.ID, Content: faker.Sentence()}
		require.NoError(t, store.DB.Create(&p).Error)
	}
}

func TestBootstrapCreatesMissingIndexes(t *testing.T) {
	idx := newFakeIndex()
	store := newTestStore(t)
	seedCorpus(t, store)
	svc := search.NewService(idx, store, time.Millisecond)

	svc.Bootstrap(context.Background(), 3)

	assert.True(t, svc.Available())
	assert.ElementsMatch(t, []string{domain.IndexPosts, domain.IndexUsers}, idx.createCalls)
	assert.Len(t, idx.bulkByIndex[domain.IndexPosts], 3)
	assert.Len(t, idx.bulkByIndex[domain.IndexUsers], 1)
}

func TestBootstrapSkipsExistingIndexes(t *testing.T) {
	idx := newFakeIndex()
	idx.existing[domain.IndexPosts] = true
	idx.existing[domain.IndexUsers] = true
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Millisecond)

	svc.Bootstrap(context.Background(), 3)

	assert.True(t, svc.Available())
	assert.Empty(t, idx.createCalls)
}

func TestBootstrapRetriesThenDegrades(t *testing.T) {
	idx := newFakeIndex()
	idx.pingErr = errors.New("connection refused")
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Millisecond)

	svc.Bootstrap(context.Background(), 3)

	assert.False(t, svc.Available())
	assert.Equal(t, 3, idx.pingCalls)

	// a degraded service refuses queries instead of hanging
	_, _, err := svc.SearchPosts(context.Background(), "anything", 1, 10)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestBootstrapRecoversOnLaterAttempt(t *testing.T) {
	idx := newFakeIndex()
	idx.pingErr = errors.New("starting up")
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Millisecond)

	go func() {
		time.Sleep(5 * time.Millisecond)
		idx.mu.Lock()
		idx.pingErr = nil
		idx.mu.Unlock()
	}()

	svc.Bootstrap(context.Background(), 10)
	assert.True(t, svc.Available())
}

func TestBootstrapHonorsCancellation(t *testing.T) {
	idx := newFakeIndex()
	idx.pingErr = errors.New("down")
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Bootstrap(ctx, 5)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap did not stop on cancellation")
	}
	assert.False(t, svc.Available())
}

func TestBootstrapToleratesBulkFailure(t *testing.T) {
	idx := newFakeIndex()
	idx.bulkErr = errors.New("bulk rejected")
	store := newTestStore(t)
	seedCorpus(t, store)
	svc := search.NewService(idx, store, time.Millisecond)

	svc.Bootstrap(context.Background(), 3)

	// the index store is reachable, so search stays up even though the
	// initial sync did not land
	assert.True(t, svc.Available())
}

func TestSearchPostsPaging(t *testing.T) {
	idx := newFakeIndex()
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Millisecond)
	svc.Bootstrap(context.Background(), 1)

	docs, total, err := svc.SearchPosts(context.Background(), "hello", 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, docs, 1)
	assert.Equal(t, int64(40), idx.searchedFrom)
	assert.Equal(t, int64(20), idx.searchedSize)

	// out-of-range params fall back to defaults
	_, _, err = svc.SearchPosts(context.Background(), "hello", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), idx.searchedFrom)
	assert.Equal(t, int64(10), idx.searchedSize)
}

func TestSearchErrorsDegrade(t *testing.T) {
	idx := newFakeIndex()
	store := newTestStore(t)
	svc := search.NewService(idx, store, time.Millisecond)
	svc.Bootstrap(context.Background(), 1)

	idx.mu.Lock()
	idx.searchErr = errors.New("shard failure")
	idx.mu.Unlock()

	_, _, err := svc.SearchPosts(context.Background(), "hello", 1, 10)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	_, _, err = svc.SearchUsers(context.Background(), "alice", 1, 10)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}
