package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hualinpp/threadhub/domain"
)

type syncSearchWorker struct {
	index  domain.SearchIndex
	search domain.SearchUsecase
	ch     chan domain.SearchTask
}

var _ domain.SearchSyncWorker = (*syncSearchWorker)(nil)

func NewSyncSearchWorker(index domain.SearchIndex, search domain.SearchUsecase) *syncSearchWorker {
	return &syncSearchWorker{
		index:  index,
		search: search,
		ch:     make(chan domain.SearchTask, 1024),
	}
}

// Send enqueues one index mutation without blocking the request path.
func (s *syncSearchWorker) Send(task domain.SearchTask) {
	select {
	case s.ch <- task:
	default:
		logrus.Info("SyncSearchWorker's channel is full, task dropped")
	}
}

func (s *syncSearchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	const batchSize = 100
	batch := make([]domain.SearchTask, 0, batchSize)
	for {
		select {
		case task := <-s.ch:
			batch = append(batch, task)
			if len(batch) == batchSize {
				s.flush(ctx, batch)
				batch = make([]domain.SearchTask, 0, batchSize)
			}
		case <-ticker.C:
			s.flush(ctx, batch)
			batch = make([]domain.SearchTask, 0)
		case <-ctx.Done():
			logrus.Info("shutting down SyncSearchWorker, flushing remaining tasks...")
		drain:
			for {
				select {
				case task := <-s.ch:
					batch = append(batch, task)
				default:
					break drain
				}
			}
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.flush(flushCtx, batch)
			cancel()
			return
		}
	}
}

type docKey struct {
	index, id string
}

// flush collapses the batch to the last mutation per document and applies
// upserts as one bulk call per index. In degraded mode the batch is dropped;
// the bootstrap re-sync repairs the index once it is back.
func (s *syncSearchWorker) flush(ctx context.Context, batch []domain.SearchTask) {
	if len(batch) == 0 {
		return
	}
	if !s.search.Available() {
		logrus.Infof("search index degraded, dropping %d sync tasks", len(batch))
		return
	}

	tasks := make(map[docKey]domain.SearchTask)
	for i := range batch {
		tasks[docKey{batch[i].Index, batch[i].DocID}] = batch[i]
	}

	upserts := make(map[string][]domain.BulkDoc)
	for key, task := range tasks {
		switch task.Op {
		case domain.SearchUpsert:
			upserts[key.index] = append(upserts[key.index], domain.BulkDoc{ID: key.id, Body: task.Body})
		case domain.SearchDelete:
			if err := s.index.DeleteDoc(ctx, key.index, key.id); err != nil {
				logrus.Errorf("failed to delete document %s/%s: %v", key.index, key.id, err)
			}
		default:
			logrus.Errorf("unsupported search op: %v", task.Op)
		}
	}

	for index, docs := range upserts {
		if err := s.index.BulkUpsert(ctx, index, docs, false); err != nil {
			logrus.Errorf("failed to bulk upsert %d documents to %q: %v", len(docs), index, err)
		}
	}
}
