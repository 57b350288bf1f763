package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hualinpp/threadhub/domain"
)

// hotRefreshWorker recomputes the hot-posts snapshot once at startup and
// then on a fixed daily schedule, independent of read traffic. Read-path
// cache misses still trigger their own recompute through the usecase.
type hotRefreshWorker struct {
	hot      domain.HotPostUsecase
	interval time.Duration
}

func NewHotRefreshWorker(hot domain.HotPostUsecase, interval time.Duration) *hotRefreshWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &hotRefreshWorker{
		hot:      hot,
		interval: interval,
	}
}

func (w *hotRefreshWorker) Start(ctx context.Context) {
	w.recompute(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.recompute(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down HotRefreshWorker")
			return
		}
	}
}

func (w *hotRefreshWorker) recompute(ctx context.Context) {
	if err := w.hot.Recompute(ctx); err != nil {
		logrus.Errorf("scheduled hot posts recompute failed: %v", err)
		return
	}
	logrus.Info("hot posts snapshot refreshed")
}
