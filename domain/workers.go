package domain

import "context"

// SearchOp discriminates what a SearchTask does to the index.
type SearchOp int8

const (
	SearchUpsert SearchOp = 1
	SearchDelete SearchOp = -1
)

func (o SearchOp) String() string {
	switch o {
	case SearchUpsert:
		return "UPSERT"
	case SearchDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// SearchTask is one pending index mutation. Body is ignored for deletes.
type SearchTask struct {
	Op    SearchOp
	Index string
	DocID string
	Body  any
}

// SearchSyncWorker batches index mutations behind the request path. Send
// never blocks the caller; the worker flushes per bulk batch, so a crash
// loses at most one batch and the bootstrap re-sync repairs the index.
type SearchSyncWorker interface {
	Start(ctx context.Context)

	// Send enqueues one index mutation, dropping it if the queue is full.
	Send(task SearchTask)
}
