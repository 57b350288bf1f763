package domain

import "context"

// Store is the primary store adapter contract. It bundles the per-entity
// repositories with Atomic, the transactional-unit runner: every write issued
// through the Store handed to the closure commits or aborts as one unit, and
// no intermediate state is observable to other callers.
type Store interface {
	PostRepository
	CommentRepository
	LikeRepository
	EventRepository
	UserRepository

	// Atomic runs fn inside one transaction. The Store passed to fn is
	// bound to that transaction; returning an error aborts every write
	// made through it.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
