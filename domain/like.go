package domain

import (
	"context"
	"time"
)

// TargetKind discriminates what a Like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Like is representing a like record. At most one Like may exist per
// (user, target, kind) triple; the store enforces this with a uniqueness
// constraint, the application check on top of it only decides between
// "changed" and "no state change".
type Like struct {
	ID         int64
	UserID     int64
	TargetID   int64
	TargetKind TargetKind
	CreatedAt  time.Time
}

// LikeRepository defines the contract for like data persistence.
type LikeRepository interface {
	// CreateLike stores a like record. Returns ErrConflict when the
	// (user, target, kind) triple already exists.
	CreateLike(ctx context.Context, l *Like) error

	// GetLike retrieves the like of a user on a target.
	// Returns ErrNotFound if there is none.
	GetLike(ctx context.Context, userID, targetID int64, kind TargetKind) (Like, error)

	// DeleteLike removes a like record by ID.
	DeleteLike(ctx context.Context, id int64) error

	// DeleteLikesByTarget removes every like on a target, returning the
	// number of rows removed.
	DeleteLikesByTarget(ctx context.Context, targetID int64, kind TargetKind) (int64, error)

	// CountLikesByTarget returns the number of likes on a target.
	CountLikesByTarget(ctx context.Context, targetID int64, kind TargetKind) (int64, error)
}
