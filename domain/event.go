package domain

import (
	"context"
	"time"
)

// EventKind discriminates notification events. The shape of EventDetail is
// determined by the kind.
type EventKind string

const (
	EventLike          EventKind = "like"
	EventComment       EventKind = "comment"
	EventFollow        EventKind = "follow"
	EventFriendRequest EventKind = "friend-request"
)

// EventDetail is the kind-specific payload of an event.
// like: PostID. comment: PostID and CommentID. follow / friend-request:
// neither (sender and receiver carry all the information).
type EventDetail struct {
	PostID    int64 `json:"post_id,omitempty"`
	CommentID int64 `json:"comment_id,omitempty"`
}

// Event is a notification record fanned out by the interaction engine.
// An event is never created when sender == receiver.
type Event struct {
	ID         int64
	SenderID   int64
	ReceiverID int64
	Kind       EventKind
	Detail     EventDetail
	CreatedAt  time.Time
}

// EventRepository defines the contract for notification event persistence.
type EventRepository interface {
	// CreateEvent stores an event and backfills ID and CreatedAt.
	CreateEvent(ctx context.Context, e *Event) error

	// FetchEventsByReceiver returns the newest events for a receiver.
	FetchEventsByReceiver(ctx context.Context, receiverID, limit int64) ([]Event, error)

	// DeleteLikeEvent removes the like event a sender produced for a
	// post, returning the number of rows removed.
	DeleteLikeEvent(ctx context.Context, senderID, receiverID, postID int64) (int64, error)

	// DeleteEventsByPost removes every like and comment event referencing
	// a post, returning the number of rows removed.
	DeleteEventsByPost(ctx context.Context, postID int64) (int64, error)
}
