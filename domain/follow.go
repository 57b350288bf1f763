package domain

import "time"

// FollowStatus is the lifecycle state of a follow relation.
type FollowStatus string

const (
	FollowPending  FollowStatus = "pending"
	FollowAccepted FollowStatus = "accepted"
)

// Follow relates a follower to a followed user. The store enforces a
// uniqueness constraint on (follower, following); the follow/unfollow
// operations themselves live in the social-graph service, this core only
// keeps the table so counters and friend-request events have a home.
type Follow struct {
	ID          int64
	FollowerID  int64
	FollowingID int64
	Status      FollowStatus
	CreatedAt   time.Time
}
