package domain

import (
	"context"
	"time"
)

// Comment domain model. Comments form a shallow tree rooted at a post:
// ParentID is zero for top-level comments and points at another comment for
// replies.
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	Content    string    `json:"content"`
	ParentID   int64     `json:"parent_id"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`

	// User 评论作者信息
	User *User `json:"user,omitempty"`
	// Replies 子评论列表
	Replies []*Comment `json:"replies,omitempty"`
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	// CreateComment stores a comment and backfills ID and CreatedAt.
	CreateComment(ctx context.Context, c *Comment) error

	// GetComment retrieves a comment by ID.
	GetComment(ctx context.Context, id int64) (Comment, error)

	// FetchCommentsByPosts returns the comments of the given posts in
	// append order.
	FetchCommentsByPosts(ctx context.Context, postIDs []int64) ([]Comment, error)

	// DeleteCommentsByPost removes every comment of a post, returning the
	// number of rows removed.
	DeleteCommentsByPost(ctx context.Context, postID int64) (int64, error)

	// CountCommentsByPost returns the number of comments on a post.
	CountCommentsByPost(ctx context.Context, postID int64) (int64, error)
}
