package domain

import (
	"context"
	"time"
)

// MaxContentRunes bounds the body of a post or comment, counted in Unicode
// code points.
const MaxContentRunes = 280

// Post is representing the Post data struct.
// Invariant: LikesCount equals the number of live Like records targeting the
// post, and CommentsCount equals the number of live comments; both are only
// ever moved inside the same atomic unit that creates or deletes the
// counterpart records.
type Post struct {
	ID            int64     // Unique identifier for the post
	User          User      // Author information
	Content       string    // Post body, at most MaxContentRunes code points
	Comments      []Comment // Comments in append order, oldest first
	CommentsCount int64     // Number of comments
	LikesCount    int64     // Number of likes
	UpdatedAt     time.Time // Last update timestamp
	CreatedAt     time.Time // Creation timestamp
}

// PostRepository defines the contract for post data persistence.
type PostRepository interface {
	// FetchPosts retrieves one page of posts, newest first.
	FetchPosts(ctx context.Context, offset, limit int64) ([]Post, error)

	// CountPosts returns the total number of posts.
	CountPosts(ctx context.Context) (int64, error)

	// GetPost retrieves a single post by its ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetPost(ctx context.Context, id int64) (Post, error)

	// CreatePost stores a new post and backfills ID and timestamps.
	CreatePost(ctx context.Context, p *Post) error

	// UpdatePostContent replaces the content of a post owned by authorID.
	// Returns ErrNotFound when the post is missing or owned by someone
	// else; the two cases are not distinguished.
	UpdatePostContent(ctx context.Context, postID, authorID int64, content string) (Post, error)

	// DeletePostOwned removes a post owned by authorID, reporting whether
	// a row was removed.
	DeletePostOwned(ctx context.Context, postID, authorID int64) (bool, error)

	// AddPostLikes moves the like counter of a post by delta.
	AddPostLikes(ctx context.Context, postID, delta int64) error

	// AddPostComments moves the comment counter of a post by delta.
	AddPostComments(ctx context.Context, postID, delta int64) error

	// FetchHottestPosts returns at most limit posts ordered by likes
	// descending, then comment count descending, then creation time
	// descending.
	FetchHottestPosts(ctx context.Context, limit int64) ([]Post, error)

	// FetchAllPosts returns every post. Used by the search bootstrap
	// bulk re-sync.
	FetchAllPosts(ctx context.Context) ([]Post, error)
}

// PostUsecase is the interaction engine surface: every mutation here is a
// single all-or-nothing unit against the primary store.
type PostUsecase interface {
	// ListPosts returns one page of posts, newest first, with authors and
	// comments resolved, plus the total post count.
	ListPosts(ctx context.Context, page, pageSize int64) ([]Post, int64, error)

	// GetPost returns a single post with author and comments resolved.
	GetPost(ctx context.Context, id int64) (Post, error)

	// CreatePost stores a new post with an empty comment list and a zero
	// like counter. Returns ErrContentTooLong when content exceeds the
	// bound.
	CreatePost(ctx context.Context, authorID int64, content string) (Post, error)

	// UpdatePost replaces the content of the requester's own post.
	UpdatePost(ctx context.Context, postID, requesterID int64, content string) (Post, error)

	// DeletePost removes the requester's own post together with its
	// comments, likes and notification events, atomically.
	DeletePost(ctx context.Context, postID, requesterID int64) error

	// LikePost records a like. Returns changed=false when the user
	// already likes the post.
	LikePost(ctx context.Context, postID, userID int64) (bool, error)

	// UnlikePost removes a like. Returns changed=false when there is
	// nothing to remove.
	UnlikePost(ctx context.Context, postID, userID int64) (bool, error)

	// AddComment appends a comment to a post.
	AddComment(ctx context.Context, postID, userID int64, content string) (Comment, error)
}
