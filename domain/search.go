package domain

import (
	"context"
	"strconv"
	"time"
)

// Index names in the search store.
const (
	IndexPosts = "posts"
	IndexUsers = "users"
)

// PostDocument is the denormalized projection of a post into the search
// index. It is a derived view: never authoritative, always reconstructible
// from the primary store.
type PostDocument struct {
	ID        string    `json:"-"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserDocument is the denormalized projection of a user into the search
// index.
type UserDocument struct {
	ID             string    `json:"-"`
	UserName       string    `json:"userName"`
	AccountName    string    `json:"accountName"`
	Bio            string    `json:"bio"`
	IsPublic       bool      `json:"isPublic"`
	AvatarURL      string    `json:"avatarUrl"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount int64     `json:"followingCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SearchIndex is the search index adapter contract.
type SearchIndex interface {
	// Ping probes connectivity with a short timeout.
	Ping(ctx context.Context) error

	// IndexExists reports whether the named index exists.
	IndexExists(ctx context.Context, name string) (bool, error)

	// CreateIndex creates the named index with its settings and
	// mappings.
	CreateIndex(ctx context.Context, name string) error

	// BulkUpsert indexes the given (id, body) pairs in one bulk call.
	// refresh makes the documents searchable immediately. Individual
	// item failures are logged, not returned; only a failure of the bulk
	// call itself is an error.
	BulkUpsert(ctx context.Context, index string, docs []BulkDoc, refresh bool) error

	// DeleteDoc removes one document. Deleting an absent document is not
	// an error.
	DeleteDoc(ctx context.Context, index, id string) error

	// SearchPosts runs a keyword query over the posts index.
	SearchPosts(ctx context.Context, query string, from, size int64) ([]PostDocument, int64, error)

	// SearchUsers runs a keyword query over the users index.
	SearchUsers(ctx context.Context, query string, from, size int64) ([]UserDocument, int64, error)
}

// BulkDoc is one (document-id, document-body) pair of a bulk upsert.
type BulkDoc struct {
	ID   string
	Body any
}

// SearchUsecase is the search sync service surface.
type SearchUsecase interface {
	// Bootstrap establishes connectivity with bounded retries and
	// exponential backoff, ensures the index schemas exist and bulk
	// re-syncs all posts and users. On exhaustion it logs and returns;
	// the service is then degraded, never broken.
	Bootstrap(ctx context.Context, maxRetries int)

	// Available reports whether the index is reachable.
	Available() bool

	// SearchPosts returns one page of matching post documents and the
	// total hit count. Returns ErrIndexUnavailable in degraded mode.
	SearchPosts(ctx context.Context, query string, page, pageSize int64) ([]PostDocument, int64, error)

	// SearchUsers returns one page of matching user documents and the
	// total hit count. Returns ErrIndexUnavailable in degraded mode.
	SearchUsers(ctx context.Context, query string, page, pageSize int64) ([]UserDocument, int64, error)
}

// FormatDocID renders a primary-store ID as a search document ID.
func FormatDocID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// NewPostDocument projects a post into its search document.
func NewPostDocument(p Post) PostDocument {
	return PostDocument{
		ID:        FormatDocID(p.ID),
		Content:   p.Content,
		UserID:    FormatDocID(p.User.ID),
		UserName:  p.User.UserName,
		CreatedAt: p.CreatedAt,
	}
}

// NewUserDocument projects a user into its search document.
func NewUserDocument(u User) UserDocument {
	return UserDocument{
		ID:             FormatDocID(u.ID),
		UserName:       u.UserName,
		AccountName:    u.AccountName,
		Bio:            u.Bio,
		IsPublic:       u.IsPublic,
		AvatarURL:      u.AvatarURL,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
	}
}
