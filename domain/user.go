package domain

import (
	"context"
	"time"
)

// User represents an account in the system. Registration, login and profile
// editing are handled by the auth service; this core only reads users to
// resolve author summaries and to project them into the search index.
type User struct {
	ID             int64     // Unique identifier
	UserName       string    // Display name
	AccountName    string    // Handle (unique)
	AvatarURL      string    // Avatar image location
	Bio            string    // Profile text
	IsPublic       bool      // Whether the profile is visible to non-followers
	FollowersCount int64     // Number of accepted followers
	FollowingCount int64     // Number of accounts this user follows
	CreatedAt      time.Time // Account creation timestamp
	UpdatedAt      time.Time // Last profile update timestamp
}

// Summary returns the subset of fields that get denormalized next to posts
// and comments.
func (u User) Summary() User {
	return User{
		ID:          u.ID,
		UserName:    u.UserName,
		AccountName: u.AccountName,
		AvatarURL:   u.AvatarURL,
	}
}

// UserRepository defines the read contract for user records.
type UserRepository interface {
	// GetUser retrieves a user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id int64) (User, error)

	// GetUsersByIDs retrieves users by the given IDs. Missing IDs are
	// silently skipped.
	GetUsersByIDs(ctx context.Context, ids []int64) ([]User, error)

	// FetchAllUsers returns every user. Used by the search bootstrap
	// bulk re-sync.
	FetchAllUsers(ctx context.Context) ([]User, error)
}
