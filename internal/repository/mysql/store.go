package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

// Store is the gorm-backed primary store adapter. One instance serves all
// entities so that Atomic can hand the closure a Store bound to a single
// transaction.
type Store struct {
	DB *gorm.DB
}

var _ domain.Store = (*Store)(nil)

// NewStore creates the primary store adapter.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Atomic runs fn inside one transaction. Every repository call made through
// the Store passed to fn joins that transaction; an error from fn rolls all
// of them back.
func (s *Store) Atomic(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Migrate creates the tables and their uniqueness constraints.
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Event{},
		&model.Follow{},
	)
}
