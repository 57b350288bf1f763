package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

// Like rows are unique per (user, target, kind); the index backs the
// idempotence guard in the interaction engine.
type Like struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_target"`
	TargetID   int64     `gorm:"column:target_id;not null;uniqueIndex:idx_user_target;index:idx_target"`
	TargetKind string    `gorm:"column:target_kind;type:varchar(16);not null;uniqueIndex:idx_user_target;index:idx_target"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "user_likes"
}

func NewLikeFromDomain(l *domain.Like) *Like {
	return &Like{
		ID:         l.ID,
		UserID:     l.UserID,
		TargetID:   l.TargetID,
		TargetKind: string(l.TargetKind),
		CreatedAt:  l.CreatedAt,
	}
}

func (m *Like) ToDomain() domain.Like {
	return domain.Like{
		ID:         m.ID,
		UserID:     m.UserID,
		TargetID:   m.TargetID,
		TargetKind: domain.TargetKind(m.TargetKind),
		CreatedAt:  m.CreatedAt,
	}
}
