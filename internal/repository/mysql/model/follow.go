package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

// Follow rows are unique per (follower, following) pair. The social-graph
// service writes this table; it is migrated here so the constraint exists.
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	FollowerID  int64     `gorm:"column:follower_id;not null;uniqueIndex:idx_follower_following;index"`
	FollowingID int64     `gorm:"column:following_id;not null;uniqueIndex:idx_follower_following;index"`
	Status      string    `gorm:"type:varchar(16);not null;default:accepted"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (Follow) TableName() string {
	return "follow"
}

func (m *Follow) ToDomain() domain.Follow {
	return domain.Follow{
		ID:          m.ID,
		FollowerID:  m.FollowerID,
		FollowingID: m.FollowingID,
		Status:      domain.FollowStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}
