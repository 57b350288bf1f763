package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

type Comment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PostID     int64     `gorm:"column:post_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Content    string    `gorm:"type:varchar(1120);not null"`
	ParentID   int64     `gorm:"column:parent_id;default:0"`
	LikesCount int64     `gorm:"column:likes_count;default:0"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		Content:    c.Content,
		ParentID:   c.ParentID,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:         m.ID,
		PostID:     m.PostID,
		UserID:     m.UserID,
		Content:    m.Content,
		ParentID:   m.ParentID,
		LikesCount: m.LikesCount,
		CreatedAt:  m.CreatedAt,
	}
}
