package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

type Post struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	UserID        int64     `gorm:"column:user_id;not null;index"`
	Content       string    `gorm:"type:varchar(1120);not null"`
	CommentsCount int64     `gorm:"column:comments_count;default:0"`
	LikesCount    int64     `gorm:"column:likes_count;default:0"`
	UpdatedAt     time.Time `gorm:"type:datetime"`
	CreatedAt     time.Time `gorm:"type:datetime;index"`
}

func (Post) TableName() string {
	return "post"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:      m.ID,
		Content: m.Content,
		User: domain.User{
			ID: m.UserID,
		},
		CommentsCount: m.CommentsCount,
		LikesCount:    m.LikesCount,
		UpdatedAt:     m.UpdatedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:            p.ID,
		UserID:        p.User.ID,
		Content:       p.Content,
		CommentsCount: p.CommentsCount,
		LikesCount:    p.LikesCount,
		UpdatedAt:     p.UpdatedAt,
		CreatedAt:     p.CreatedAt,
	}
}
