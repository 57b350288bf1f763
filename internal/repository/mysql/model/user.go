package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserName       string    `gorm:"column:user_name;type:varchar(45);not null"`
	AccountName    string    `gorm:"column:account_name;type:varchar(45);not null;uniqueIndex"`
	AvatarURL      string    `gorm:"column:avatar_url;type:varchar(255)"`
	Bio            string    `gorm:"type:varchar(255)"`
	IsPublic       bool      `gorm:"column:is_public;default:true"`
	FollowersCount int64     `gorm:"column:followers_count;default:0"`
	FollowingCount int64     `gorm:"column:following_count;default:0"`
	UpdatedAt      time.Time `gorm:"type:datetime"`
	CreatedAt      time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		UserName:       m.UserName,
		AccountName:    m.AccountName,
		AvatarURL:      m.AvatarURL,
		Bio:            m.Bio,
		IsPublic:       m.IsPublic,
		FollowersCount: m.FollowersCount,
		FollowingCount: m.FollowingCount,
		UpdatedAt:      m.UpdatedAt,
		CreatedAt:      m.CreatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:             u.ID,
		UserName:       u.UserName,
		AccountName:    u.AccountName,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		IsPublic:       u.IsPublic,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		UpdatedAt:      u.UpdatedAt,
		CreatedAt:      u.CreatedAt,
	}
}
