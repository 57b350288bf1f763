package response

import "github.com/hualinpp/threadhub/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type User struct {
	ID          int64  `json:"id"`
	UserName    string `json:"user_name"`
	AccountName string `json:"account_name"`
	AvatarURL   string `json:"avatar_url"`
}

// NewUserFromDomain: Domain -> Response
func NewUserFromDomain(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:          u.ID,
		UserName:    u.UserName,
		AccountName: u.AccountName,
		AvatarURL:   u.AvatarURL,
	}
}
