package response

import "github.com/hualinpp/threadhub/domain"

type Post struct {
	ID            int64      `json:"id"`
	Content       string     `json:"content"`
	User          *User      `json:"user"`
	Comments      []*Comment `json:"comments"`
	CommentsCount int64      `json:"comments_count"`
	LikesCount    int64      `json:"likes_count"`
	UpdatedAt     string     `json:"updated_at"`
	CreatedAt     string     `json:"created_at"`
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post) Post {
	comments := make([]*Comment, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, NewCommentFromDomain(&p.Comments[i]))
	}
	return Post{
		ID:            p.ID,
		Content:       p.Content,
		User:          NewUserFromDomain(&p.User),
		Comments:      comments,
		CommentsCount: p.CommentsCount,
		LikesCount:    p.LikesCount,
		UpdatedAt:     p.UpdatedAt.Format(DateTimeFormat),
		CreatedAt:     p.CreatedAt.Format(DateTimeFormat),
	}
}

type PostList struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
}

type HotPost struct {
	ID            int64  `json:"id"`
	Content       string `json:"content"`
	LikesCount    int64  `json:"likes_count"`
	CommentsCount int64  `json:"comments_count"`
	CreatedAt     string `json:"created_at"`
	UserName      string `json:"user_name"`
	AccountName   string `json:"account_name"`
	AvatarURL     string `json:"avatar_url"`
}

func NewHotPostFromDomain(p *domain.HotPost) HotPost {
	return HotPost{
		ID:            p.ID,
		Content:       p.Content,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt.Format(DateTimeFormat),
		UserName:      p.UserName,
		AccountName:   p.AccountName,
		AvatarURL:     p.AvatarURL,
	}
}
