package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

func (s *Store) FetchPosts(ctx context.Context, offset, limit int64) (res []domain.Post, err error) {
	var posts []model.Post
	err = s.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&posts).
		Error
	if err != nil {
		return
	}

	for i := range posts {
		res = append(res, posts[i].ToDomain())
	}
	return
}

func (s *Store) CountPosts(ctx context.Context) (total int64, err error) {
	err = s.DB.WithContext(ctx).Model(&model.Post{}).Count(&total).Error
	return
}

func (s *Store) GetPost(ctx context.Context, id int64) (res domain.Post, err error) {
	var post model.Post
	err = s.DB.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, domain.ErrNotFound
	} else if err != nil {
		return res, err
	}
	res = post.ToDomain()
	return
}

func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	result := s.DB.WithContext(ctx).Create(&postModel)
	if result.Error != nil {
		return result.Error
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

// UpdatePostContent filters on (id, user_id) in one statement, so a missing
// post and a post owned by someone else both surface as ErrNotFound.
func (s *Store) UpdatePostContent(ctx context.Context, postID, authorID int64, content string) (domain.Post, error) {
	result := s.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND user_id = ?", postID, authorID).
		Update("content", content)
	if result.Error != nil {
		return domain.Post{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Post{}, domain.ErrNotFound
	}

	return s.GetPost(ctx, postID)
}

func (s *Store) DeletePostOwned(ctx context.Context, postID, authorID int64) (bool, error) {
	result := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", postID, authorID).
		Delete(&model.Post{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) AddPostLikes(ctx context.Context, postID, delta int64) error {
	result := s.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		Update("likes_count", gorm.Expr("likes_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) AddPostComments(ctx context.Context, postID, delta int64) error {
	result := s.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		Update("comments_count", gorm.Expr("comments_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FetchHottestPosts(ctx context.Context, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := s.DB.WithContext(ctx).
		Order("likes_count DESC, comments_count DESC, created_at DESC").
		Limit(int(limit)).
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, nil
}

func (s *Store) FetchAllPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []model.Post
	err := s.DB.WithContext(ctx).Order("id").Find(&posts).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res, nil
}
