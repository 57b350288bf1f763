package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	commentModel := model.NewCommentFromDomain(c)
	result := s.DB.WithContext(ctx).Create(&commentModel)
	if result.Error != nil {
		return result.Error
	}
	c.ID = commentModel.ID
	c.CreatedAt = commentModel.CreatedAt
	return nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (domain.Comment, error) {
	var comment model.Comment
	err := s.DB.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Comment{}, domain.ErrNotFound
	} else if err != nil {
		return domain.Comment{}, err
	}
	return comment.ToDomain(), nil
}

// FetchCommentsByPosts keeps append order: comments come back oldest first
// per post, never reordered.
func (s *Store) FetchCommentsByPosts(ctx context.Context, postIDs []int64) ([]domain.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var comments []model.Comment
	err := s.DB.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("post_id, id").
		Find(&comments).
		Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (s *Store) DeleteCommentsByPost(ctx context.Context, postID int64) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

func (s *Store) CountCommentsByPost(ctx context.Context, postID int64) (total int64, err error) {
	err = s.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).
		Error
	return
}
