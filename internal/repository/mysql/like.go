package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

func (s *Store) CreateLike(ctx context.Context, l *domain.Like) error {
	likeModel := model.NewLikeFromDomain(l)
	result := s.DB.WithContext(ctx).Create(&likeModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return result.Error
	}
	l.ID = likeModel.ID
	l.CreatedAt = likeModel.CreatedAt
	return nil
}

func (s *Store) GetLike(ctx context.Context, userID, targetID int64, kind domain.TargetKind) (domain.Like, error) {
	var like model.Like
	err := s.DB.WithContext(ctx).
		First(&like, "user_id = ? AND target_id = ? AND target_kind = ?", userID, targetID, string(kind)).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Like{}, domain.ErrNotFound
	} else if err != nil {
		return domain.Like{}, err
	}
	return like.ToDomain(), nil
}

func (s *Store) DeleteLike(ctx context.Context, id int64) error {
	result := s.DB.WithContext(ctx).Delete(&model.Like{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLikesByTarget(ctx context.Context, targetID int64, kind domain.TargetKind) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("target_id = ? AND target_kind = ?", targetID, string(kind)).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}

func (s *Store) CountLikesByTarget(ctx context.Context, targetID int64, kind domain.TargetKind) (total int64, err error) {
	err = s.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("target_id = ? AND target_kind = ?", targetID, string(kind)).
		Count(&total).
		Error
	return
}
