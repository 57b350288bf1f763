package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return user.ToDomain(), nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []model.User
	err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}

func (s *Store) FetchAllUsers(ctx context.Context) ([]domain.User, error) {
	var users []model.User
	err := s.DB.WithContext(ctx).Order("id").Find(&users).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}
