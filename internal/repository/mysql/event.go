package mysql

import (
	"context"

	"github.com/hualinpp/threadhub/domain"
	"github.com/hualinpp/threadhub/internal/repository/mysql/model"
)

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	eventModel := model.NewEventFromDomain(e)
	result := s.DB.WithContext(ctx).Create(&eventModel)
	if result.Error != nil {
		return result.Error
	}
	e.ID = eventModel.ID
	e.CreatedAt = eventModel.CreatedAt
	return nil
}

func (s *Store) FetchEventsByReceiver(ctx context.Context, receiverID, limit int64) ([]domain.Event, error) {
	var events []model.Event
	err := s.DB.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC, id DESC").
		Limit(int(limit)).
		Find(&events).
		Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Event, len(events))
	for i := range events {
		res[i] = events[i].ToDomain()
	}
	return res, nil
}

func (s *Store) DeleteLikeEvent(ctx context.Context, senderID, receiverID, postID int64) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND kind = ? AND post_id = ?",
			senderID, receiverID, string(domain.EventLike), postID).
		Delete(&model.Event{})
	return result.RowsAffected, result.Error
}

// DeleteEventsByPost removes the like and comment notifications referencing
// a post; follow and friend-request events carry no post reference and stay.
func (s *Store) DeleteEventsByPost(ctx context.Context, postID int64) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("post_id = ? AND kind IN ?", postID, []string{string(domain.EventLike), string(domain.EventComment)}).
		Delete(&model.Event{})
	return result.RowsAffected, result.Error
}
