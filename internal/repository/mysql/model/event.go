package model

import (
	"time"

	"github.com/hualinpp/threadhub/domain"
)

// Event keeps the kind discriminant plus the detail ids as plain columns so
// the delete cascade can filter on post_id directly.
type Event struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	SenderID   int64     `gorm:"column:sender_id;not null"`
	ReceiverID int64     `gorm:"column:receiver_id;not null;index"`
	Kind       string    `gorm:"type:varchar(16);not null"`
	PostID     int64     `gorm:"column:post_id;default:0;index"`
	CommentID  int64     `gorm:"column:comment_id;default:0"`
	CreatedAt  time.Time `gorm:"type:datetime"`
}

func (Event) TableName() string {
	return "event"
}

func NewEventFromDomain(e *domain.Event) *Event {
	return &Event{
		ID:         e.ID,
		SenderID:   e.SenderID,
		ReceiverID: e.ReceiverID,
		Kind:       string(e.Kind),
		PostID:     e.Detail.PostID,
		CommentID:  e.Detail.CommentID,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *Event) ToDomain() domain.Event {
	return domain.Event{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Kind:       domain.EventKind(m.Kind),
		Detail: domain.EventDetail{
			PostID:    m.PostID,
			CommentID: m.CommentID,
		},
		CreatedAt: m.CreatedAt,
	}
}
