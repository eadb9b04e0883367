package store

import (
	"context"
	"errors"
	"fmt"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"
	"marketplace-messenger/utils"

	"gorm.io/gorm"
)

const (
	previewLimit  = 50
	previewCutoff = 47
)

// Preview shortens a message body for a notification: bodies longer than 50
// characters become their first 47 characters plus "...".
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewCutoff]) + "..."
}

// NotificationStore persists per-user notifications. It does not check
// ownership; callers must authorize before mutating.
type NotificationStore struct {
	base
}

func NewNotificationStore(db *gorm.DB, opts Options) *NotificationStore {
	return &NotificationStore{base: newBase(db, opts)}
}

func (s *NotificationStore) Create(ctx context.Context, n *model.Notification) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	return translate("notificationStore.Create", db.Create(n).Error, nil)
}

// CreateMessageNotification records a "new message" notification for the
// receiver. It fails with ErrSenderNotFound when senderID is unknown.
func (s *NotificationStore) CreateMessageNotification(ctx context.Context, receiverID, senderID, conversationID int64, previewText string) (*model.Notification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	sender := new(model.User)
	err := db.Select("id", "name", "firstname").Where("id = ?", senderID).Take(sender).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrSenderNotFound
	}
	if err != nil {
		return nil, translate("notificationStore.CreateMessageNotification", err, nil)
	}

	target := conversationID
	n := &model.Notification{
		UserID:    receiverID,
		Title:     fmt.Sprintf("New message from %s", sender.DisplayName()),
		Message:   Preview(previewText),
		Type:      model.NotificationTypeMessage,
		TargetID:  &target,
		CreatedAt: s.now(),
	}
	if err := db.Create(n).Error; err != nil {
		return nil, translate("notificationStore.CreateMessageNotification", err, nil)
	}
	return n, nil
}

func (s *NotificationStore) Get(ctx context.Context, id int64) (*model.Notification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	n := new(model.Notification)
	if err := db.Take(n, id).Error; err != nil {
		return nil, translate("notificationStore.Get", err, apperr.ErrNotificationNotFound)
	}
	return n, nil
}

// ListByUser returns a page of the user's notifications, newest first.
func (s *NotificationStore) ListByUser(ctx context.Context, userID int64, page utils.Page) ([]model.Notification, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	rows := []model.Notification{}
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, translate("notificationStore.ListByUser", err, nil)
	}
	return rows, nil
}

func (s *NotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate("notificationStore.CountUnread", err, nil)
	}
	return count, nil
}

func (s *NotificationStore) MarkAsRead(ctx context.Context, id int64) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return false, translate("notificationStore.MarkAsRead", res.Error, nil)
	}
	return res.RowsAffected > 0, nil
}

func (s *NotificationStore) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate("notificationStore.MarkAllAsRead", res.Error, nil)
	}
	return res.RowsAffected, nil
}

func (s *NotificationStore) Delete(ctx context.Context, id int64) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Delete(&model.Notification{}, id)
	if res.Error != nil {
		return false, translate("notificationStore.Delete", res.Error, nil)
	}
	return res.RowsAffected > 0, nil
}
