package service

import (
	"context"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"
	"marketplace-messenger/policy"
	"marketplace-messenger/store"
	"marketplace-messenger/utils"
)

const DefaultNotificationLimit = 20

// Notifications exposes the caller's own notifications. Row-level mutations
// go through the gate first.
type Notifications struct {
	store *store.NotificationStore
	gate  *policy.Gate
}

func NewNotifications(notifications *store.NotificationStore, gate *policy.Gate) *Notifications {
	return &Notifications{store: notifications, gate: gate}
}

func (n *Notifications) List(ctx context.Context, userID int64, page utils.Page) ([]model.Notification, error) {
	return n.store.ListByUser(ctx, userID, page)
}

func (n *Notifications) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return n.store.CountUnread(ctx, userID)
}

func (n *Notifications) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if err := n.authorize(ctx, userID, notificationID, policy.Write); err != nil {
		return err
	}
	if _, err := n.store.MarkAsRead(ctx, notificationID); err != nil {
		return err
	}
	return nil
}

// MarkAllRead is scoped by user id and needs no row check.
func (n *Notifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return n.store.MarkAllAsRead(ctx, userID)
}

func (n *Notifications) Delete(ctx context.Context, userID, notificationID int64) error {
	if err := n.authorize(ctx, userID, notificationID, policy.Delete); err != nil {
		return err
	}
	deleted, err := n.store.Delete(ctx, notificationID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrNotificationNotFound
	}
	return nil
}

func (n *Notifications) authorize(ctx context.Context, userID, notificationID int64, action policy.Action) error {
	if notificationID <= 0 {
		return apperr.ErrInvalidIdentifier
	}
	row, err := n.store.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	return n.gate.Authorize(ctx, userID, policy.Notification(*row), action)
}
