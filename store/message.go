package store

import (
	"context"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"
	"marketplace-messenger/utils"

	"gorm.io/gorm"
)

const messageViewQuery = `SELECT m.*,
	s.name AS sender_name, s.firstname AS sender_firstname,
	r.name AS receiver_name, r.firstname AS receiver_firstname
	FROM messages m
	JOIN users s ON m.sender_id = s.id
	JOIN users r ON m.receiver_id = r.id`

var errMessageNotFound = apperr.NotFound("message not found")

type MessageStore struct {
	base
}

func NewMessageStore(db *gorm.DB, opts Options) *MessageStore {
	return &MessageStore{base: newBase(db, opts)}
}

// Create resolves the conversation, inserts the message and moves the
// conversation pointer in one transaction. Nothing is written if any step fails.
func (s *MessageStore) Create(ctx context.Context, senderID, receiverID, carID int64, text string) (*model.Message, *model.Conversation, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var (
		msg  *model.Message
		conv *model.Conversation
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		now := s.now()

		var err error
		conv, err = getOrCreateConversation(tx, senderID, receiverID, carID, now)
		if err != nil {
			return err
		}

		msg = &model.Message{
			ConversationID: conv.ID,
			SenderID:       senderID,
			ReceiverID:     receiverID,
			CarID:          carID,
			Body:           text,
			CreatedAt:      now,
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if err := updateLastMessage(tx, conv.ID, msg.ID, now); err != nil {
			return err
		}
		conv.LastMessageID = &msg.ID
		conv.LastActivity = now
		return nil
	})
	if err != nil {
		return nil, nil, translate("messageStore.Create", err, nil)
	}
	return msg, conv, nil
}

// GetByID returns one message with sender and receiver names.
func (s *MessageStore) GetByID(ctx context.Context, id int64) (*model.MessageView, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	view := new(model.MessageView)
	res := db.Raw(messageViewQuery+` WHERE m.id = ?`, id).Scan(view)
	if res.Error != nil {
		return nil, translate("messageStore.GetByID", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return nil, errMessageNotFound
	}
	return view, nil
}

// ListByConversation returns a page of messages, oldest first.
func (s *MessageStore) ListByConversation(ctx context.Context, conversationID int64, page utils.Page) ([]model.MessageView, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	rows := []model.MessageView{}
	err := db.Raw(messageViewQuery+`
		WHERE m.conversation_id = ?
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT ? OFFSET ?`,
		conversationID, page.Limit, page.Offset(),
	).Scan(&rows).Error
	if err != nil {
		return nil, translate("messageStore.ListByConversation", err, nil)
	}
	return rows, nil
}

func (s *MessageStore) CountByConversation(ctx context.Context, conversationID int64) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&model.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		return 0, translate("messageStore.CountByConversation", err, nil)
	}
	return count, nil
}

// MarkAsRead flips every unread message in the conversation addressed to
// userID and returns how many changed.
func (s *MessageStore) MarkAsRead(ctx context.Context, conversationID, userID int64) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&model.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, translate("messageStore.MarkAsRead", res.Error, nil)
	}
	return res.RowsAffected, nil
}

// CountUnread counts unread messages addressed to userID across all conversations.
func (s *MessageStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var count int64
	err := db.Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate("messageStore.CountUnread", err, nil)
	}
	return count, nil
}

// Delete removes a single message. The conversation pointer is left as is.
func (s *MessageStore) Delete(ctx context.Context, id int64) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Delete(&model.Message{}, id)
	if res.Error != nil {
		return false, translate("messageStore.Delete", res.Error, nil)
	}
	return res.RowsAffected > 0, nil
}
