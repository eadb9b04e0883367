package store

import (
	"context"
	"errors"
	"time"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"
	"marketplace-messenger/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const conversationViewColumns = `c.*,
	u1.name AS user1_name, u1.firstname AS user1_firstname, u1.phone AS user1_phone,
	u2.name AS user2_name, u2.firstname AS user2_firstname, u2.phone AS user2_phone,
	car.title AS car_title,
	(SELECT cp.photo_url FROM car_photos cp WHERE cp.car_id = car.id ORDER BY cp.id LIMIT 1) AS car_photo`

const conversationViewJoins = `FROM conversations c
	JOIN users u1 ON c.user1_id = u1.id
	JOIN users u2 ON c.user2_id = u2.id
	JOIN cars car ON c.car_id = car.id`

type ConversationStore struct {
	base
}

func NewConversationStore(db *gorm.DB, opts Options) *ConversationStore {
	return &ConversationStore{base: newBase(db, opts)}
}

// GetOrCreate returns the conversation of the (unordered) pair about carID,
// inserting it when it does not exist yet.
func (s *ConversationStore) GetOrCreate(ctx context.Context, userA, userB, carID int64) (*model.Conversation, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	conv, err := getOrCreateConversation(db, userA, userB, carID, s.now())
	if err != nil {
		return nil, translate("conversationStore.GetOrCreate", err, nil)
	}
	return conv, nil
}

// getOrCreateConversation runs on db, which may be a transaction. A concurrent
// insert of the same pair is absorbed by the unique index: the losing insert
// does nothing and the winning row is read back.
func getOrCreateConversation(db *gorm.DB, userA, userB, carID int64, now time.Time) (*model.Conversation, error) {
	user1, user2 := model.CanonicalPair(userA, userB)

	conv := new(model.Conversation)
	err := db.Where("car_id = ? AND user1_id = ? AND user2_id = ?", carID, user1, user2).Take(conv).Error
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = &model.Conversation{
		CarID:        carID,
		User1ID:      user1,
		User2ID:      user2,
		LastActivity: now,
		CreatedAt:    now,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(conv)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return conv, nil
	}

	winner := new(model.Conversation)
	if err := db.Where("car_id = ? AND user1_id = ? AND user2_id = ?", carID, user1, user2).Take(winner).Error; err != nil {
		return nil, err
	}
	return winner, nil
}

// GetByID returns the conversation with both participants and the car joined in.
func (s *ConversationStore) GetByID(ctx context.Context, id int64) (*model.ConversationView, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	view := new(model.ConversationView)
	res := db.Raw(`SELECT `+conversationViewColumns+` `+conversationViewJoins+` WHERE c.id = ?`, id).Scan(view)
	if res.Error != nil {
		return nil, translate("conversationStore.GetByID", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrConversationNotFound
	}
	return view, nil
}

// ListByUser returns the user's conversations, most recently active first.
// No total is returned: a short page means there are no more.
func (s *ConversationStore) ListByUser(ctx context.Context, userID int64, page utils.Page) ([]model.ConversationSummary, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	rows := []model.ConversationSummary{}
	err := db.Raw(`SELECT `+conversationViewColumns+`,
			m.message AS last_message, m.created_at AS last_message_time, m.sender_id AS last_message_sender_id
		`+conversationViewJoins+`
		LEFT JOIN messages m ON c.last_message_id = m.id
		WHERE c.user1_id = ? OR c.user2_id = ?
		ORDER BY c.last_activity DESC, c.id DESC
		LIMIT ? OFFSET ?`,
		userID, userID, page.Limit, page.Offset(),
	).Scan(&rows).Error
	if err != nil {
		return nil, translate("conversationStore.ListByUser", err, nil)
	}

	for i := range rows {
		row := &rows[i]
		if row.User1ID == userID {
			row.OtherUserID = row.User2ID
			row.OtherUserName = row.User2Name
			row.OtherUserFirstname = row.User2Firstname
		} else {
			row.OtherUserID = row.User1ID
			row.OtherUserName = row.User1Name
			row.OtherUserFirstname = row.User1Firstname
		}
	}
	return rows, nil
}

// UpdateLastMessage points the conversation at messageID and bumps last_activity.
func (s *ConversationStore) UpdateLastMessage(ctx context.Context, conversationID, messageID int64) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	return translate("conversationStore.UpdateLastMessage",
		updateLastMessage(db, conversationID, messageID, s.now()), nil)
}

func updateLastMessage(db *gorm.DB, conversationID, messageID int64, now time.Time) error {
	res := db.Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"last_activity":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConversationNotFound
	}
	return nil
}

// Delete removes the conversation; its messages go with it through the
// foreign key cascade.
func (s *ConversationStore) Delete(ctx context.Context, conversationID int64) (bool, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Delete(&model.Conversation{}, conversationID)
	if res.Error != nil {
		return false, translate("conversationStore.Delete", res.Error, nil)
	}
	return res.RowsAffected > 0, nil
}
