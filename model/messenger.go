package model

import "time"

// Conversation is the single thread between two users about one car.
// User1ID is always the smaller id.
type Conversation struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	CarID         int64     `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1" json:"car_id"`
	User1ID       int64     `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index" json:"user1_id"`
	User2ID       int64     `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:3;index" json:"user2_id"`
	LastMessageID *int64    `json:"last_message_id"`
	LastActivity  time.Time `gorm:"not null;index" json:"last_activity"`
	CreatedAt     time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID int64) int64 {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// CanonicalPair orders two user ids so the smaller one comes first.
func CanonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Message is immutable except for IsRead.
type Message struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	ConversationID int64     `gorm:"not null;index" json:"conversation_id"`
	SenderID       int64     `gorm:"not null;index" json:"sender_id"`
	ReceiverID     int64     `gorm:"not null;index:idx_message_receiver_read,priority:1" json:"receiver_id"`
	CarID          int64     `gorm:"not null" json:"car_id"`
	Body           string    `gorm:"column:message;type:text;not null" json:"message"`
	IsRead         bool      `gorm:"not null;default:false;index:idx_message_receiver_read,priority:2" json:"is_read"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`

	// Deleting a conversation deletes its messages at the storage layer.
	Conversation *Conversation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
