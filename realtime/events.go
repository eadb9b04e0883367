package realtime

import "time"

const (
	EventSendMessage        = "send_message"
	EventReceiveMessage     = "receive_message"
	EventNotificationUpdate = "notification_update"
	EventTyping             = "typing"
)

// ReceiveMessage is pushed to the receiver of a message.
type ReceiveMessage struct {
	MessageID      int64     `json:"messageId,omitempty"`
	Message        string    `json:"message"`
	SenderID       int64     `json:"senderId"`
	SenderName     string    `json:"senderName"`
	CarID          int64     `json:"carId"`
	ConversationID int64     `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type NotificationUpdate struct {
	Count int64 `json:"count"`
}

// Typing travels inbound with ReceiverID set and outbound with SenderID set.
type Typing struct {
	ReceiverID     int64 `json:"receiverId,omitempty"`
	SenderID       int64 `json:"senderId,omitempty"`
	ConversationID int64 `json:"conversationId"`
	IsTyping       bool  `json:"isTyping"`
}

// SendMessage is the inbound relay payload. The sender is never read from it.
type SendMessage struct {
	ReceiverID     int64     `json:"receiverId"`
	Message        string    `json:"message"`
	SenderName     string    `json:"senderName"`
	CarID          int64     `json:"carId"`
	ConversationID int64     `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}
