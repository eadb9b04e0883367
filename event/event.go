package event

import (
	"context"
	"time"
)

const (
	ActionMessageCreated      = "message.created"
	ActionConversationDeleted = "conversation.deleted"
)

// Publisher sends a domain event after the state it describes is committed.
type Publisher interface {
	Publish(ctx context.Context, action string, data any) error
}

type MessageCreated struct {
	MessageID      int64     `json:"message_id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	ReceiverID     int64     `json:"receiver_id"`
	CarID          int64     `json:"car_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationDeleted struct {
	ConversationID int64 `json:"conversation_id"`
	DeletedBy      int64 `json:"deleted_by"`
}

// NopPublisher drops every event. Used when RabbitMQ is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Delivery is an inbound event handed to a listener.
type Delivery struct {
	Queue  string
	Action string
	Data   []byte
}
