package service

import (
	"context"
	"strings"

	"marketplace-messenger/apperr"
	"marketplace-messenger/event"
	"marketplace-messenger/model"
	"marketplace-messenger/policy"
	"marketplace-messenger/realtime"
	"marketplace-messenger/store"
	"marketplace-messenger/utils"

	"github.com/sirupsen/logrus"
)

const (
	DefaultConversationLimit = 20
	DefaultMessageLimit      = 50
)

// Side-effect names reported in SendResult.Warnings.
const (
	EffectNotification       = "notification"
	EffectPush               = "push"
	EffectNotificationUpdate = "notification_update"
	EffectEvent              = "event"
)

// Pusher delivers an event to a user if connected.
type Pusher interface {
	Dispatch(userID int64, event string, payload any) (bool, error)
}

type SendInput struct {
	ConversationID int64  `json:"conversation_id"`
	ReceiverID     int64  `json:"receiver_id"`
	CarID          int64  `json:"car_id"`
	Message        string `json:"message"`
}

// SideEffect is a post-commit step that failed. It never fails the send.
type SideEffect struct {
	Name string
	Err  error
}

// SendResult reports the durable outcome of a send and the best-effort steps
// that followed it.
type SendResult struct {
	Message      model.MessageView
	Conversation model.Conversation
	Delivered    bool
	Warnings     []SideEffect
}

type ConversationDetail struct {
	Conversation model.ConversationView `json:"conversation"`
	Messages     []model.MessageView    `json:"messages"`
	Page         utils.Page             `json:"pagination"`
}

type Messenger struct {
	conversations *store.ConversationStore
	messages      *store.MessageStore
	notifications *store.NotificationStore
	directory     *store.Directory
	gate          *policy.Gate
	pusher        Pusher
	events        event.Publisher
	log           logrus.FieldLogger
}

type MessengerDeps struct {
	Conversations *store.ConversationStore
	Messages      *store.MessageStore
	Notifications *store.NotificationStore
	Directory     *store.Directory
	Gate          *policy.Gate
	Pusher        Pusher
	Events        event.Publisher
	Log           logrus.FieldLogger
}

func NewMessenger(deps MessengerDeps) *Messenger {
	events := deps.Events
	if events == nil {
		events = event.NopPublisher{}
	}
	return &Messenger{
		conversations: deps.Conversations,
		messages:      deps.Messages,
		notifications: deps.Notifications,
		directory:     deps.Directory,
		gate:          deps.Gate,
		pusher:        deps.Pusher,
		events:        events,
		log:           deps.Log,
	}
}

// SendMessage stores a message and then runs the notification, push and event
// steps. An error means nothing was stored; a non-nil result means the message
// is durable whatever its Warnings say.
func (m *Messenger) SendMessage(ctx context.Context, senderID int64, in SendInput) (*SendResult, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, apperr.ErrMessageRequired
	}
	if in.ConversationID < 0 || in.ReceiverID < 0 || in.CarID < 0 {
		return nil, apperr.ErrInvalidIdentifier
	}
	if in.ConversationID == 0 && (in.ReceiverID == 0 || in.CarID == 0) {
		return nil, apperr.ErrTargetRequired
	}
	if in.ConversationID == 0 && in.ReceiverID == senderID {
		return nil, apperr.ErrSelfConversation
	}

	receiverID, carID := in.ReceiverID, in.CarID
	if in.ConversationID > 0 {
		conv, err := m.conversations.GetByID(ctx, in.ConversationID)
		if err != nil {
			return nil, err
		}
		if err := m.gate.Authorize(ctx, senderID, policy.Conversation(conv.Conversation), policy.Write); err != nil {
			return nil, err
		}
		receiverID, carID = conv.OtherParticipant(senderID), conv.CarID
	}

	receiver, err := m.user(ctx, receiverID, apperr.ErrReceiverNotFound)
	if err != nil {
		return nil, err
	}
	if in.ConversationID == 0 {
		if _, err := m.directory.CarByID(ctx, carID); err != nil {
			return nil, err
		}
	}
	sender, err := m.user(ctx, senderID, apperr.ErrSenderNotFound)
	if err != nil {
		return nil, err
	}

	msg, conv, err := m.messages.Create(ctx, senderID, receiverID, carID, in.Message)
	if err != nil {
		return nil, err
	}

	result := &SendResult{
		Message: model.MessageView{
			Message:           *msg,
			SenderName:        sender.Name,
			SenderFirstname:   sender.Firstname,
			ReceiverName:      receiver.Name,
			ReceiverFirstname: receiver.Firstname,
		},
		Conversation: *conv,
	}

	// The message is committed; nothing below may fail the send.
	m.afterSend(context.WithoutCancel(ctx), result, sender)
	return result, nil
}

func (m *Messenger) user(ctx context.Context, id int64, notFound error) (*model.User, error) {
	user, err := m.directory.UserByID(ctx, id)
	if apperr.IsNotFound(err) {
		return nil, notFound
	}
	return user, err
}

func (m *Messenger) afterSend(ctx context.Context, result *SendResult, sender *model.User) {
	msg := result.Message.Message
	log := m.log.WithFields(logrus.Fields{
		"conversation_id": msg.ConversationID,
		"message_id":      msg.ID,
		"user_id":         msg.ReceiverID,
	})
	warn := func(name string, err error) {
		result.Warnings = append(result.Warnings, SideEffect{Name: name, Err: err})
		log.WithError(err).WithField("side_effect", name).Warn("message side effect failed")
	}

	_, notifyErr := m.notifications.CreateMessageNotification(ctx, msg.ReceiverID, msg.SenderID, msg.ConversationID, msg.Body)
	if notifyErr != nil {
		warn(EffectNotification, notifyErr)
	}

	delivered, err := m.pusher.Dispatch(msg.ReceiverID, realtime.EventReceiveMessage, realtime.ReceiveMessage{
		MessageID:      msg.ID,
		Message:        msg.Body,
		SenderID:       msg.SenderID,
		SenderName:     sender.DisplayName(),
		CarID:          msg.CarID,
		ConversationID: msg.ConversationID,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		warn(EffectPush, err)
	}
	result.Delivered = delivered

	if delivered {
		count, err := m.notifications.CountUnread(ctx, msg.ReceiverID)
		if err == nil {
			_, err = m.pusher.Dispatch(msg.ReceiverID, realtime.EventNotificationUpdate, realtime.NotificationUpdate{Count: count})
		}
		if err != nil {
			warn(EffectNotificationUpdate, err)
		}
	}

	err = m.events.Publish(ctx, event.ActionMessageCreated, event.MessageCreated{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		CarID:          msg.CarID,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		warn(EffectEvent, err)
	}
}

func (m *Messenger) ListConversations(ctx context.Context, userID int64, page utils.Page) ([]model.ConversationSummary, error) {
	return m.conversations.ListByUser(ctx, userID, page)
}

// OpenConversation returns a page of messages and marks the caller's unread
// messages in the conversation as read. Non-participants get Forbidden and
// nothing is changed.
func (m *Messenger) OpenConversation(ctx context.Context, userID, conversationID int64, page utils.Page) (*ConversationDetail, error) {
	if conversationID <= 0 {
		return nil, apperr.ErrInvalidIdentifier
	}
	conv, err := m.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := m.gate.Authorize(ctx, userID, policy.Conversation(conv.Conversation), policy.Read); err != nil {
		return nil, err
	}
	return m.open(ctx, userID, conv, page)
}

// StartConversation gets or creates the conversation between the caller and
// otherID about carID and opens it.
func (m *Messenger) StartConversation(ctx context.Context, userID, otherID, carID int64, page utils.Page) (*ConversationDetail, error) {
	if otherID <= 0 || carID <= 0 {
		return nil, apperr.ErrInvalidIdentifier
	}
	if otherID == userID {
		return nil, apperr.ErrSelfConversation
	}
	if _, err := m.directory.UserByID(ctx, otherID); err != nil {
		return nil, err
	}
	if _, err := m.directory.CarByID(ctx, carID); err != nil {
		return nil, err
	}

	created, err := m.conversations.GetOrCreate(ctx, userID, otherID, carID)
	if err != nil {
		return nil, err
	}
	conv, err := m.conversations.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return m.open(ctx, userID, conv, page)
}

func (m *Messenger) open(ctx context.Context, userID int64, conv *model.ConversationView, page utils.Page) (*ConversationDetail, error) {
	messages, err := m.messages.ListByConversation(ctx, conv.ID, page)
	if err != nil {
		return nil, err
	}

	marked, err := m.messages.MarkAsRead(ctx, conv.ID, userID)
	if err != nil {
		return nil, err
	}
	if marked > 0 {
		m.log.WithFields(logrus.Fields{
			"conversation_id": conv.ID,
			"user_id":         userID,
			"count":           marked,
		}).Debug("messages marked as read")
	}

	return &ConversationDetail{Conversation: *conv, Messages: messages, Page: page}, nil
}

func (m *Messenger) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return m.messages.CountUnread(ctx, userID)
}

// DeleteConversation removes a conversation and its messages.
func (m *Messenger) DeleteConversation(ctx context.Context, userID, conversationID int64) error {
	if conversationID <= 0 {
		return apperr.ErrInvalidIdentifier
	}
	conv, err := m.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if err := m.gate.Authorize(ctx, userID, policy.Conversation(conv.Conversation), policy.Delete); err != nil {
		return err
	}

	deleted, err := m.conversations.Delete(ctx, conversationID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.ErrConversationNotFound
	}

	err = m.events.Publish(context.WithoutCancel(ctx), event.ActionConversationDeleted, event.ConversationDeleted{
		ConversationID: conversationID,
		DeletedBy:      userID,
	})
	if err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"conversation_id": conversationID,
			"side_effect":     EffectEvent,
		}).Warn("conversation side effect failed")
	}
	return nil
}
