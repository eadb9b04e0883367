package router

import (
	"encoding/json"
	"strings"
	"time"

	"marketplace-messenger/apperr"
	"marketplace-messenger/realtime"
	"marketplace-messenger/socketio"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/socket.io/v2/socket"
)

// Relay forwards ephemeral socket events between connected users. Nothing it
// handles is persisted.
type Relay struct {
	registry   *realtime.Registry
	dispatcher *realtime.Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewRelay(registry *realtime.Registry, dispatcher *realtime.Dispatcher, log logrus.FieldLogger) *Relay {
	return &Relay{registry: registry, dispatcher: dispatcher, log: log, now: time.Now}
}

// SendMessage pushes an inbound send_message to the receiver as
// receive_message. The sender is the authenticated connection, not the payload.
func (r *Relay) SendMessage(senderID int64, arg any) error {
	in := realtime.SendMessage{}
	if err := decode(arg, &in); err != nil {
		return err
	}
	if in.ReceiverID <= 0 || in.ReceiverID == senderID {
		return apperr.ErrInvalidIdentifier
	}
	if strings.TrimSpace(in.Message) == "" {
		return apperr.ErrMessageRequired
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	_, err := r.dispatcher.Dispatch(in.ReceiverID, realtime.EventReceiveMessage, realtime.ReceiveMessage{
		Message:        in.Message,
		SenderID:       senderID,
		SenderName:     in.SenderName,
		CarID:          in.CarID,
		ConversationID: in.ConversationID,
		CreatedAt:      createdAt,
	})
	return err
}

// Typing forwards a typing indicator to its receiver.
func (r *Relay) Typing(senderID int64, arg any) error {
	in := realtime.Typing{}
	if err := decode(arg, &in); err != nil {
		return err
	}
	if in.ReceiverID <= 0 || in.ReceiverID == senderID {
		return apperr.ErrInvalidIdentifier
	}

	_, err := r.dispatcher.Dispatch(in.ReceiverID, realtime.EventTyping, realtime.Typing{
		SenderID:       senderID,
		ConversationID: in.ConversationID,
		IsTyping:       in.IsTyping,
	})
	return err
}

// Connect registers the connection of userID and returns the cleanup to run
// on disconnect.
func (r *Relay) Connect(userID int64, conn realtime.Conn) func() {
	log := r.log.WithFields(logrus.Fields{"user_id": userID, "conn_id": conn.ID()})

	if replaced := r.registry.Register(userID, conn); replaced != nil {
		log.WithField("replaced", replaced.ID()).Info("user reconnected, previous connection replaced")
	} else {
		log.Info("user connected")
	}

	return func() {
		if r.registry.Unregister(userID, conn.ID()) {
			log.Info("user disconnected")
		}
	}
}

func Socket(server *socket.Server, relay *Relay) {
	server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		userID, ok := socketio.UserID(client)
		if !ok {
			client.Disconnect(true)
			return
		}
		disconnect := relay.Connect(userID, socketio.NewConn(server, client))

		client.On(realtime.EventSendMessage, func(args ...interface{}) {
			if len(args) == 0 {
				return
			}
			if err := relay.SendMessage(userID, args[0]); err != nil {
				relay.log.WithError(err).WithField("user_id", userID).Debug("send_message relay failed")
			}
		})

		client.On(realtime.EventTyping, func(args ...interface{}) {
			if len(args) == 0 {
				return
			}
			if err := relay.Typing(userID, args[0]); err != nil {
				relay.log.WithError(err).WithField("user_id", userID).Debug("typing relay failed")
			}
		})

		client.On("disconnect", func(...interface{}) {
			disconnect()
		})
	})
}

// decode converts a socket.io argument (already JSON-decoded into maps) into dst.
func decode(arg any, dst any) error {
	raw, err := json.Marshal(arg)
	if err != nil {
		return apperr.Validation("invalid payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("invalid payload")
	}
	return nil
}
