package router

import (
	"errors"
	"testing"
	"time"

	"marketplace-messenger/apperr"
	"marketplace-messenger/realtime"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	mock.Mock
	id string
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Emit(event string, payload any) error {
	return m.Called(event, payload).Error(0)
}

func newRelay() (*Relay, *realtime.Registry) {
	log, _ := test.NewNullLogger()
	registry := realtime.NewRegistry()
	relay := NewRelay(registry, realtime.NewDispatcher(registry, log), log)
	relay.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return relay, registry
}

func TestRelaySendMessage_UsesConnectionIdentity(t *testing.T) {
	relay, _ := newRelay()

	receiver := &mockConn{id: "r"}
	receiver.On("Emit", realtime.EventReceiveMessage, realtime.ReceiveMessage{
		Message:        "On my way",
		SenderID:       5,
		SenderName:     "Alice Martin",
		CarID:          42,
		ConversationID: 17,
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}).Return(nil).Once()
	relay.Connect(9, receiver)

	err := relay.SendMessage(5, map[string]interface{}{
		"receiverId":     float64(9),
		"senderId":       float64(77),
		"message":        "On my way",
		"senderName":     "Alice Martin",
		"carId":          float64(42),
		"conversationId": float64(17),
	})
	require.NoError(t, err)
	receiver.AssertExpectations(t)
}

func TestRelaySendMessage_Invalid(t *testing.T) {
	relay, _ := newRelay()

	assert.ErrorIs(t, relay.SendMessage(5, map[string]interface{}{"receiverId": float64(5), "message": "me"}), apperr.ErrInvalidIdentifier)
	assert.ErrorIs(t, relay.SendMessage(5, map[string]interface{}{"receiverId": float64(9)}), apperr.ErrMessageRequired)
	assert.ErrorIs(t, relay.SendMessage(5, map[string]interface{}{"receiverId": float64(9), "message": " \n\t "}), apperr.ErrMessageRequired)
	assert.True(t, apperr.CodeOf(relay.SendMessage(5, "garbage")) == apperr.CodeInvalidArgument)

	assert.NoError(t, relay.SendMessage(5, map[string]interface{}{"receiverId": float64(9), "message": "offline"}))
}

func TestRelayTyping(t *testing.T) {
	relay, _ := newRelay()

	receiver := &mockConn{id: "r"}
	receiver.On("Emit", realtime.EventTyping, realtime.Typing{SenderID: 9, ConversationID: 17, IsTyping: true}).Return(nil).Once()
	relay.Connect(5, receiver)

	require.NoError(t, relay.Typing(9, map[string]interface{}{
		"receiverId":     float64(5),
		"conversationId": float64(17),
		"isTyping":       true,
	}))
	receiver.AssertExpectations(t)
}

func TestRelayTyping_EmitError(t *testing.T) {
	relay, _ := newRelay()

	receiver := &mockConn{id: "r"}
	receiver.On("Emit", realtime.EventTyping, mock.Anything).Return(errors.New("gone"))
	relay.Connect(5, receiver)

	assert.Error(t, relay.Typing(9, map[string]interface{}{"receiverId": float64(5), "isTyping": false}))
}

func TestRelayConnect_StaleDisconnect(t *testing.T) {
	relay, registry := newRelay()

	first := &mockConn{id: "first"}
	second := &mockConn{id: "second"}

	disconnectFirst := relay.Connect(9, first)
	disconnectSecond := relay.Connect(9, second)

	disconnectFirst()
	conn, ok := registry.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, "second", conn.ID())

	disconnectSecond()
	assert.False(t, registry.Online(9))
}
