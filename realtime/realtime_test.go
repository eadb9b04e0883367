package realtime

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	mock.Mock
	id string
}

func newMockConn(id string) *mockConn {
	return &mockConn{id: id}
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Emit(event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	first := newMockConn("a")
	second := newMockConn("b")

	assert.Nil(t, reg.Register(9, first))
	assert.Equal(t, first, reg.Register(9, second))

	conn, ok := reg.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, "b", conn.ID())

	assert.False(t, reg.Unregister(9, "a"), "stale disconnect must not evict the newer connection")
	assert.True(t, reg.Online(9))

	assert.True(t, reg.Unregister(9, "b"))
	assert.False(t, reg.Online(9))
	assert.False(t, reg.Unregister(9, "b"))
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()
	reg.Register(1, newMockConn("a"))
	reg.Register(2, newMockConn("b"))
	require.Equal(t, 2, reg.Len())

	reg.Close()
	assert.Zero(t, reg.Len())

	reg.Register(3, newMockConn("c"))
	assert.False(t, reg.Online(3))
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := int64(i % 10)
			connID := fmt.Sprintf("conn-%d", i)
			reg.Register(userID, newMockConn(connID))
			reg.Online(userID)
			reg.Unregister(userID, connID)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, reg.Len(), 10)
}

func TestDispatch_Offline(t *testing.T) {
	log, _ := test.NewNullLogger()
	d := NewDispatcher(NewRegistry(), log)

	delivered, err := d.Dispatch(9, EventReceiveMessage, ReceiveMessage{Message: "hi"})
	assert.NoError(t, err)
	assert.False(t, delivered)
}

func TestDispatch_Online(t *testing.T) {
	log, _ := test.NewNullLogger()
	reg := NewRegistry()
	d := NewDispatcher(reg, log)

	old := newMockConn("old")
	current := newMockConn("current")
	payload := NotificationUpdate{Count: 3}
	current.On("Emit", EventNotificationUpdate, payload).Return(nil).Once()

	reg.Register(9, old)
	reg.Register(9, current)

	delivered, err := d.Dispatch(9, EventNotificationUpdate, payload)
	require.NoError(t, err)
	assert.True(t, delivered)

	current.AssertNumberOfCalls(t, "Emit", 1)
	old.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestDispatch_EmitFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	reg := NewRegistry()
	d := NewDispatcher(reg, log)

	conn := newMockConn("a")
	conn.On("Emit", EventTyping, mock.Anything).Return(errors.New("socket closed"))
	reg.Register(5, conn)

	delivered, err := d.Dispatch(5, EventTyping, Typing{SenderID: 9, ConversationID: 17, IsTyping: true})
	assert.Error(t, err)
	assert.False(t, delivered)
	assert.True(t, d.Online(5))
}
