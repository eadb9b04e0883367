package policy

import (
	"context"
	"testing"

	"marketplace-messenger/apperr"
	"marketplace-messenger/database"
	"marketplace-messenger/internal/testutil"
	"marketplace-messenger/model"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) (*Gate, *test.Hook) {
	t.Helper()
	enforcer, err := database.Casbin(testutil.NewDB(t))
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewGate(enforcer, log), hook
}

func TestAuthorizeConversation(t *testing.T) {
	gate, hook := newGate(t)
	ctx := context.Background()
	conv := model.Conversation{ID: 17, CarID: testutil.Car, User1ID: testutil.Buyer, User2ID: testutil.Seller}

	for _, action := range []Action{Read, Write, Delete} {
		assert.NoError(t, gate.Authorize(ctx, testutil.Buyer, Conversation(conv), action))
		assert.NoError(t, gate.Authorize(ctx, testutil.Seller, Conversation(conv), action))

		err := gate.Authorize(ctx, testutil.Outsider, Conversation(conv), action)
		assert.ErrorIs(t, err, apperr.ErrNotParticipant)
	}
	assert.Len(t, hook.AllEntries(), 3)
}

func TestAuthorizeNotification(t *testing.T) {
	gate, _ := newGate(t)
	ctx := context.Background()
	n := model.Notification{ID: 3, UserID: testutil.Seller}

	assert.NoError(t, gate.Authorize(ctx, testutil.Seller, Notification(n), Write))

	err := gate.Authorize(ctx, testutil.Buyer, Notification(n), Delete)
	assert.ErrorIs(t, err, apperr.ErrNotOwner)
	assert.True(t, apperr.IsForbidden(err))
}

func TestAuthorizeUnknownAction(t *testing.T) {
	gate, _ := newGate(t)
	conv := model.Conversation{User1ID: testutil.Buyer, User2ID: testutil.Seller}

	err := gate.Authorize(context.Background(), testutil.Buyer, Conversation(conv), Action("archive"))
	assert.True(t, apperr.IsForbidden(err))
}

func TestPoliciesSeededOnce(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := database.Casbin(db)
	require.NoError(t, err)
	_, err = database.Casbin(db)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Table("casbin_rule").Count(&rows).Error)
	assert.EqualValues(t, len(database.DefaultPolicies), rows)
}
