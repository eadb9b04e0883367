// Package policy centralizes participant and owner checks. Services call
// Authorize before handing an existing conversation or notification to a store.
package policy

import (
	"context"
	"strconv"

	"marketplace-messenger/apperr"
	"marketplace-messenger/model"

	"github.com/casbin/casbin/v2"
	"github.com/sirupsen/logrus"
)

type Action string

const (
	Read   Action = "read"
	Write  Action = "write"
	Delete Action = "delete"
)

const (
	KindConversation = "conversation"
	KindNotification = "notification"
)

// Resource is the attribute set the casbin matcher evaluates. Ids are strings
// so they compare directly against the request subject.
type Resource struct {
	Kind  string
	Owner string
	Peer  string
}

func Conversation(c model.Conversation) Resource {
	return Resource{
		Kind:  KindConversation,
		Owner: strconv.FormatInt(c.User1ID, 10),
		Peer:  strconv.FormatInt(c.User2ID, 10),
	}
}

func Notification(n model.Notification) Resource {
	return Resource{
		Kind:  KindNotification,
		Owner: strconv.FormatInt(n.UserID, 10),
	}
}

// Enforcer is the slice of casbin the gate needs.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

var _ Enforcer = (*casbin.SyncedEnforcer)(nil)

type Gate struct {
	enforcer Enforcer
	log      logrus.FieldLogger
}

func NewGate(enforcer Enforcer, log logrus.FieldLogger) *Gate {
	return &Gate{enforcer: enforcer, log: log}
}

// Authorize returns nil when userID may perform action on res, a Forbidden
// error when it may not and Internal when the policy cannot be evaluated.
func (g *Gate) Authorize(_ context.Context, userID int64, res Resource, action Action) error {
	allowed, err := g.enforcer.Enforce(strconv.FormatInt(userID, 10), res, string(action))
	if err != nil {
		return apperr.Internal("policy evaluation failed", err)
	}
	if allowed {
		return nil
	}

	g.log.WithFields(logrus.Fields{
		"user_id": userID,
		"kind":    res.Kind,
		"action":  action,
	}).Info("access denied")

	if res.Kind == KindNotification {
		return apperr.ErrNotOwner
	}
	return apperr.ErrNotParticipant
}
