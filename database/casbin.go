package database

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Attribute-based model: each policy line holds a rule evaluated against the
// request subject and the resource attributes.
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub_rule, obj_kind, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.obj.Kind == p.obj_kind && r.act == p.act && eval(p.sub_rule)
`

const (
	participantRule = "r.sub == r.obj.Owner || r.sub == r.obj.Peer"
	ownerRule       = "r.sub == r.obj.Owner"
)

// DefaultPolicies are seeded when absent from casbin_rule.
var DefaultPolicies = [][]string{
	{participantRule, "conversation", "read"},
	{participantRule, "conversation", "write"},
	{participantRule, "conversation", "delete"},
	{ownerRule, "notification", "read"},
	{ownerRule, "notification", "write"},
	{ownerRule, "notification", "delete"},
}

// Casbin builds the enforcer backed by the casbin_rule table in db.
func Casbin(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, errors.Wrap(err, "database.Casbin.NewAdapterByDB")
	}

	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, errors.Wrap(err, "database.Casbin.NewModelFromString")
	}

	e, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, errors.Wrap(err, "database.Casbin.NewSyncedEnforcer")
	}

	for _, rule := range DefaultPolicies {
		if _, err := e.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, errors.Wrap(err, "database.Casbin.AddPolicy")
		}
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, errors.Wrap(err, "database.Casbin.LoadPolicy")
	}
	return e, nil
}
