package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	ResourceLeave   = "leave"
	ResourceProfile = "profile"

	ActionCreate  = "create"
	ActionReadOwn = "read_own"
	ActionReadAll = "read_all"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionRead    = "read"
	ActionUpdate  = "update"
)

// employer inherits every employee permission through g.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

var defaultPolicies = [][]string{
	{"employee", ResourceLeave, ActionCreate},
	{"employee", ResourceLeave, ActionReadOwn},
	{"employee", ResourceProfile, ActionRead},
	{"employee", ResourceProfile, ActionUpdate},

	{"employer", ResourceLeave, ActionReadAll},
	{"employer", ResourceLeave, ActionApprove},
	{"employer", ResourceLeave, ActionReject},
	{"employer", ResourceProfile, "*"},
}

var defaultGroupings = [][]string{
	{"employer", "employee"},
}

// NewEnforcer builds an in-memory enforcer loaded with the built-in role policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, err
	}

	return e, nil
}
