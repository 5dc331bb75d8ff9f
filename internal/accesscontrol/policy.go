package accesscontrol

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/google/uuid"
)

// Operation classes the policy knows about. Services name the class,
// never individual routes.
type Operation string

const (
	OpCompanyCreate   Operation = "company:create"
	OpCompanyWrite    Operation = "company:write"
	OpOrgWrite        Operation = "org:write"
	OpOrgRead         Operation = "org:read"
	OpEmployeeRead    Operation = "employee:read"
	OpEmployeeWrite   Operation = "employee:write"
	OpEmployeeDelete  Operation = "employee:delete"
	OpAttendanceClock Operation = "attendance:clock"
	OpAttendanceRead  Operation = "attendance:read"
	OpLeaveCreate     Operation = "leave:create"
	OpLeaveRead       Operation = "leave:read"
	OpLeaveApprove    Operation = "leave:approve"
)

// Scope is the tenant restriction an authorized operation must run under.
// A nil CompanyID means unrestricted (super_admin).
type Scope struct {
	CompanyID *uuid.UUID
}

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// Grants are declared at the least-privileged role that holds them; the
// grouping policy lets higher roles inherit downward.
var grants = [][2]string{
	{string(RoleSuperAdmin), string(OpCompanyCreate)},
	{string(RoleCompanyAdmin), string(OpCompanyWrite)},
	{string(RoleCompanyAdmin), string(OpOrgWrite)},
	{string(RoleCompanyAdmin), string(OpEmployeeDelete)},
	{string(RoleManager), string(OpEmployeeWrite)},
	{string(RoleManager), string(OpLeaveApprove)},
	{string(RoleEmployee), string(OpOrgRead)},
	{string(RoleEmployee), string(OpEmployeeRead)},
	{string(RoleEmployee), string(OpAttendanceClock)},
	{string(RoleEmployee), string(OpAttendanceRead)},
	{string(RoleEmployee), string(OpLeaveCreate)},
	{string(RoleEmployee), string(OpLeaveRead)},
}

var roleChain = [][2]string{
	{string(RoleSuperAdmin), string(RoleCompanyAdmin)},
	{string(RoleCompanyAdmin), string(RoleManager)},
	{string(RoleManager), string(RoleEmployee)},
}

//go:generate mockgen -source=policy.go -destination=mock/policy_mock.go -package=mock
type Policy interface {
	// Authorize decides whether actor may perform op against the tenant
	// identified by target (nil when the operation names no tenant) and
	// returns the query scope the operation must be narrowed to.
	Authorize(actor Actor, op Operation, target *uuid.UUID) (Scope, error)

	// EmployeeFilter forces employee-role callers onto their own records:
	// whatever filter they requested is replaced by their linked employee
	// id. Other roles keep the requested filter.
	EmployeeFilter(actor Actor, requested *uuid.UUID) *uuid.UUID
}

type policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, g := range roleChain {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	for _, p := range grants {
		if _, err := enforcer.AddPolicy(p[0], p[1]); err != nil {
			return nil, err
		}
	}

	return &policy{enforcer: enforcer}, nil
}

func (p *policy) Authorize(actor Actor, op Operation, target *uuid.UUID) (Scope, error) {
	if err := actor.Validate(); err != nil {
		return Scope{}, err
	}

	allowed, err := p.enforcer.Enforce(string(actor.Role), string(op))
	if err != nil {
		return Scope{}, err
	}
	if !allowed {
		return Scope{}, ErrOperationNotAllowed
	}

	if actor.Role == RoleSuperAdmin {
		return Scope{}, nil
	}

	if target != nil && *target != *actor.CompanyID {
		return Scope{}, ErrTenantMismatch
	}

	return Scope{CompanyID: actor.CompanyID}, nil
}

func (p *policy) EmployeeFilter(actor Actor, requested *uuid.UUID) *uuid.UUID {
	if actor.Role == RoleEmployee && actor.EmployeeID != nil {
		return actor.EmployeeID
	}
	return requested
}
