package accesscontrol

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleManager      Role = "manager"
	RoleEmployee     Role = "employee"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

// Actor is the authenticated caller every service operation receives.
// CompanyID is nil only for super_admin accounts; EmployeeID is set when
// the account is linked to an employee record.
type Actor struct {
	UserID     uuid.UUID
	Role       Role
	CompanyID  *uuid.UUID
	EmployeeID *uuid.UUID
}

func (a Actor) Validate() error {
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	if a.Role != RoleSuperAdmin && a.CompanyID == nil {
		return ErrMissingTenant
	}
	return nil
}

// SuperAdmin builds a tenant-unrestricted actor.
func SuperAdmin(userID uuid.UUID) Actor {
	return Actor{UserID: userID, Role: RoleSuperAdmin}
}
