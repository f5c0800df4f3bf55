// internal/models/role.go
package models

import "fmt"

// Role is the closed set of account roles. Authorization rules for the lease
// workflow are expressed as predicates on Role rather than string checks.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSecurity   Role = "security"
	RoleTechnician Role = "technician"
	RoleAccountant Role = "accountant"
	RoleResident   Role = "resident"
	RoleOwner      Role = "owner"
	RoleUser       Role = "user"
)

var allRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleSecurity,
	RoleTechnician,
	RoleAccountant,
	RoleResident,
	RoleOwner,
	RoleUser,
}

func ParseRole(name string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", name)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsStaff reports whether the role belongs to building staff.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSecurity, RoleTechnician, RoleAccountant:
		return true
	}
	return false
}

// HoldsApartment reports whether the role implies the account already lives in
// or owns an apartment.
func (r Role) HoldsApartment() bool {
	return r == RoleResident || r == RoleOwner
}

func (r Role) CanCreateLeaseRequest() bool {
	return r == RoleUser
}

func (r Role) CanDecideLeaseRequest() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) CanViewAllLeaseRequests() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) CanCancelAnyLeaseRequest() bool {
	return r == RoleAdmin
}
