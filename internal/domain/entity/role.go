package entity

import (
	"fmt"
	"strings"
)

// Role identifies what a user is allowed to do in the approval workflow.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleFinance  Role = "finance"
	RoleAdmin    Role = "admin"
)

var validRoles = map[Role]bool{
	RoleEmployee: true,
	RoleManager:  true,
	RoleFinance:  true,
	RoleAdmin:    true,
}

// ParseRole converts a stored string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(s))
	if !validRoles[role] {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// IsReviewer reports whether the role may review other employees' reports.
func (r Role) IsReviewer() bool {
	return r == RoleManager || r == RoleFinance || r == RoleAdmin
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
