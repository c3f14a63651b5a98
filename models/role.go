package models

import "fmt"

// Role is the access level of a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// ParseRole converts s into a known [Role].
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return r, nil
	}

	return "", fmt.Errorf("unknown role %q", s)
}

// String implements [fmt.Stringer].
func (r Role) String() string {
	return string(r)
}

// Roles is an immutable set of roles allowed to pass a role guard.
type Roles struct {
	set map[Role]struct{}
}

// NewRoles builds a role set from the given members.
func NewRoles(roles ...Role) Roles {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}

	return Roles{set: set}
}

// Has reports whether r belongs to the set.
func (rs Roles) Has(r Role) bool {
	_, ok := rs.set[r]
	return ok
}

// Len returns the number of roles in the set.
func (rs Roles) Len() int {
	return len(rs.set)
}
