package access

import "fmt"

type Role string

const (
	RoleAdmin         Role = "admin"          // Full access to every branch
	RoleBranchManager Role = "branch_manager" // Home + assigned branches and their descendants
	RoleSupervisor    Role = "supervisor"     // Home + assigned branches
	RoleUser          Role = "user"           // Home + assigned branches, submit only
)

// Roles returns every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleBranchManager, RoleSupervisor, RoleUser}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBranchManager, RoleSupervisor, RoleUser:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole converts a raw claim or column value to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}
