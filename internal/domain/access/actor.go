package access

// Actor is the authenticated caller as seen by the rule core.
type Actor struct {
	UserID            string
	Role              Role
	BranchID          string // home branch, empty when unset
	AssignedBranchIDs []string
}

func (a Actor) Can(p Permission) bool {
	return HasPermission(a.Role, p)
}

func (a Actor) CanAny(ps ...Permission) bool {
	return HasAnyPermission(a.Role, ps)
}

func (a Actor) CanAll(ps ...Permission) bool {
	return HasAllPermissions(a.Role, ps)
}

// HasAnyBranch reports whether the actor is attached to at least one branch.
func (a Actor) HasAnyBranch() bool {
	return a.Role == RoleAdmin || a.BranchID != "" || len(a.AssignedBranchIDs) > 0
}

func (a Actor) CanAccessBranch(targetBranchID string, hierarchy Hierarchy) bool {
	return CanAccessBranch(a.Role, a.BranchID, targetBranchID, hierarchy, a.AssignedBranchIDs)
}

func (a Actor) AccessibleBranches(hierarchy Hierarchy) []string {
	return AccessibleBranches(a.Role, a.BranchID, hierarchy, a.AssignedBranchIDs)
}
