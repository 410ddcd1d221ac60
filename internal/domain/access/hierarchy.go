package access

import "slices"

// BranchNode is one branch in the organisation tree. Path lists the ids from
// the root down to and including the node itself, so "is descendant of X" is
// a containment check on Path.
type BranchNode struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Code     string   `json:"code,omitempty"`
	ParentID *string  `json:"parentId"`
	Level    int      `json:"level"`
	Path     []string `json:"path"`
}

// DescendsFrom reports whether id appears on the node's path (self included).
func (n BranchNode) DescendsFrom(id string) bool {
	return slices.Contains(n.Path, id)
}

// Hierarchy is a flattened branch tree. A nil Hierarchy means "not supplied";
// an empty non-nil one is a supplied tree without nodes.
type Hierarchy []BranchNode

// Find returns the node with the given id.
func (h Hierarchy) Find(id string) (BranchNode, bool) {
	for _, n := range h {
		if n.ID == id {
			return n, true
		}
	}
	return BranchNode{}, false
}

// IDs returns every branch id in declaration order.
func (h Hierarchy) IDs() []string {
	ids := make([]string, 0, len(h))
	for _, n := range h {
		ids = append(ids, n.ID)
	}
	return ids
}

// CanAccessBranch decides whether a user with the given role, home branch and
// explicit assignments may act on targetBranchID. userBranchID is empty when
// the user has no home branch.
func CanAccessBranch(role Role, userBranchID, targetBranchID string, hierarchy Hierarchy, assignedBranchIDs []string) bool {
	if role == RoleAdmin {
		return true
	}
	if userBranchID == "" && len(assignedBranchIDs) == 0 {
		return false
	}

	if slices.Contains(assignedBranchIDs, targetBranchID) {
		return true
	}

	if hierarchy == nil {
		return userBranchID != "" && userBranchID == targetBranchID
	}

	if _, ok := hierarchy.Find(userBranchID); !ok {
		return false
	}
	target, ok := hierarchy.Find(targetBranchID)
	if !ok {
		return false
	}

	switch role {
	case RoleBranchManager:
		if target.DescendsFrom(userBranchID) {
			return true
		}
		for _, id := range assignedBranchIDs {
			if target.DescendsFrom(id) {
				return true
			}
		}
		return false
	case RoleSupervisor, RoleUser:
		return userBranchID == targetBranchID
	case RoleAdmin:
		return true
	default:
		return false
	}
}

// AccessibleBranches lists the branch ids a user may view or act on.
//
// Branch managers get one expansion pass: every node whose path contains one
// of the directly held branches (home + assigned) is added. Nodes reached only
// through that expansion are not expanded again.
func AccessibleBranches(role Role, userBranchID string, hierarchy Hierarchy, assignedBranchIDs []string) []string {
	if role == RoleAdmin {
		return hierarchy.IDs()
	}

	var (
		result []string
		seen   = make(map[string]struct{})
	)
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	for _, id := range assignedBranchIDs {
		add(id)
	}
	if userBranchID != "" {
		add(userBranchID)
	}

	switch role {
	case RoleBranchManager:
		direct := slices.Clone(result)
		for _, node := range hierarchy {
			for _, id := range direct {
				if node.DescendsFrom(id) {
					add(node.ID)
					break
				}
			}
		}
	case RoleSupervisor, RoleUser:
	default:
		return []string{}
	}

	if result == nil {
		return []string{}
	}
	return result
}
