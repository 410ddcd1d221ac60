package navigation

import (
	"slices"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
)

// Item is a static entry of the dashboard navigation tree.
type Item struct {
	Name           string              `json:"name"`
	Href           string              `json:"href"`
	Icon           string              `json:"icon"`
	Permissions    []access.Permission `json:"permissions"`
	Roles          []access.Role       `json:"roles,omitempty"`
	Children       []Item              `json:"children,omitempty"`
	BranchSpecific bool                `json:"branchSpecific,omitempty"`
}

// Access answers the questions the filter needs about the current session.
type Access interface {
	HasAnyPermission(permissions []access.Permission) bool
	HasRole(role access.Role) bool
	HasBranchAccess() bool
}

// Filter returns the items visible to a. An item survives when at least one of
// its permissions is granted, the role restriction (if any) matches and, for
// branch-specific items, the session resolves to at least one branch.
// Children of a hidden item never appear. Declaration order is kept.
func Filter(items []Item, a Access) []Item {
	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if !allowed(item, a) {
			continue
		}

		kept := item
		if len(item.Children) > 0 {
			children := make([]Item, 0, len(item.Children))
			for _, child := range item.Children {
				if allowed(child, a) {
					children = append(children, child)
				}
			}
			kept.Children = children
		}
		visible = append(visible, kept)
	}
	return visible
}

func allowed(item Item, a Access) bool {
	if !a.HasAnyPermission(item.Permissions) {
		return false
	}
	if len(item.Roles) > 0 && !slices.ContainsFunc(item.Roles, a.HasRole) {
		return false
	}
	if item.BranchSpecific && !a.HasBranchAccess() {
		return false
	}
	return true
}

// ActorAccess adapts an access.Actor and the current branch tree to Access.
type ActorAccess struct {
	Actor     access.Actor
	Hierarchy access.Hierarchy
}

func (a ActorAccess) HasAnyPermission(permissions []access.Permission) bool {
	return access.HasAnyPermission(a.Actor.Role, permissions)
}

func (a ActorAccess) HasRole(role access.Role) bool {
	return a.Actor.Role == role
}

// HasBranchAccess holds when the actor can act on its home branch or on one of
// its assigned branches. A home branch missing from the tree does not count.
func (a ActorAccess) HasBranchAccess() bool {
	if a.Actor.Role.IsAdmin() {
		return true
	}
	if a.Actor.BranchID != "" && a.Actor.CanAccessBranch(a.Actor.BranchID, a.Hierarchy) {
		return true
	}
	for _, id := range a.Actor.AssignedBranchIDs {
		if a.Actor.CanAccessBranch(id, a.Hierarchy) {
			return true
		}
	}
	return false
}

// ForActor filters the default tree for one session.
func ForActor(actor access.Actor, hierarchy access.Hierarchy) []Item {
	return Filter(DefaultItems(), ActorAccess{Actor: actor, Hierarchy: hierarchy})
}
