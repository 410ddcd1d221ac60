package access

type Permission string

const (
	// Reports
	PermissionViewReports        Permission = "view_reports"
	PermissionCreateReports      Permission = "create_reports"
	PermissionEditReports        Permission = "edit_reports"
	PermissionDeleteReports      Permission = "delete_reports"
	PermissionReviewReports      Permission = "review_reports"
	PermissionConsolidateReports Permission = "consolidate_reports"
	PermissionExportReports      Permission = "export_reports"
	PermissionApproveReports     Permission = "approve_reports"
	PermissionArchiveReports     Permission = "archive_reports"
	PermissionRestoreReports     Permission = "restore_reports"

	// Branch
	PermissionViewBranch          Permission = "view_branch"
	PermissionManageBranch        Permission = "manage_branch"
	PermissionCreateBranch        Permission = "create_branch"
	PermissionEditBranch          Permission = "edit_branch"
	PermissionDeleteBranch        Permission = "delete_branch"
	PermissionAssignBranchManager Permission = "assign_branch_manager"
	PermissionViewBranchAnalytics Permission = "view_branch_analytics"

	// Users
	PermissionViewUsers         Permission = "view_users"
	PermissionManageUsers       Permission = "manage_users"
	PermissionCreateUser        Permission = "create_user"
	PermissionEditUser          Permission = "edit_user"
	PermissionDeleteUser        Permission = "delete_user"
	PermissionAssignRoles       Permission = "assign_roles"
	PermissionResetUserPassword Permission = "reset_user_password"

	// Dashboard
	PermissionViewDashboard      Permission = "view_dashboard"
	PermissionViewAnalytics      Permission = "view_analytics"
	PermissionExportAnalytics    Permission = "export_analytics"
	PermissionCustomizeDashboard Permission = "customize_dashboard"

	// Audit
	PermissionViewAuditLogs   Permission = "view_audit_logs"
	PermissionExportAuditLogs Permission = "export_audit_logs"

	// Settings
	PermissionManageSettings Permission = "manage_settings"
)

// allPermissions lists the permission universe in declaration order.
var allPermissions = []Permission{
	PermissionViewReports,
	PermissionCreateReports,
	PermissionEditReports,
	PermissionDeleteReports,
	PermissionReviewReports,
	PermissionConsolidateReports,
	PermissionExportReports,
	PermissionApproveReports,
	PermissionArchiveReports,
	PermissionRestoreReports,
	PermissionViewBranch,
	PermissionManageBranch,
	PermissionCreateBranch,
	PermissionEditBranch,
	PermissionDeleteBranch,
	PermissionAssignBranchManager,
	PermissionViewBranchAnalytics,
	PermissionViewUsers,
	PermissionManageUsers,
	PermissionCreateUser,
	PermissionEditUser,
	PermissionDeleteUser,
	PermissionAssignRoles,
	PermissionResetUserPassword,
	PermissionViewDashboard,
	PermissionViewAnalytics,
	PermissionExportAnalytics,
	PermissionCustomizeDashboard,
	PermissionViewAuditLogs,
	PermissionExportAuditLogs,
	PermissionManageSettings,
}

// AllPermissions returns a copy of the permission universe.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// rolePermissions maps roles to their permissions. Built once at package init
// and never mutated afterwards.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: allPermissions,
	RoleBranchManager: {
		PermissionViewReports,
		PermissionCreateReports,
		PermissionEditReports,
		PermissionReviewReports,
		PermissionExportReports,
		PermissionApproveReports,
		PermissionArchiveReports,
		PermissionViewBranch,
		PermissionEditBranch,
		PermissionViewUsers,
		PermissionCreateUser,
		PermissionEditUser,
		PermissionResetUserPassword,
		PermissionViewDashboard,
		PermissionViewAnalytics,
		PermissionViewBranchAnalytics,
		PermissionCustomizeDashboard,
		PermissionViewAuditLogs,
	},
	RoleSupervisor: {
		PermissionViewReports,
		PermissionCreateReports,
		PermissionEditReports,
		PermissionExportReports,
		PermissionViewBranch,
		PermissionViewDashboard,
		PermissionViewAnalytics,
		PermissionViewUsers,
	},
	RoleUser: {
		PermissionViewReports,
		PermissionCreateReports,
		PermissionViewBranch,
		PermissionViewDashboard,
	},
}

// permissionSets is the set form of rolePermissions for O(1) lookups.
var permissionSets = func() map[Role]map[Permission]struct{} {
	sets := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}()

// HasPermission checks if a role has a specific permission.
// Unknown roles have no permissions.
func HasPermission(role Role, permission Permission) bool {
	set, exists := permissionSets[role]
	if !exists {
		return false
	}
	_, ok := set[permission]
	return ok
}

// HasAnyPermission reports whether at least one of permissions is granted.
// An empty list is never satisfied.
func HasAnyPermission(role Role, permissions []Permission) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission is granted.
// An empty list is vacuously satisfied.
func HasAllPermissions(role Role, permissions []Permission) bool {
	for _, p := range permissions {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// RolePermissions returns a copy of the permissions granted to role,
// or an empty slice if the role is unknown.
func RolePermissions(role Role) []Permission {
	perms, exists := rolePermissions[role]
	if !exists {
		return []Permission{}
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
