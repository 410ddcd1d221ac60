package navigation

import "github.com/cmlabs-hris/branch-report-go/internal/domain/access"

var (
	adminOnly        = []access.Role{access.RoleAdmin}
	adminAndManagers = []access.Role{access.RoleAdmin, access.RoleBranchManager}
)

func perms(p ...access.Permission) []access.Permission { return p }

// DefaultItems returns a fresh copy of the dashboard navigation tree.
func DefaultItems() []Item {
	return []Item{
		{
			Name:        "Dashboard",
			Href:        "/dashboard",
			Icon:        "home",
			Permissions: perms(access.PermissionViewDashboard),
		},
		{
			Name:           "Reports",
			Href:           "/dashboard/reports",
			Icon:           "document-report",
			Permissions:    perms(access.PermissionViewReports),
			BranchSpecific: true,
			Children: []Item{
				{
					Name:        "View Reports",
					Href:        "/dashboard/reports",
					Icon:        "document-text",
					Permissions: perms(access.PermissionViewReports),
				},
				{
					Name:        "Create Report",
					Href:        "/dashboard/reports/create",
					Icon:        "document-add",
					Permissions: perms(access.PermissionCreateReports),
				},
				{
					Name:        "Consolidated View",
					Href:        "/dashboard/reports/consolidated",
					Icon:        "collection",
					Permissions: perms(access.PermissionConsolidateReports),
					Roles:       adminAndManagers,
				},
			},
		},
		{
			Name:        "Analytics",
			Href:        "/dashboard/analytics",
			Icon:        "chart-bar",
			Permissions: perms(access.PermissionViewAnalytics),
			Roles:       adminAndManagers,
			Children: []Item{
				{
					Name:        "Overview",
					Href:        "/dashboard/analytics",
					Icon:        "presentation-chart-line",
					Permissions: perms(access.PermissionViewAnalytics),
				},
				{
					Name:        "Branch Analytics",
					Href:        "/dashboard/analytics/branch",
					Icon:        "office-building",
					Permissions: perms(access.PermissionViewBranchAnalytics),
					Roles:       adminAndManagers,
				},
			},
		},
		{
			Name:        "Branch Management",
			Href:        "/dashboard/branches",
			Icon:        "office-building",
			Permissions: perms(access.PermissionViewBranch),
			Roles:       adminAndManagers,
			Children: []Item{
				{
					Name:        "Branch Overview",
					Href:        "/dashboard/branches",
					Icon:        "view-grid",
					Permissions: perms(access.PermissionViewBranch),
				},
				{
					Name:        "Branch Settings",
					Href:        "/dashboard/branches/settings",
					Icon:        "adjustments",
					Permissions: perms(access.PermissionManageBranch),
					Roles:       adminOnly,
				},
				{
					Name:        "Branch Hierarchy",
					Href:        "/dashboard/branches/hierarchy",
					Icon:        "share",
					Permissions: perms(access.PermissionManageBranch),
					Roles:       adminOnly,
				},
			},
		},
		{
			Name:        "User Management",
			Href:        "/dashboard/users",
			Icon:        "users",
			Permissions: perms(access.PermissionViewUsers),
			Roles:       adminOnly,
			Children: []Item{
				{
					Name:        "Users",
					Href:        "/dashboard/users",
					Icon:        "user-group",
					Permissions: perms(access.PermissionViewUsers),
				},
				{
					Name:        "Roles",
					Href:        "/dashboard/users/roles",
					Icon:        "key",
					Permissions: perms(access.PermissionManageUsers),
					Roles:       adminOnly,
				},
			},
		},
		{
			Name:        "Audit Logs",
			Href:        "/dashboard/audit",
			Icon:        "clipboard-list",
			Permissions: perms(access.PermissionViewAuditLogs),
			Roles:       adminOnly,
		},
		{
			Name:        "Settings",
			Href:        "/dashboard/settings",
			Icon:        "cog",
			Permissions: perms(access.PermissionManageSettings),
			Roles:       adminOnly,
		},
	}
}
