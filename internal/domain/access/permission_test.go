package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission_MatchesRoleMap(t *testing.T) {
	for _, role := range Roles() {
		granted := make(map[Permission]bool)
		for _, p := range RolePermissions(role) {
			granted[p] = true
		}
		for _, p := range AllPermissions() {
			assert.Equal(t, granted[p], HasPermission(role, p), "role=%s permission=%s", role, p)
		}
	}
}

func TestHasPermission_AdminHasUniverse(t *testing.T) {
	assert.ElementsMatch(t, AllPermissions(), RolePermissions(RoleAdmin))
	for _, p := range AllPermissions() {
		assert.True(t, HasPermission(RoleAdmin, p), p)
	}
}

func TestHasPermission_UnknownRole(t *testing.T) {
	assert.False(t, HasPermission(Role("ghost"), PermissionViewReports))
	assert.False(t, HasPermission(Role(""), PermissionViewDashboard))
	assert.Empty(t, RolePermissions(Role("ghost")))
	assert.NotNil(t, RolePermissions(Role("ghost")))
}

func TestHasPermission_RoleSamples(t *testing.T) {
	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleBranchManager, PermissionApproveReports, true},
		{RoleBranchManager, PermissionManageBranch, false},
		{RoleBranchManager, PermissionViewAuditLogs, true},
		{RoleSupervisor, PermissionEditReports, true},
		{RoleSupervisor, PermissionApproveReports, false},
		{RoleUser, PermissionCreateReports, true},
		{RoleUser, PermissionEditReports, false},
		{RoleUser, PermissionViewAuditLogs, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HasPermission(c.role, c.perm), "role=%s permission=%s", c.role, c.perm)
	}
}

func TestHasAnyAndAll_EmptyList(t *testing.T) {
	for _, role := range append(Roles(), Role("ghost")) {
		assert.False(t, HasAnyPermission(role, nil), role)
		assert.False(t, HasAnyPermission(role, []Permission{}), role)
		assert.True(t, HasAllPermissions(role, nil), role)
		assert.True(t, HasAllPermissions(role, []Permission{}), role)
	}
}

func TestHasAnyAndAll_Mixed(t *testing.T) {
	perms := []Permission{PermissionViewReports, PermissionApproveReports}

	assert.True(t, HasAnyPermission(RoleUser, perms))
	assert.False(t, HasAllPermissions(RoleUser, perms))
	assert.True(t, HasAllPermissions(RoleBranchManager, perms))
	assert.False(t, HasAnyPermission(Role("ghost"), perms))
}

func TestRolePermissions_ReturnsCopy(t *testing.T) {
	perms := RolePermissions(RoleUser)
	perms[0] = PermissionManageSettings

	assert.False(t, HasPermission(RoleUser, PermissionManageSettings))
	assert.Equal(t, PermissionViewReports, RolePermissions(RoleUser)[0])
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("branch_manager")
	assert.NoError(t, err)
	assert.Equal(t, RoleBranchManager, r)

	_, err = ParseRole("ADMIN")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
