package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Commissions
	PermissionCommissionViewOwn Permission = "commission.view_own"
	PermissionCommissionViewAll Permission = "commission.view_all"

	// Salary
	PermissionSalaryCalculate Permission = "salary.calculate"
	PermissionSalaryManage    Permission = "salary.manage"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionCommissionViewOwn,
		PermissionCommissionViewAll,
		PermissionSalaryCalculate,
		PermissionSalaryManage,
		PermissionUserManage,
	},
	RoleSupport: {
		PermissionViewOwnProfile,
		PermissionCommissionViewOwn,
		PermissionSalaryCalculate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
