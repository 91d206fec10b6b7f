package user

type Permission string

const (
	// Self service
	PermissionPayrollViewOwn Permission = "payroll.view_own"

	// Payroll administration
	PermissionPayrollViewAll  Permission = "payroll.view_all"
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollDisburse Permission = "payroll.disburse"
	PermissionPayrollReports  Permission = "payroll.reports"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionPayrollDisburse,
		PermissionPayrollReports,
	},
	RoleManager: {
		PermissionPayrollViewOwn,
		PermissionPayrollViewAll,
		PermissionPayrollGenerate,
		PermissionPayrollDisburse,
		PermissionPayrollReports,
	},
	RoleEmployee: {
		PermissionPayrollViewOwn,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
