package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Runs and disburses payroll
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// IsOwner checks if role is company owner
func (r Role) IsOwner() bool {
	return r == RoleOwner
}

// IsPayrollAdmin checks if role may generate and disburse payroll
func (r Role) IsPayrollAdmin() bool {
	return r == RoleManager || r == RoleOwner
}

// IsPending checks if user is still in onboarding
func (r Role) IsPending() bool {
	return r == RolePending
}
