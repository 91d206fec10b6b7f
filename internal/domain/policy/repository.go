package policy

import "context"

// PolicyRepository is read-only; policies are maintained elsewhere.
type PolicyRepository interface {
	// GetAttendancePolicy returns ErrAttendancePolicyNotFound when the company has none.
	GetAttendancePolicy(ctx context.Context, companyID int64) (AttendancePolicy, error)
	ListLeavePolicies(ctx context.Context, companyID int64) ([]LeavePolicy, error)
}
