package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// ListApprovedInRange returns approved requests overlapping [from, to].
	ListApprovedInRange(ctx context.Context, companyID int64, from, to time.Time) ([]LeaveRequest, error)
}
