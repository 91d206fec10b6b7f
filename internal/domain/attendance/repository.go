package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is read-only from the payroll side.
type AttendanceRepository interface {
	ListByCompanyAndRange(ctx context.Context, companyID int64, from, to time.Time) ([]Attendance, error)
}
