package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApprovedInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedInRange(ctx context.Context, companyID int64, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, leave_policy_id, start_date, end_date, days, status,
			   created_at, updated_at
		FROM leaves
		WHERE company_id = $1 AND status = $2 AND start_date <= $4 AND end_date >= $3
		ORDER BY employee_id, start_date
	`

	rows, err := q.Query(ctx, query, companyID, leave.StatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		if err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.CompanyID, &lr.LeavePolicyID, &lr.StartDate, &lr.EndDate, &lr.Days, &lr.Status,
			&lr.CreatedAt, &lr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, rows.Err()
}
