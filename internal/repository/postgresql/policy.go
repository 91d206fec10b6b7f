package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type policyRepositoryImpl struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepositoryImpl{db: db}
}

// GetAttendancePolicy implements policy.PolicyRepository.
func (r *policyRepositoryImpl) GetAttendancePolicy(ctx context.Context, companyID int64) (policy.AttendancePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, office_start_time, office_end_time, late_allow_minutes, grace_minutes,
			   weekly_holidays, max_late_allowed, late_deduction_amount, late_deduction_type,
			   created_at, updated_at
		FROM attendance_policies
		WHERE company_id = $1
	`

	var p policy.AttendancePolicy
	err := q.QueryRow(ctx, query, companyID).Scan(
		&p.ID, &p.CompanyID, &p.OfficeStartTime, &p.OfficeEndTime, &p.LateAllowMinutes, &p.GraceMinutes,
		&p.WeeklyHolidays, &p.MaxLateAllowed, &p.LateDeductionAmount, &p.LateDeductionType,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.AttendancePolicy{}, policy.ErrAttendancePolicyNotFound
		}
		return policy.AttendancePolicy{}, fmt.Errorf("failed to get attendance policy: %w", err)
	}

	return p, nil
}

// ListLeavePolicies implements policy.PolicyRepository.
func (r *policyRepositoryImpl) ListLeavePolicies(ctx context.Context, companyID int64) ([]policy.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, days, enabled, is_paid, created_at, updated_at
		FROM leave_policies
		WHERE company_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave policies: %w", err)
	}
	defer rows.Close()

	var policies []policy.LeavePolicy
	for rows.Next() {
		var lp policy.LeavePolicy
		if err := rows.Scan(
			&lp.ID, &lp.CompanyID, &lp.Name, &lp.Days, &lp.Enabled, &lp.IsPaid, &lp.CreatedAt, &lp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave policy: %w", err)
		}
		policies = append(policies, lp)
	}

	return policies, rows.Err()
}
