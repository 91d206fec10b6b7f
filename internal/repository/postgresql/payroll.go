package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payoutRepository struct {
	db *database.DB
}

func NewPayoutRepository(db *database.DB) payroll.PayoutRepository {
	return &payoutRepository{db: db}
}

const payoutColumns = `
	mp.id, mp.employee_id, mp.company_id, mp.month, mp.year,
	mp.basic_salary, mp.allowances, mp.deductions, mp.net_salary,
	mp.status, mp.payment_date, mp.payment_method, mp.note,
	mp.late_count, mp.late_deduction, mp.unpaid_leave_days, mp.unpaid_leave_deduction,
	mp.absent_days, mp.absence_deduction, mp.created_at, mp.updated_at`

func payoutScanTargets(p *payroll.MonthlyPayout) []any {
	return []any{
		&p.ID, &p.EmployeeID, &p.CompanyID, &p.Month, &p.Year,
		&p.BasicSalary, &p.Allowances, &p.Deductions, &p.NetSalary,
		&p.Status, &p.PaymentDate, &p.PaymentMethod, &p.Note,
		&p.LateCount, &p.LateDeduction, &p.UnpaidLeaveDays, &p.UnpaidLeaveDeduction,
		&p.AbsentDays, &p.AbsenceDeduction, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanJoinedPayout(row pgx.Row) (payroll.MonthlyPayout, error) {
	var p payroll.MonthlyPayout
	targets := append(payoutScanTargets(&p), &p.EmployeeName, &p.EmployeeCode, &p.Department)
	err := row.Scan(targets...)
	return p, err
}

// ========== WRITES ==========

func (r *payoutRepository) Create(ctx context.Context, payout payroll.MonthlyPayout) (payroll.MonthlyPayout, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO monthly_payouts AS mp (
			employee_id, company_id, month, year,
			basic_salary, allowances, deductions, net_salary, status, note,
			late_count, late_deduction, unpaid_leave_days, unpaid_leave_deduction,
			absent_days, absence_deduction
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + payoutColumns

	status := payout.Status
	if status == "" {
		status = payroll.PayoutStatusPending
	}

	var created payroll.MonthlyPayout
	err := q.QueryRow(ctx, query,
		payout.EmployeeID, payout.CompanyID, payout.Month, payout.Year,
		payout.BasicSalary, payout.Allowances, payout.Deductions, payout.NetSalary, status, payout.Note,
		payout.LateCount, payout.LateDeduction, payout.UnpaidLeaveDays, payout.UnpaidLeaveDeduction,
		payout.AbsentDays, payout.AbsenceDeduction,
	).Scan(payoutScanTargets(&created)...)
	if err != nil {
		if database.IsUniqueViolation(err, "uk_payout_employee_period") {
			return payroll.MonthlyPayout{}, payroll.ErrPayoutAlreadyExists
		}
		return payroll.MonthlyPayout{}, fmt.Errorf("failed to create payout: %w", err)
	}

	return created, nil
}

func (r *payoutRepository) OverwriteComputed(ctx context.Context, payout payroll.MonthlyPayout, allowPaid bool) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// Status and payment metadata are never touched here.
	query := `
		UPDATE monthly_payouts
		SET basic_salary = $1, allowances = $2, deductions = $3, net_salary = $4,
			late_count = $5, late_deduction = $6, unpaid_leave_days = $7, unpaid_leave_deduction = $8,
			absent_days = $9, absence_deduction = $10, updated_at = NOW()
		WHERE employee_id = $11 AND month = $12 AND year = $13 AND company_id = $14
			AND (status = 'pending' OR $15::boolean)
	`

	tag, err := q.Exec(ctx, query,
		payout.BasicSalary, payout.Allowances, payout.Deductions, payout.NetSalary,
		payout.LateCount, payout.LateDeduction, payout.UnpaidLeaveDays, payout.UnpaidLeaveDeduction,
		payout.AbsentDays, payout.AbsenceDeduction,
		payout.EmployeeID, payout.Month, payout.Year, payout.CompanyID, allowPaid,
	)
	if err != nil {
		return false, fmt.Errorf("failed to overwrite payout: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *payoutRepository) MarkPaid(ctx context.Context, companyID int64, ids []int64, paymentDate time.Time, method *string) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_payouts
		SET status = 'paid', payment_date = $1, payment_method = $2, updated_at = NOW()
		WHERE id = ANY($3) AND company_id = $4
		RETURNING id
	`

	rows, err := q.Query(ctx, query, paymentDate, method, ids, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payouts paid: %w", err)
	}

	updated, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to mark payouts paid: %w", err)
	}
	return updated, nil
}

func (r *payoutRepository) MarkPending(ctx context.Context, companyID int64, ids []int64) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_payouts
		SET status = 'pending', payment_date = NULL, payment_method = NULL, updated_at = NOW()
		WHERE id = ANY($1) AND company_id = $2
		RETURNING id
	`

	rows, err := q.Query(ctx, query, ids, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payouts pending: %w", err)
	}

	updated, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to mark payouts pending: %w", err)
	}
	return updated, nil
}

// ========== READS ==========

func (r *payoutRepository) GetByID(ctx context.Context, id int64, companyID int64) (payroll.MonthlyPayout, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payoutColumns + `,
			   e.full_name AS employee_name, e.employee_code, e.department
		FROM monthly_payouts mp
		JOIN employees e ON mp.employee_id = e.id
		WHERE mp.id = $1 AND mp.company_id = $2
	`

	p, err := scanJoinedPayout(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.MonthlyPayout{}, payroll.ErrPayoutNotFound
		}
		return payroll.MonthlyPayout{}, fmt.Errorf("failed to get payout: %w", err)
	}

	return p, nil
}

func (r *payoutRepository) ListByPeriod(ctx context.Context, companyID int64, month, year int) ([]payroll.MonthlyPayout, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payoutColumns + `
		FROM monthly_payouts mp
		WHERE mp.company_id = $1 AND mp.month = $2 AND mp.year = $3
		ORDER BY mp.employee_id
	`

	rows, err := q.Query(ctx, query, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts for period: %w", err)
	}
	defer rows.Close()

	var payouts []payroll.MonthlyPayout
	for rows.Next() {
		var p payroll.MonthlyPayout
		if err := rows.Scan(payoutScanTargets(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}

	return payouts, rows.Err()
}

func (r *payoutRepository) List(ctx context.Context, companyID int64, filter payroll.PayoutFilter) ([]payroll.MonthlyPayout, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM monthly_payouts mp
		JOIN employees e ON mp.employee_id = e.id
		WHERE mp.company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND mp.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND mp.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND mp.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND mp.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
	}

	selectQuery := `
		SELECT ` + payoutColumns + `,
			   e.full_name AS employee_name, e.employee_code, e.department
	` + baseQuery + `
		ORDER BY mp.year DESC, mp.month DESC, e.full_name
	`

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []payroll.MonthlyPayout
	for rows.Next() {
		p, err := scanJoinedPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}

	return payouts, rows.Err()
}

func (r *payoutRepository) ListByEmployee(ctx context.Context, companyID int64, employeeID int64) ([]payroll.MonthlyPayout, error) {
	return r.List(ctx, companyID, payroll.PayoutFilter{EmployeeID: &employeeID})
}

// ========== AGGREGATIONS ==========

func (r *payoutRepository) GetSummary(ctx context.Context, companyID int64, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_employees,
			COALESCE(SUM(basic_salary), 0) AS total_basic_salary,
			COALESCE(SUM(allowances), 0) AS total_allowances,
			COALESCE(SUM(deductions), 0) AS total_deductions,
			COALESCE(SUM(late_deduction), 0) AS total_late_deduction,
			COALESCE(SUM(unpaid_leave_deduction), 0) AS total_unpaid_leave_deduction,
			COALESCE(SUM(absence_deduction), 0) AS total_absence_deduction,
			COALESCE(SUM(net_salary), 0) AS total_net_salary,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count
		FROM monthly_payouts
		WHERE company_id = $1 AND month = $2 AND year = $3
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&summary.TotalEmployees, &summary.TotalBasicSalary, &summary.TotalAllowances,
		&summary.TotalDeductions, &summary.TotalLateDeduction, &summary.TotalUnpaidLeaveDeduction,
		&summary.TotalAbsenceDeduction, &summary.TotalNetSalary, &summary.PendingCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.Month = month
	summary.Year = year

	return summary, nil
}
