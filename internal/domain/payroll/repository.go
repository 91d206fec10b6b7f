package payroll

import (
	"context"
	"time"
)

// PayoutRepository defines data access methods for monthly payouts.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayoutRepository interface {
	// Create inserts a new payout; ErrPayoutAlreadyExists on (employee, month, year) conflict.
	Create(ctx context.Context, payout MonthlyPayout) (MonthlyPayout, error)
	// OverwriteComputed replaces the computed amounts of an existing payout for the
	// same employee and period. Paid rows are left alone unless allowPaid is set.
	// It reports whether a row was updated.
	OverwriteComputed(ctx context.Context, payout MonthlyPayout, allowPaid bool) (bool, error)

	GetByID(ctx context.Context, id int64, companyID int64) (MonthlyPayout, error)
	ListByPeriod(ctx context.Context, companyID int64, month, year int) ([]MonthlyPayout, error)
	List(ctx context.Context, companyID int64, filter PayoutFilter) ([]MonthlyPayout, error)
	ListByEmployee(ctx context.Context, companyID int64, employeeID int64) ([]MonthlyPayout, error)

	// MarkPaid and MarkPending return the ids that were actually updated.
	MarkPaid(ctx context.Context, companyID int64, ids []int64, paymentDate time.Time, method *string) ([]int64, error)
	MarkPending(ctx context.Context, companyID int64, ids []int64) ([]int64, error)

	GetSummary(ctx context.Context, companyID int64, month, year int) (PayrollSummaryResponse, error)
}
