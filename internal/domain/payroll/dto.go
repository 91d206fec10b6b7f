package payroll

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	Force         bool    `json:"force"`
	OverwritePaid bool    `json:"overwrite_paid,omitempty"`
	EmployeeIDs   []int64 `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be " + strconv.Itoa(validator.MinPayrollYear) + " or later"})
	}
	if r.OverwritePaid && !r.Force {
		errs = append(errs, validator.ValidationError{Field: "overwrite_paid", Message: "requires force"})
	}
	for _, id := range r.EmployeeIDs {
		if id <= 0 {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain positive ids"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerationFailure struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GenerationReport summarises one generation run.
type GenerationReport struct {
	RunID       string              `json:"run_id"`
	Month       int                 `json:"month"`
	Year        int                 `json:"year"`
	Created     int                 `json:"created"`
	Skipped     int                 `json:"skipped"`
	Overwritten int                 `json:"overwritten"`
	Failed      []GenerationFailure `json:"failed"`
	Cancelled   bool                `json:"cancelled"`
}

// ========== DISBURSEMENT DTOs ==========

type UpdatePayoutStatusRequest struct {
	IDs         []int64 `json:"ids"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Method      *string `json:"method,omitempty"`
}

func (r *UpdatePayoutStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "ids", Message: "at least one payout is required"})
	}
	for _, id := range r.IDs {
		if id <= 0 {
			errs = append(errs, validator.ValidationError{Field: "ids", Message: "must contain positive ids"})
			break
		}
	}
	if !PayoutStatus(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'pending' or 'paid'"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Method != nil && len(*r.Method) > 50 {
		errs = append(errs, validator.ValidationError{Field: "method", Message: "must be at most 50 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatusUpdateResult struct {
	UpdatedCount int     `json:"updated_count"`
	NotFound     []int64 `json:"not_found"`
}

// ========== PAYOUT DTOs ==========

type PayoutFilter struct {
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Status     *string `json:"status,omitempty"`
	EmployeeID *int64  `json:"employee_id,omitempty"`
}

func (f *PayoutFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if f.Status != nil && !PayoutStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'pending' or 'paid'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakdownResponse struct {
	LateCount            int             `json:"late_count"`
	LateDeduction        decimal.Decimal `json:"late_deduction"`
	UnpaidLeaveDays      decimal.Decimal `json:"unpaid_leave_days"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	AbsentDays           int             `json:"absent_days"`
	AbsenceDeduction     decimal.Decimal `json:"absence_deduction"`
}

type PayoutResponse struct {
	ID            int64             `json:"id"`
	EmployeeID    int64             `json:"employee_id"`
	EmployeeName  string            `json:"employee_name"`
	EmployeeCode  string            `json:"employee_code"`
	Department    *string           `json:"department,omitempty"`
	Month         int               `json:"month"`
	Year          int               `json:"year"`
	BasicSalary   decimal.Decimal   `json:"basic_salary"`
	Allowances    decimal.Decimal   `json:"allowances"`
	Deductions    decimal.Decimal   `json:"deductions"`
	NetSalary     decimal.Decimal   `json:"net_salary"`
	Breakdown     BreakdownResponse `json:"breakdown"`
	Status        string            `json:"status"`
	PaymentDate   *string           `json:"payment_date,omitempty"`
	PaymentMethod *string           `json:"payment_method,omitempty"`
	Note          *string           `json:"note,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

func NewPayoutResponse(p MonthlyPayout) PayoutResponse {
	var paymentDate *string
	if p.PaymentDate != nil {
		str := p.PaymentDate.Format("2006-01-02")
		paymentDate = &str
	}

	employeeName := ""
	employeeCode := ""
	if p.EmployeeName != nil {
		employeeName = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		employeeCode = *p.EmployeeCode
	}

	return PayoutResponse{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		Department:   p.Department,
		Month:        p.Month,
		Year:         p.Year,
		BasicSalary:  p.BasicSalary,
		Allowances:   p.Allowances,
		Deductions:   p.Deductions,
		NetSalary:    p.NetSalary,
		Breakdown: BreakdownResponse{
			LateCount:            p.LateCount,
			LateDeduction:        p.LateDeduction,
			UnpaidLeaveDays:      p.UnpaidLeaveDays,
			UnpaidLeaveDeduction: p.UnpaidLeaveDeduction,
			AbsentDays:           p.AbsentDays,
			AbsenceDeduction:     p.AbsenceDeduction,
		},
		Status:        string(p.Status),
		PaymentDate:   paymentDate,
		PaymentMethod: p.PaymentMethod,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func NewPayoutResponses(payouts []MonthlyPayout) []PayoutResponse {
	result := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		result = append(result, NewPayoutResponse(p))
	}
	return result
}

// ========== SUMMARY DTOs ==========

type PayrollSummaryResponse struct {
	Month                     int             `json:"month"`
	Year                      int             `json:"year"`
	TotalEmployees            int             `json:"total_employees"`
	TotalBasicSalary          decimal.Decimal `json:"total_basic_salary"`
	TotalAllowances           decimal.Decimal `json:"total_allowances"`
	TotalDeductions           decimal.Decimal `json:"total_deductions"`
	TotalLateDeduction        decimal.Decimal `json:"total_late_deduction"`
	TotalUnpaidLeaveDeduction decimal.Decimal `json:"total_unpaid_leave_deduction"`
	TotalAbsenceDeduction     decimal.Decimal `json:"total_absence_deduction"`
	TotalNetSalary            decimal.Decimal `json:"total_net_salary"`
	PendingCount              int             `json:"pending_count"`
	PaidCount                 int             `json:"paid_count"`
}
