package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus enum
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
)

func (s PayoutStatus) IsValid() bool {
	return s == PayoutStatusPending || s == PayoutStatusPaid
}

// MonthlyPayout - one employee's salary result for one month
type MonthlyPayout struct {
	ID          int64
	EmployeeID  int64
	CompanyID   int64
	Month       int
	Year        int
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal

	Status        PayoutStatus
	PaymentDate   *time.Time
	PaymentMethod *string
	Note          *string

	// Deduction breakdown
	LateCount            int
	LateDeduction        decimal.Decimal
	UnpaidLeaveDays      decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	AbsentDays           int
	AbsenceDeduction     decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	Department   *string
}

// DayLabel is the payroll meaning of one calendar date for one employee.
type DayLabel string

const (
	DayHoliday             DayLabel = "holiday"
	DayWeeklyOff           DayLabel = "weekly_off"
	DayApprovedLeavePaid   DayLabel = "approved_leave_paid"
	DayApprovedLeaveUnpaid DayLabel = "approved_leave_unpaid"
	DayPresent             DayLabel = "present"
	DayLate                DayLabel = "late"
	DayAbsent              DayLabel = "absent"
)

// DeductionBreakdown - unrounded result of one employee's monthly computation
type DeductionBreakdown struct {
	DaysInMonth int
	PerDiem     decimal.Decimal

	PresentDays   int
	LateCount     int
	AbsentDays    int
	HolidayDays   int
	WeeklyOffDays int
	PaidLeaveDays decimal.Decimal

	ExcessLates          int
	LateDeduction        decimal.Decimal
	UnpaidLeaveDays      decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	AbsenceDeduction     decimal.Decimal
}

// Total is the sum of the three deduction components.
func (b DeductionBreakdown) Total() decimal.Decimal {
	return b.LateDeduction.Add(b.UnpaidLeaveDeduction).Add(b.AbsenceDeduction)
}
