package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DaysInMonth returns the number of calendar days of month in year.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DeductionCalculator prices one employee's month under a single attendance policy.
type DeductionCalculator struct {
	policy policy.AttendancePolicy
}

func NewDeductionCalculator(pol policy.AttendancePolicy) *DeductionCalculator {
	return &DeductionCalculator{policy: pol}
}

// ComputeMonth classifies every date of the month and derives the three
// deduction components. Amounts are not rounded here.
func (c *DeductionCalculator) ComputeMonth(emp employee.Employee, classifier *DayClassifier, month, year int) (payroll.DeductionBreakdown, error) {
	if emp.BasicSalary.IsNegative() || emp.Allowances.IsNegative() {
		return payroll.DeductionBreakdown{}, fmt.Errorf("employee %d: %w", emp.ID, payroll.ErrNegativeSalary)
	}
	if !c.policy.LateDeductionType.IsValid() {
		return payroll.DeductionBreakdown{}, fmt.Errorf("%w: %q", payroll.ErrUnknownDeductionType, c.policy.LateDeductionType)
	}

	days := DaysInMonth(month, year)
	perDiem := emp.BasicSalary.Div(decimal.NewFromInt(int64(days)))

	b := payroll.DeductionBreakdown{
		DaysInMonth:     days,
		PerDiem:         perDiem,
		PaidLeaveDays:   decimal.Zero,
		UnpaidLeaveDays: decimal.Zero,
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		class := classifier.Classify(first.AddDate(0, 0, i))
		switch class.Label {
		case payroll.DayHoliday:
			b.HolidayDays++
		case payroll.DayWeeklyOff:
			b.WeeklyOffDays++
		case payroll.DayApprovedLeavePaid:
			b.PaidLeaveDays = b.PaidLeaveDays.Add(class.LeaveWeight)
		case payroll.DayApprovedLeaveUnpaid:
			b.UnpaidLeaveDays = b.UnpaidLeaveDays.Add(class.LeaveWeight)
		case payroll.DayPresent:
			b.PresentDays++
		case payroll.DayLate:
			b.LateCount++
		case payroll.DayAbsent:
			b.AbsentDays++
		}
	}

	b.ExcessLates = b.LateCount - c.policy.MaxLateAllowed
	if b.ExcessLates < 0 {
		b.ExcessLates = 0
	}
	b.LateDeduction = c.lateDeduction(b.ExcessLates, emp.BasicSalary, perDiem)
	b.UnpaidLeaveDeduction = b.UnpaidLeaveDays.Mul(perDiem)
	b.AbsenceDeduction = decimal.NewFromInt(int64(b.AbsentDays)).Mul(perDiem)

	return b, nil
}

func (c *DeductionCalculator) lateDeduction(excess int, basic, perDiem decimal.Decimal) decimal.Decimal {
	if excess <= 0 {
		return decimal.Zero
	}
	e := decimal.NewFromInt(int64(excess))
	switch c.policy.LateDeductionType {
	case policy.DeductionTypePerDay:
		return e.Mul(perDiem)
	case policy.DeductionTypePercentage:
		return e.Mul(basic).Mul(c.policy.LateDeductionAmount).Div(hundred)
	default:
		return e.Mul(c.policy.LateDeductionAmount)
	}
}

// BuildPayout turns a breakdown into a pending payout row. Each component is
// rounded to two places and the totals are derived from the rounded parts,
// so deductions and net salary always add up exactly.
func BuildPayout(emp employee.Employee, month, year int, b payroll.DeductionBreakdown) payroll.MonthlyPayout {
	basic := emp.BasicSalary.Round(2)
	allowances := emp.Allowances.Round(2)
	late := b.LateDeduction.Round(2)
	unpaid := b.UnpaidLeaveDeduction.Round(2)
	absence := b.AbsenceDeduction.Round(2)
	deductions := late.Add(unpaid).Add(absence)

	return payroll.MonthlyPayout{
		EmployeeID:           emp.ID,
		CompanyID:            emp.CompanyID,
		Month:                month,
		Year:                 year,
		BasicSalary:          basic,
		Allowances:           allowances,
		Deductions:           deductions,
		NetSalary:            basic.Add(allowances).Sub(deductions),
		Status:               payroll.PayoutStatusPending,
		LateCount:            b.LateCount,
		LateDeduction:        late,
		UnpaidLeaveDays:      b.UnpaidLeaveDays.Round(2),
		UnpaidLeaveDeduction: unpaid,
		AbsentDays:           b.AbsentDays,
		AbsenceDeduction:     absence,
	}
}
