package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmployee(basic, allowances string) employee.Employee {
	return employee.Employee{
		ID:           1,
		CompanyID:    1,
		EmployeeCode: "EMP-001",
		FullName:     "Rahim Uddin",
		BasicSalary:  money(basic),
		Allowances:   money(allowances),
		IsActive:     true,
	}
}

// monthRecords marks every date of the month present, applies overrides and
// leaves out the dates listed in missing.
func monthRecords(month time.Month, year int, overrides map[int]attendance.Status, missing ...int) []attendance.Attendance {
	skip := map[int]bool{}
	for _, d := range missing {
		skip[d] = true
	}
	var out []attendance.Attendance
	for d := 1; d <= DaysInMonth(int(month), year); d++ {
		if skip[d] {
			continue
		}
		status := attendance.StatusPresent
		if s, ok := overrides[d]; ok {
			status = s
		}
		out = append(out, record(date(year, month, d), status))
	}
	return out
}

func noWeeklyOffPolicy(maxLate int, amount string, typ policy.DeductionType) policy.AttendancePolicy {
	return policy.AttendancePolicy{
		CompanyID:           1,
		WeeklyHolidays:      policy.NewWeekdaySet(),
		MaxLateAllowed:      maxLate,
		LateDeductionAmount: money(amount),
		LateDeductionType:   typ,
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, DaysInMonth(6, 2025))
	assert.Equal(t, 31, DaysInMonth(7, 2025))
	assert.Equal(t, 28, DaysInMonth(2, 2025))
	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 31, DaysInMonth(12, 2025))
}

func TestComputeMonth_ReferenceScenario(t *testing.T) {
	pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
	records := monthRecords(time.June, 2025, map[int]attendance.Status{
		2: attendance.StatusLate,
		3: attendance.StatusLate,
		4: attendance.StatusLate,
	}, 10, 16, 17)
	leaves := []leave.LeaveRequest{approvedLeave(unpaidPolicyID, date(2025, 6, 16), date(2025, 6, 17), "2")}

	classifier, err := NewDayClassifier(pol, nil, testLeavePolicies(), leaves, records)
	require.NoError(t, err)

	emp := testEmployee("30000", "2000")
	b, err := NewDeductionCalculator(pol).ComputeMonth(emp, classifier, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 30, b.DaysInMonth)
	assert.Equal(t, 3, b.LateCount)
	assert.Equal(t, 1, b.ExcessLates)
	assert.Equal(t, 1, b.AbsentDays)
	assert.Equal(t, 24, b.PresentDays)
	assert.True(t, b.UnpaidLeaveDays.Equal(money("2")))
	assert.True(t, b.LateDeduction.Equal(money("100")), "late deduction %s", b.LateDeduction)
	assert.True(t, b.AbsenceDeduction.Equal(money("1000")), "absence deduction %s", b.AbsenceDeduction)
	assert.True(t, b.UnpaidLeaveDeduction.Equal(money("2000")), "unpaid deduction %s", b.UnpaidLeaveDeduction)
	assert.True(t, b.Total().Equal(money("3100")))

	p := BuildPayout(emp, 6, 2025, b)
	assert.Equal(t, payroll.PayoutStatusPending, p.Status)
	assert.True(t, p.Deductions.Equal(money("3100")), "deductions %s", p.Deductions)
	assert.True(t, p.NetSalary.Equal(money("28900")), "net %s", p.NetSalary)
	assert.Equal(t, int64(1), p.EmployeeID)
	assert.Equal(t, 6, p.Month)
	assert.Equal(t, 2025, p.Year)
}

func TestComputeMonth_LateThreshold(t *testing.T) {
	pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
	records := monthRecords(time.June, 2025, map[int]attendance.Status{
		2: attendance.StatusLate,
		3: attendance.StatusLate,
	})

	classifier, err := NewDayClassifier(pol, nil, nil, nil, records)
	require.NoError(t, err)

	b, err := NewDeductionCalculator(pol).ComputeMonth(testEmployee("30000", "0"), classifier, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2, b.LateCount)
	assert.Equal(t, 0, b.ExcessLates)
	assert.True(t, b.LateDeduction.IsZero())
	assert.True(t, b.Total().IsZero())
}

func TestComputeMonth_LateDeductionTypes(t *testing.T) {
	// July 2025 has 31 days; four lates against an allowance of two.
	records := monthRecords(time.July, 2025, map[int]attendance.Status{
		1: attendance.StatusLate,
		2: attendance.StatusLate,
		3: attendance.StatusLate,
		4: attendance.StatusLate,
	})

	tests := []struct {
		name   string
		typ    policy.DeductionType
		amount string
		want   string
	}{
		{"fixed", policy.DeductionTypeFixed, "250", "500"},
		{"per_day", policy.DeductionTypePerDay, "0", "2000"},
		{"percentage", policy.DeductionTypePercentage, "1.5", "930"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol := noWeeklyOffPolicy(2, tt.amount, tt.typ)
			classifier, err := NewDayClassifier(pol, nil, nil, nil, records)
			require.NoError(t, err)

			b, err := NewDeductionCalculator(pol).ComputeMonth(testEmployee("31000", "0"), classifier, 7, 2025)
			require.NoError(t, err)

			assert.Equal(t, 2, b.ExcessLates)
			assert.True(t, b.LateDeduction.Equal(money(tt.want)), "got %s", b.LateDeduction)
		})
	}
}

func TestComputeMonth_WeeklyOffAndHolidaysAreFree(t *testing.T) {
	pol := policy.DefaultAttendancePolicy(1)
	holidays := map[string]struct{}{"2025-06-16": {}}
	// No attendance on the Fridays or on the holiday.
	records := monthRecords(time.June, 2025, nil, 6, 13, 16, 20, 27)

	classifier, err := NewDayClassifier(pol, holidays, nil, nil, records)
	require.NoError(t, err)

	b, err := NewDeductionCalculator(pol).ComputeMonth(testEmployee("30000", "0"), classifier, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 4, b.WeeklyOffDays)
	assert.Equal(t, 1, b.HolidayDays)
	assert.Equal(t, 0, b.AbsentDays)
	assert.True(t, b.Total().IsZero())
}

func TestComputeMonth_PaidLeaveIsFree(t *testing.T) {
	pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
	records := monthRecords(time.June, 2025, nil, 16, 17, 18)
	leaves := []leave.LeaveRequest{approvedLeave(paidPolicyID, date(2025, 6, 16), date(2025, 6, 18), "3")}

	classifier, err := NewDayClassifier(pol, nil, testLeavePolicies(), leaves, records)
	require.NoError(t, err)

	b, err := NewDeductionCalculator(pol).ComputeMonth(testEmployee("30000", "0"), classifier, 6, 2025)
	require.NoError(t, err)

	assert.True(t, b.PaidLeaveDays.Equal(money("3")))
	assert.True(t, b.UnpaidLeaveDays.IsZero())
	assert.True(t, b.Total().IsZero())
}

func TestComputeMonth_UnpaidLeaveAroundHoliday(t *testing.T) {
	// Leave on 16-18 June for two days; the 17th is a holiday, so both days
	// land on the 16th and 18th.
	pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
	holidays := map[string]struct{}{"2025-06-17": {}}
	records := monthRecords(time.June, 2025, nil, 16, 17, 18)
	leaves := []leave.LeaveRequest{approvedLeave(unpaidPolicyID, date(2025, 6, 16), date(2025, 6, 18), "2")}

	classifier, err := NewDayClassifier(pol, holidays, testLeavePolicies(), leaves, records)
	require.NoError(t, err)

	emp := testEmployee("30000", "0")
	b, err := NewDeductionCalculator(pol).ComputeMonth(emp, classifier, 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, b.HolidayDays)
	assert.Equal(t, 0, b.AbsentDays)
	assert.True(t, b.UnpaidLeaveDays.Equal(money("2")), "unpaid days %s", b.UnpaidLeaveDays)
	assert.True(t, b.UnpaidLeaveDeduction.Equal(money("2000")), "unpaid deduction %s", b.UnpaidLeaveDeduction)

	p := BuildPayout(emp, 6, 2025, b)
	assert.True(t, p.UnpaidLeaveDays.Equal(money("2")))
	assert.True(t, p.UnpaidLeaveDeduction.Equal(money("2000")))
	assert.True(t, p.NetSalary.Equal(money("28000")), "net %s", p.NetSalary)
}

func TestComputeMonth_Errors(t *testing.T) {
	t.Run("unknown deduction type", func(t *testing.T) {
		pol := noWeeklyOffPolicy(2, "100", policy.DeductionType("hourly"))
		classifier, err := NewDayClassifier(pol, nil, nil, nil, nil)
		require.NoError(t, err)

		_, err = NewDeductionCalculator(pol).ComputeMonth(testEmployee("30000", "0"), classifier, 6, 2025)
		assert.ErrorIs(t, err, payroll.ErrUnknownDeductionType)
	})

	t.Run("negative salary", func(t *testing.T) {
		pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
		classifier, err := NewDayClassifier(pol, nil, nil, nil, nil)
		require.NoError(t, err)

		_, err = NewDeductionCalculator(pol).ComputeMonth(testEmployee("-1", "0"), classifier, 6, 2025)
		assert.ErrorIs(t, err, payroll.ErrNegativeSalary)
	})

	t.Run("negative allowances", func(t *testing.T) {
		pol := noWeeklyOffPolicy(2, "100", policy.DeductionTypeFixed)
		classifier, err := NewDayClassifier(pol, nil, nil, nil, nil)
		require.NoError(t, err)

		_, err = NewDeductionCalculator(pol).ComputeMonth(testEmployee("30000", "-5"), classifier, 6, 2025)
		assert.ErrorIs(t, err, payroll.ErrNegativeSalary)
	})
}

func TestBuildPayout_RoundsComponentsAndConserves(t *testing.T) {
	// 10000 over 31 days leaves a repeating per-diem.
	pol := noWeeklyOffPolicy(0, "0", policy.DeductionTypePerDay)
	records := monthRecords(time.July, 2025, map[int]attendance.Status{1: attendance.StatusLate}, 2)

	classifier, err := NewDayClassifier(pol, nil, nil, nil, records)
	require.NoError(t, err)

	emp := testEmployee("10000", "500.5")
	b, err := NewDeductionCalculator(pol).ComputeMonth(emp, classifier, 7, 2025)
	require.NoError(t, err)

	p := BuildPayout(emp, 7, 2025, b)
	assert.Equal(t, "322.58", p.LateDeduction.StringFixed(2))
	assert.Equal(t, "322.58", p.AbsenceDeduction.StringFixed(2))
	assert.True(t, p.Deductions.Equal(p.LateDeduction.Add(p.UnpaidLeaveDeduction).Add(p.AbsenceDeduction)))
	assert.True(t, p.NetSalary.Equal(p.BasicSalary.Add(p.Allowances).Sub(p.Deductions)))
	assert.Equal(t, "9855.34", p.NetSalary.StringFixed(2))
}
