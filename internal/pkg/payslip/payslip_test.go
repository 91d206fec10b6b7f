package payslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	paid := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	slip := Payslip{
		EmployeeName:         "Nadia Akter",
		EmployeeCode:         "EMP-001",
		Department:           "Finance",
		Month:                6,
		Year:                 2025,
		Currency:             "BDT",
		BasicSalary:          decimal.NewFromInt(30000),
		Allowances:           decimal.NewFromInt(2000),
		Deductions:           decimal.NewFromInt(3100),
		NetSalary:            decimal.NewFromInt(28900),
		Status:               "paid",
		PaymentDate:          &paid,
		PaymentMethod:        "bank transfer",
		LateCount:            3,
		LateDeduction:        decimal.NewFromInt(100),
		UnpaidLeaveDays:      decimal.NewFromInt(2),
		UnpaidLeaveDeduction: decimal.NewFromInt(2000),
		AbsentDays:           1,
		AbsenceDeduction:     decimal.NewFromInt(1000),
	}

	out, err := Render(slip)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF document")
	assert.Greater(t, len(out), 500)
}

func TestPayslip_FileName(t *testing.T) {
	assert.Equal(t, "payslip-EMP-001-2025-06.pdf", Payslip{EmployeeCode: "EMP-001", Month: 6, Year: 2025}.FileName())
	assert.Equal(t, "payslip-employee-2024-12.pdf", Payslip{Month: 12, Year: 2024}.FileName())
}
