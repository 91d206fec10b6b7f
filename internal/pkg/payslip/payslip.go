package payslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Payslip is everything printed on one employee's monthly slip.
type Payslip struct {
	CompanyLabel  string
	EmployeeName  string
	EmployeeCode  string
	Department    string
	Month         int
	Year          int
	Currency      string
	BasicSalary   decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	NetSalary     decimal.Decimal
	Status        string
	PaymentDate   *time.Time
	PaymentMethod string

	LateCount            int
	LateDeduction        decimal.Decimal
	UnpaidLeaveDays      decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	AbsentDays           int
	AbsenceDeduction     decimal.Decimal
}

// FileName is the suggested download name.
func (p Payslip) FileName() string {
	code := p.EmployeeCode
	if code == "" {
		code = "employee"
	}
	return fmt.Sprintf("payslip-%s-%04d-%02d.pdf", code, p.Year, p.Month)
}

// Render draws the slip as a single A4 page.
func Render(p Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %04d-%02d", p.Year, p.Month), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if p.CompanyLabel != "" {
		line(pdf, "Company: %s", p.CompanyLabel)
	}
	line(pdf, "Employee: %s (%s)", p.EmployeeName, p.EmployeeCode)
	if p.Department != "" {
		line(pdf, "Department: %s", p.Department)
	}
	line(pdf, "Period: %s %d", time.Month(p.Month).String(), p.Year)
	line(pdf, "Status: %s", p.Status)
	if p.PaymentDate != nil {
		line(pdf, "Paid on: %s", p.PaymentDate.Format("2006-01-02"))
	}
	if p.PaymentMethod != "" {
		line(pdf, "Method: %s", p.PaymentMethod)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	amountRow(pdf, "Basic salary", p.BasicSalary, p.Currency)
	amountRow(pdf, "Allowances", p.Allowances, p.Currency)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	amountRow(pdf, fmt.Sprintf("Late arrivals (%d)", p.LateCount), p.LateDeduction, p.Currency)
	amountRow(pdf, fmt.Sprintf("Unpaid leave (%s days)", p.UnpaidLeaveDays.StringFixed(2)), p.UnpaidLeaveDeduction, p.Currency)
	amountRow(pdf, fmt.Sprintf("Absence (%d days)", p.AbsentDays), p.AbsenceDeduction, p.Currency)
	amountRow(pdf, "Total deductions", p.Deductions, p.Currency)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 13)
	amountRow(pdf, "Net salary", p.NetSalary, p.Currency)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, format string, args ...interface{}) {
	pdf.Cell(0, 8, fmt.Sprintf(format, args...))
	pdf.Ln(7)
}

func amountRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal, currency string) {
	pdf.CellFormat(110, 8, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, amount.StringFixed(2)+" "+currency, "", 1, "R", false, 0, "")
}
