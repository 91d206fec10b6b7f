package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the payroll view of the roster.
type Employee struct {
	ID           int64
	CompanyID    int64
	EmployeeCode string
	FullName     string
	Department   *string
	BasicSalary  decimal.Decimal
	Allowances   decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
