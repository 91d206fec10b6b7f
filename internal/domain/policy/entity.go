package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionType selects how excess late arrivals are charged.
type DeductionType string

const (
	DeductionTypeFixed      DeductionType = "fixed"
	DeductionTypePercentage DeductionType = "percentage"
	DeductionTypePerDay     DeductionType = "per_day"
)

func (t DeductionType) IsValid() bool {
	switch t {
	case DeductionTypeFixed, DeductionTypePercentage, DeductionTypePerDay:
		return true
	}
	return false
}

// AttendancePolicy - one per company
type AttendancePolicy struct {
	ID                  int64
	CompanyID           int64
	OfficeStartTime     string
	OfficeEndTime       string
	LateAllowMinutes    int
	GraceMinutes        int
	WeeklyHolidays      WeekdaySet
	MaxLateAllowed      int
	LateDeductionAmount decimal.Decimal
	LateDeductionType   DeductionType
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// IsDefault is set when no row exists and the built-in policy is used.
	IsDefault bool
}

// DefaultAttendancePolicy is used for companies that never configured one.
// The zero deduction amount means lateness never costs anything.
func DefaultAttendancePolicy(companyID int64) AttendancePolicy {
	return AttendancePolicy{
		CompanyID:           companyID,
		OfficeStartTime:     "09:00",
		OfficeEndTime:       "18:00",
		LateAllowMinutes:    15,
		GraceMinutes:        30,
		WeeklyHolidays:      NewWeekdaySet(time.Friday),
		MaxLateAllowed:      2,
		LateDeductionAmount: decimal.Zero,
		LateDeductionType:   DeductionTypeFixed,
		IsDefault:           true,
	}
}

// LeavePolicy - leave type with its annual entitlement and pay flag
type LeavePolicy struct {
	ID        int64
	CompanyID int64
	Name      string
	Days      int
	Enabled   bool
	IsPaid    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
