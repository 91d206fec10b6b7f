package payroll

import "errors"

var (
	ErrPayoutNotFound       = errors.New("payout not found")
	ErrPayoutAlreadyExists  = errors.New("payout already exists for this period")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrInvalidPayoutStatus  = errors.New("invalid payout status")
	ErrNegativeSalary       = errors.New("employee salary must not be negative")
	ErrUnknownDeductionType = errors.New("unknown late deduction type")
	ErrEmployeeNotInCompany = errors.New("employee not found in company")
	ErrEmployeeInactive     = errors.New("employee is not active")
	ErrComputationPanicked  = errors.New("payroll computation panicked")
)
