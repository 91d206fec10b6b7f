package policy

import "errors"

var (
	ErrAttendancePolicyNotFound = errors.New("attendance policy not found")
	ErrLeavePolicyNotFound      = errors.New("leave policy not found")
	ErrInvalidWeekday           = errors.New("invalid weekday")
)
