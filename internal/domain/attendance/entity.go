package attendance

import (
	"time"
)

// Status is the state recorded by the attendance subsystem for one day.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusHoliday Status = "holiday"
)

type Attendance struct {
	ID              int64
	EmployeeID      int64
	CompanyID       int64
	Date            time.Time
	ClockIn         *time.Time
	ClockOut        *time.Time
	Status          Status
	LateMinutes     int
	OvertimeMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
