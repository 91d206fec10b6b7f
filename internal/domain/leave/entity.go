package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID            int64
	EmployeeID    int64
	CompanyID     int64
	LeavePolicyID int64
	StartDate     time.Time
	EndDate       time.Time
	Days          decimal.Decimal
	Status        RequestStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether day falls within [StartDate, EndDate], compared by calendar date.
func (r LeaveRequest) Covers(day time.Time) bool {
	d := dateOf(day)
	return !d.Before(dateOf(r.StartDate)) && !d.After(dateOf(r.EndDate))
}

// SpanDays is the number of calendar dates the request covers.
func (r LeaveRequest) SpanDays() int {
	start, end := dateOf(r.StartDate), dateOf(r.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ChargeableDays counts the covered dates for which skip reports false.
// A nil skip counts every covered date.
func (r LeaveRequest) ChargeableDays(skip func(day time.Time) bool) int {
	n := 0
	for d, end := dateOf(r.StartDate), dateOf(r.EndDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		if skip == nil || !skip(d) {
			n++
		}
	}
	return n
}

// DayWeight is the share of one chargeable date charged to the request:
// Days spread evenly over the chargeable dates, capped at one full day.
// skip marks dates the leave never applies to, such as holidays.
// A request without a day count weighs one per date.
func (r LeaveRequest) DayWeight(skip func(day time.Time) bool) decimal.Decimal {
	one := decimal.NewFromInt(1)
	n := r.ChargeableDays(skip)
	if !r.Days.IsPositive() || n == 0 {
		return one
	}
	w := r.Days.Div(decimal.NewFromInt(int64(n)))
	if w.GreaterThan(one) {
		return one
	}
	return w
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
