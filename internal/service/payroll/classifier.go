package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func dateKey(t time.Time) string {
	return normalizeDate(t).Format(dateLayout)
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayClass is the label of one date plus, for leave days, how much of the
// day the leave accounts for.
type DayClass struct {
	Label       payroll.DayLabel
	LeaveWeight decimal.Decimal
}

type resolvedLeave struct {
	request leave.LeaveRequest
	paid    bool
	weight  decimal.Decimal
}

// DayClassifier labels the dates of one employee. Precedence:
// holiday, approved leave, weekly off, attendance record, absent.
type DayClassifier struct {
	weeklyOff  policy.WeekdaySet
	holidays   map[string]struct{}
	attendance map[string]attendance.Status
	leaves     []resolvedLeave
}

// NewDayClassifier resolves every approved leave of the employee against the
// company's leave policies. A leave whose policy is unknown makes the
// employee's data unusable and is returned as an error.
func NewDayClassifier(
	pol policy.AttendancePolicy,
	holidays map[string]struct{},
	leavePolicies map[int64]policy.LeavePolicy,
	leaves []leave.LeaveRequest,
	records []attendance.Attendance,
) (*DayClassifier, error) {
	c := &DayClassifier{
		weeklyOff:  pol.WeeklyHolidays,
		holidays:   holidays,
		attendance: make(map[string]attendance.Status, len(records)),
		leaves:     make([]resolvedLeave, 0, len(leaves)),
	}

	for _, r := range records {
		c.attendance[dateKey(r.Date)] = r.Status
	}

	for _, lr := range leaves {
		if lr.Status != leave.StatusApproved {
			continue
		}
		lp, ok := leavePolicies[lr.LeavePolicyID]
		if !ok {
			return nil, fmt.Errorf("leave request %d references policy %d: %w", lr.ID, lr.LeavePolicyID, policy.ErrLeavePolicyNotFound)
		}
		c.leaves = append(c.leaves, resolvedLeave{
			request: lr,
			paid:    lp.IsPaid,
			weight:  lr.DayWeight(c.isHoliday),
		})
	}

	return c, nil
}

func (c *DayClassifier) isHoliday(day time.Time) bool {
	_, ok := c.holidays[dateKey(day)]
	return ok
}

func (c *DayClassifier) Classify(day time.Time) DayClass {
	key := dateKey(day)

	if c.isHoliday(day) {
		return DayClass{Label: payroll.DayHoliday}
	}

	if lv, ok := c.leaveOn(day); ok {
		if lv.paid {
			return DayClass{Label: payroll.DayApprovedLeavePaid, LeaveWeight: lv.weight}
		}
		return DayClass{Label: payroll.DayApprovedLeaveUnpaid, LeaveWeight: lv.weight}
	}

	if c.weeklyOff.Has(day.Weekday()) {
		return DayClass{Label: payroll.DayWeeklyOff}
	}

	if status, ok := c.attendance[key]; ok {
		return DayClass{Label: labelForStatus(status)}
	}

	return DayClass{Label: payroll.DayAbsent}
}

// leaveOn picks the leave covering day. Paid leave beats unpaid leave and a
// heavier weight beats a lighter one.
func (c *DayClassifier) leaveOn(day time.Time) (resolvedLeave, bool) {
	var best resolvedLeave
	found := false
	for _, lv := range c.leaves {
		if !lv.request.Covers(day) {
			continue
		}
		switch {
		case !found:
			best, found = lv, true
		case lv.paid && !best.paid:
			best = lv
		case lv.paid == best.paid && lv.weight.GreaterThan(best.weight):
			best = lv
		}
	}
	return best, found
}

func labelForStatus(status attendance.Status) payroll.DayLabel {
	switch status {
	case attendance.StatusPresent, attendance.StatusHalfDay:
		return payroll.DayPresent
	case attendance.StatusLate:
		return payroll.DayLate
	case attendance.StatusHoliday:
		return payroll.DayHoliday
	default:
		return payroll.DayAbsent
	}
}
