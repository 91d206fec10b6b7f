package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveRequest_Covers(t *testing.T) {
	r := LeaveRequest{StartDate: day(2025, 1, 10), EndDate: day(2025, 1, 12)}

	assert.False(t, r.Covers(day(2025, 1, 9)))
	assert.True(t, r.Covers(day(2025, 1, 10)))
	assert.True(t, r.Covers(time.Date(2025, 1, 11, 17, 30, 0, 0, time.UTC)))
	assert.True(t, r.Covers(day(2025, 1, 12)))
	assert.False(t, r.Covers(day(2025, 1, 13)))
}

func TestLeaveRequest_DayWeight(t *testing.T) {
	tests := []struct {
		name  string
		req   LeaveRequest
		span  int
		value string
	}{
		{name: "single full day", req: LeaveRequest{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 3), Days: decimal.NewFromInt(1)}, span: 1, value: "1"},
		{name: "half day", req: LeaveRequest{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 3), Days: decimal.RequireFromString("0.5")}, span: 1, value: "0.5"},
		{name: "spread over span", req: LeaveRequest{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 6), Days: decimal.NewFromInt(2)}, span: 4, value: "0.5"},
		{name: "capped at one", req: LeaveRequest{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 4), Days: decimal.NewFromInt(5)}, span: 2, value: "1"},
		{name: "missing day count", req: LeaveRequest{StartDate: day(2025, 3, 3), EndDate: day(2025, 3, 5)}, span: 3, value: "1"},
		{name: "inverted range", req: LeaveRequest{StartDate: day(2025, 3, 5), EndDate: day(2025, 3, 3), Days: decimal.NewFromInt(1)}, span: 0, value: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.span, tt.req.SpanDays())
			assert.Equal(t, tt.value, tt.req.DayWeight(nil).String())
		})
	}
}

func TestLeaveRequest_DayWeightSkipsDates(t *testing.T) {
	// Mon 2 Jun to Wed 4 Jun 2025 with the Tuesday excluded.
	r := LeaveRequest{StartDate: day(2025, 6, 2), EndDate: day(2025, 6, 4), Days: decimal.NewFromInt(2)}
	skipTuesday := func(d time.Time) bool { return d.Equal(day(2025, 6, 3)) }

	assert.Equal(t, 3, r.ChargeableDays(nil))
	assert.Equal(t, 2, r.ChargeableDays(skipTuesday))
	assert.Equal(t, "1", r.DayWeight(skipTuesday).String())

	skipAll := func(time.Time) bool { return true }
	assert.Equal(t, 0, r.ChargeableDays(skipAll))
	assert.Equal(t, "1", r.DayWeight(skipAll).String())
}
