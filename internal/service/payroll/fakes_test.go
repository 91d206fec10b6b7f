package payroll

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func contextWithClaims(claims map[string]interface{}) context.Context {
	token, _, err := testTokenAuth.Encode(claims)
	if err != nil {
		panic(err)
	}
	return jwtauth.NewContext(context.Background(), token, nil)
}

func adminContext(companyID int64) context.Context {
	return contextWithClaims(map[string]interface{}{"company_id": companyID, "role": "manager", "type": "access"})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ========== payouts ==========

type fakePayoutRepo struct {
	mu      sync.Mutex
	nextID  int64
	payouts map[int64]*payroll.MonthlyPayout

	createErr map[int64]error // by employee id
	listErr   error
	creates   int
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: map[int64]*payroll.MonthlyPayout{}, createErr: map[int64]error{}}
}

func (r *fakePayoutRepo) findByPeriod(employeeID int64, month, year int) *payroll.MonthlyPayout {
	for _, p := range r.payouts {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			return p
		}
	}
	return nil
}

func (r *fakePayoutRepo) Create(ctx context.Context, payout payroll.MonthlyPayout) (payroll.MonthlyPayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	if err := r.createErr[payout.EmployeeID]; err != nil {
		return payroll.MonthlyPayout{}, err
	}
	if r.findByPeriod(payout.EmployeeID, payout.Month, payout.Year) != nil {
		return payroll.MonthlyPayout{}, payroll.ErrPayoutAlreadyExists
	}
	r.nextID++
	payout.ID = r.nextID
	payout.CreatedAt = time.Now()
	payout.UpdatedAt = payout.CreatedAt
	stored := payout
	r.payouts[payout.ID] = &stored
	return payout, nil
}

func (r *fakePayoutRepo) OverwriteComputed(ctx context.Context, payout payroll.MonthlyPayout, allowPaid bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findByPeriod(payout.EmployeeID, payout.Month, payout.Year)
	if p == nil || p.CompanyID != payout.CompanyID {
		return false, nil
	}
	if p.Status != payroll.PayoutStatusPending && !allowPaid {
		return false, nil
	}
	p.BasicSalary = payout.BasicSalary
	p.Allowances = payout.Allowances
	p.Deductions = payout.Deductions
	p.NetSalary = payout.NetSalary
	p.LateCount = payout.LateCount
	p.LateDeduction = payout.LateDeduction
	p.UnpaidLeaveDays = payout.UnpaidLeaveDays
	p.UnpaidLeaveDeduction = payout.UnpaidLeaveDeduction
	p.AbsentDays = payout.AbsentDays
	p.AbsenceDeduction = payout.AbsenceDeduction
	return true, nil
}

func (r *fakePayoutRepo) GetByID(ctx context.Context, id int64, companyID int64) (payroll.MonthlyPayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payouts[id]
	if !ok || p.CompanyID != companyID {
		return payroll.MonthlyPayout{}, payroll.ErrPayoutNotFound
	}
	return *p, nil
}

func (r *fakePayoutRepo) ListByPeriod(ctx context.Context, companyID int64, month, year int) ([]payroll.MonthlyPayout, error) {
	return r.List(ctx, companyID, payroll.PayoutFilter{Month: &month, Year: &year})
}

func (r *fakePayoutRepo) List(ctx context.Context, companyID int64, filter payroll.PayoutFilter) ([]payroll.MonthlyPayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []payroll.MonthlyPayout
	for _, p := range r.payouts {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePayoutRepo) ListByEmployee(ctx context.Context, companyID int64, employeeID int64) ([]payroll.MonthlyPayout, error) {
	return r.List(ctx, companyID, payroll.PayoutFilter{EmployeeID: &employeeID})
}

func (r *fakePayoutRepo) MarkPaid(ctx context.Context, companyID int64, ids []int64, paymentDate time.Time, method *string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated []int64
	for _, id := range ids {
		p, ok := r.payouts[id]
		if !ok || p.CompanyID != companyID {
			continue
		}
		d := paymentDate
		p.Status = payroll.PayoutStatusPaid
		p.PaymentDate = &d
		p.PaymentMethod = method
		updated = append(updated, id)
	}
	return updated, nil
}

func (r *fakePayoutRepo) MarkPending(ctx context.Context, companyID int64, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated []int64
	for _, id := range ids {
		p, ok := r.payouts[id]
		if !ok || p.CompanyID != companyID {
			continue
		}
		p.Status = payroll.PayoutStatusPending
		p.PaymentDate = nil
		p.PaymentMethod = nil
		updated = append(updated, id)
	}
	return updated, nil
}

func (r *fakePayoutRepo) GetSummary(ctx context.Context, companyID int64, month, year int) (payroll.PayrollSummaryResponse, error) {
	payouts, err := r.ListByPeriod(ctx, companyID, month, year)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}
	s := payroll.PayrollSummaryResponse{Month: month, Year: year}
	for _, p := range payouts {
		s.TotalEmployees++
		s.TotalBasicSalary = s.TotalBasicSalary.Add(p.BasicSalary)
		s.TotalAllowances = s.TotalAllowances.Add(p.Allowances)
		s.TotalDeductions = s.TotalDeductions.Add(p.Deductions)
		s.TotalNetSalary = s.TotalNetSalary.Add(p.NetSalary)
		if p.Status == payroll.PayoutStatusPaid {
			s.PaidCount++
		} else {
			s.PendingCount++
		}
	}
	return s, nil
}

func (r *fakePayoutRepo) byEmployee(employeeID int64, month, year int) (payroll.MonthlyPayout, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findByPeriod(employeeID, month, year)
	if p == nil {
		return payroll.MonthlyPayout{}, false
	}
	return *p, true
}

func (r *fakePayoutRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payouts)
}

// ========== roster and ledgers ==========

type fakeEmployeeRepo struct {
	employees []employee.Employee
	err       error
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id int64, companyID int64) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID int64) ([]employee.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveCompanyIDs(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, e := range r.employees {
		if e.IsActive && !seen[e.CompanyID] {
			seen[e.CompanyID] = true
			ids = append(ids, e.CompanyID)
		}
	}
	return ids, nil
}

type fakePolicyRepo struct {
	attendance    map[int64]policy.AttendancePolicy
	leavePolicies []policy.LeavePolicy
}

func (r *fakePolicyRepo) GetAttendancePolicy(ctx context.Context, companyID int64) (policy.AttendancePolicy, error) {
	p, ok := r.attendance[companyID]
	if !ok {
		return policy.AttendancePolicy{}, policy.ErrAttendancePolicyNotFound
	}
	return p, nil
}

func (r *fakePolicyRepo) ListLeavePolicies(ctx context.Context, companyID int64) ([]policy.LeavePolicy, error) {
	var out []policy.LeavePolicy
	for _, lp := range r.leavePolicies {
		if lp.CompanyID == companyID {
			out = append(out, lp)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (r *fakeHolidayRepo) ListByRange(ctx context.Context, companyID int64, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.holidays {
		if h.CompanyID == companyID && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Attendance
}

func (r *fakeAttendanceRepo) ListByCompanyAndRange(ctx context.Context, companyID int64, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.CompanyID == companyID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	requests []leave.LeaveRequest
}

func (r *fakeLeaveRepo) ListApprovedInRange(ctx context.Context, companyID int64, from, to time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, lr := range r.requests {
		if lr.CompanyID == companyID && lr.Status == leave.StatusApproved && !lr.StartDate.After(to) && !lr.EndDate.Before(from) {
			out = append(out, lr)
		}
	}
	return out, nil
}

// ========== fixture ==========

type fixture struct {
	payouts    *fakePayoutRepo
	employees  *fakeEmployeeRepo
	policies   *fakePolicyRepo
	holidays   *fakeHolidayRepo
	attendance *fakeAttendanceRepo
	leaves     *fakeLeaveRepo
	now        time.Time
}

func newFixture() *fixture {
	return &fixture{
		payouts:    newFakePayoutRepo(),
		employees:  &fakeEmployeeRepo{},
		policies:   &fakePolicyRepo{attendance: map[int64]policy.AttendancePolicy{}},
		holidays:   &fakeHolidayRepo{},
		attendance: &fakeAttendanceRepo{},
		leaves:     &fakeLeaveRepo{},
		now:        date(2025, 7, 3),
	}
}

func (f *fixture) service() *PayrollServiceImpl {
	svc := NewPayrollService(f.payouts, f.employees, f.policies, f.holidays, f.attendance, f.leaves, Options{
		Workers:       3,
		CurrencyLabel: "BDT",
		Now:           func() time.Time { return f.now },
	})
	return svc.(*PayrollServiceImpl)
}

// presentAllMonth records every date of the month as present, except the listed days.
func (f *fixture) presentAllMonth(emp employee.Employee, month time.Month, year int, except ...int) {
	skip := map[int]bool{}
	for _, d := range except {
		skip[d] = true
	}
	days := DaysInMonth(int(month), year)
	for d := 1; d <= days; d++ {
		if skip[d] {
			continue
		}
		f.attendance.records = append(f.attendance.records, attendance.Attendance{
			EmployeeID: emp.ID, CompanyID: emp.CompanyID, Date: date(year, month, d), Status: attendance.StatusPresent,
		})
	}
}

func (f *fixture) setStatus(employeeID int64, day time.Time, status attendance.Status) {
	for i := range f.attendance.records {
		r := &f.attendance.records[i]
		if r.EmployeeID == employeeID && r.Date.Equal(day) {
			r.Status = status
			return
		}
	}
	panic("no attendance record on " + dateKey(day))
}

var errStorage = errors.New("storage unavailable")

// removeRecords drops the June 2025 attendance of one employee on the given days.
func (f *fixture) removeRecords(employeeID int64, days ...int) {
	drop := map[string]bool{}
	for _, d := range days {
		drop[dateKey(date(2025, time.June, d))] = true
	}
	kept := f.attendance.records[:0]
	for _, r := range f.attendance.records {
		if r.EmployeeID == employeeID && drop[dateKey(r.Date)] {
			continue
		}
		kept = append(kept, r)
	}
	f.attendance.records = kept
}
