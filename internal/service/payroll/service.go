package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/payslip"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options tunes the engine. Zero values fall back to sane defaults.
type Options struct {
	Workers       int
	CurrencyLabel string
	Logger        *slog.Logger
	Now           func() time.Time
}

type PayrollServiceImpl struct {
	payoutRepo     payroll.PayoutRepository
	employeeRepo   employee.EmployeeRepository
	policyRepo     policy.PolicyRepository
	holidayRepo    holiday.HolidayRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository

	workers  int
	currency string
	logger   *slog.Logger
	now      func() time.Time
}

func NewPayrollService(
	payoutRepo payroll.PayoutRepository,
	employeeRepo employee.EmployeeRepository,
	policyRepo policy.PolicyRepository,
	holidayRepo holiday.HolidayRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	opts Options,
) payroll.PayrollService {
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PayrollServiceImpl{
		payoutRepo:     payoutRepo,
		employeeRepo:   employeeRepo,
		policyRepo:     policyRepo,
		holidayRepo:    holidayRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		workers:        opts.Workers,
		currency:       opts.CurrencyLabel,
		logger:         opts.Logger,
		now:            opts.Now,
	}
}

// Helper to get company_id from JWT context
func getCompanyFromContext(ctx context.Context) (int64, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := jwt.ClaimInt64(claims, "company_id")
	if !ok {
		return 0, auth.ErrCompanyClaimMissing
	}
	return companyID, nil
}

// Helper to get company_id and employee_id from JWT context
func getEmployeeFromContext(ctx context.Context) (companyID, employeeID int64, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := jwt.ClaimInt64(claims, "company_id")
	if !ok {
		return 0, 0, auth.ErrCompanyClaimMissing
	}
	employeeID, ok = jwt.ClaimInt64(claims, "employee_id")
	if !ok {
		return 0, 0, auth.ErrEmployeeClaimMissing
	}
	return companyID, employeeID, nil
}

// ========== GENERATION ==========

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerationReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerationReport{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return payroll.GenerationReport{}, err
	}

	return s.Generate(ctx, companyID, req)
}

// generationInputs holds everything a run reads, fetched once per company and month.
type generationInputs struct {
	policy        policy.AttendancePolicy
	leavePolicies map[int64]policy.LeavePolicy
	holidays      map[string]struct{}
	employees     []employee.Employee
	leaves        map[int64][]leave.LeaveRequest
	attendance    map[int64][]attendance.Attendance
	existing      map[int64]payroll.MonthlyPayout
}

type generationJob struct {
	employee employee.Employee
	existing *payroll.MonthlyPayout
}

type computeResult struct {
	payout payroll.MonthlyPayout
	err    error
}

func (s *PayrollServiceImpl) Generate(ctx context.Context, companyID int64, req payroll.GeneratePayrollRequest) (payroll.GenerationReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerationReport{}, err
	}

	runID := newRunID()
	logger := s.logger.With("run_id", runID, "company_id", companyID, "month", req.Month, "year", req.Year)
	report := payroll.GenerationReport{
		RunID:  runID,
		Month:  req.Month,
		Year:   req.Year,
		Failed: []payroll.GenerationFailure{},
	}
	fail := func(employeeID int64, err error) {
		logger.Warn("Payroll generation failed for employee", "employee_id", employeeID, "error", err)
		report.Failed = append(report.Failed, payroll.GenerationFailure{EmployeeID: employeeID, Reason: err.Error()})
	}

	logger.Info("Payroll generation started", "force", req.Force, "overwrite_paid", req.OverwritePaid)

	in, err := s.loadInputs(ctx, companyID, req.Month, req.Year)
	if err != nil {
		if ctx.Err() != nil {
			report.Cancelled = true
			logger.Warn("Payroll generation cancelled while loading inputs", "error", err)
			return report, nil
		}
		return payroll.GenerationReport{}, fmt.Errorf("failed to load payroll inputs: %w", err)
	}

	employees, missing := selectEmployees(in.employees, req.EmployeeIDs)
	for _, id := range missing {
		fail(id, s.explainMissingEmployee(ctx, id, companyID))
	}

	var jobs []generationJob
	for _, emp := range employees {
		existing, ok := in.existing[emp.ID]
		if !ok {
			jobs = append(jobs, generationJob{employee: emp})
			continue
		}
		if !req.Force || (existing.Status == payroll.PayoutStatusPaid && !req.OverwritePaid) {
			report.Skipped++
			continue
		}
		jobs = append(jobs, generationJob{employee: emp, existing: &existing})
	}

	calculator := NewDeductionCalculator(in.policy)
	results := make([]computeResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			results[i].payout, results[i].err = computeOne(in, calculator, job.employee, req.Month, req.Year)
			return nil
		})
	}
	_ = g.Wait()

	// Writes stay sequential so the unique constraint sees one insert at a time.
	for i, job := range jobs {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		res := results[i]
		if res.err != nil {
			fail(job.employee.ID, res.err)
			continue
		}

		if job.existing != nil {
			updated, err := s.payoutRepo.OverwriteComputed(ctx, res.payout, req.OverwritePaid)
			if err != nil {
				if ctx.Err() != nil {
					report.Cancelled = true
					break
				}
				fail(job.employee.ID, err)
				continue
			}
			if !updated {
				// Paid or removed since the inputs were read.
				report.Skipped++
				continue
			}
			report.Overwritten++
			continue
		}

		if _, err := s.payoutRepo.Create(ctx, res.payout); err != nil {
			if errors.Is(err, payroll.ErrPayoutAlreadyExists) {
				report.Skipped++
				continue
			}
			if ctx.Err() != nil {
				report.Cancelled = true
				break
			}
			fail(job.employee.ID, err)
			continue
		}
		report.Created++
	}

	logger.Info("Payroll generation finished",
		"created", report.Created,
		"skipped", report.Skipped,
		"overwritten", report.Overwritten,
		"failed", len(report.Failed),
		"cancelled", report.Cancelled,
	)

	return report, nil
}

func (s *PayrollServiceImpl) loadInputs(ctx context.Context, companyID int64, month, year int) (*generationInputs, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	in := &generationInputs{}
	var (
		leavePolicies []policy.LeavePolicy
		holidays      []holiday.Holiday
		leaves        []leave.LeaveRequest
		records       []attendance.Attendance
		existing      []payroll.MonthlyPayout
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pol, err := s.policyRepo.GetAttendancePolicy(gctx, companyID)
		if errors.Is(err, policy.ErrAttendancePolicyNotFound) {
			s.logger.Info("Using default attendance policy", "company_id", companyID)
			pol, err = policy.DefaultAttendancePolicy(companyID), nil
		}
		in.policy = pol
		return err
	})
	g.Go(func() (err error) {
		leavePolicies, err = s.policyRepo.ListLeavePolicies(gctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		holidays, err = s.holidayRepo.ListByRange(gctx, companyID, from, to)
		return err
	})
	g.Go(func() (err error) {
		in.employees, err = s.employeeRepo.GetActiveByCompanyID(gctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		leaves, err = s.leaveRepo.ListApprovedInRange(gctx, companyID, from, to)
		return err
	})
	g.Go(func() (err error) {
		records, err = s.attendanceRepo.ListByCompanyAndRange(gctx, companyID, from, to)
		return err
	})
	g.Go(func() (err error) {
		existing, err = s.payoutRepo.ListByPeriod(gctx, companyID, month, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Leaves crossing the month edge are weighed over their whole span, so
	// the holidays outside the month that they cover are needed too.
	if first, last := leaveSpan(leaves, from, to); first.Before(from) || last.After(to) {
		var err error
		holidays, err = s.holidayRepo.ListByRange(ctx, companyID, first, last)
		if err != nil {
			return nil, err
		}
	}

	in.leavePolicies = make(map[int64]policy.LeavePolicy, len(leavePolicies))
	for _, lp := range leavePolicies {
		in.leavePolicies[lp.ID] = lp
	}
	in.holidays = make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		in.holidays[dateKey(h.Date)] = struct{}{}
	}
	in.leaves = make(map[int64][]leave.LeaveRequest)
	for _, lr := range leaves {
		in.leaves[lr.EmployeeID] = append(in.leaves[lr.EmployeeID], lr)
	}
	in.attendance = make(map[int64][]attendance.Attendance)
	for _, a := range records {
		in.attendance[a.EmployeeID] = append(in.attendance[a.EmployeeID], a)
	}
	in.existing = make(map[int64]payroll.MonthlyPayout, len(existing))
	for _, p := range existing {
		in.existing[p.EmployeeID] = p
	}

	return in, nil
}

// leaveSpan widens [from, to] to cover every leave request.
func leaveSpan(leaves []leave.LeaveRequest, from, to time.Time) (time.Time, time.Time) {
	first, last := from, to
	for _, lr := range leaves {
		if start := normalizeDate(lr.StartDate); start.Before(first) {
			first = start
		}
		if end := normalizeDate(lr.EndDate); end.After(last) {
			last = end
		}
	}
	return first, last
}

// selectEmployees narrows the active roster to the requested ids, preserving
// roster order. Requested ids that are not in the roster are returned as missing.
func selectEmployees(active []employee.Employee, requested []int64) (selected []employee.Employee, missing []int64) {
	if len(requested) == 0 {
		return active, nil
	}

	wanted := make(map[int64]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}
	for _, emp := range active {
		if wanted[emp.ID] {
			selected = append(selected, emp)
			delete(wanted, emp.ID)
		}
	}
	for _, id := range requested {
		if wanted[id] {
			missing = append(missing, id)
			delete(wanted, id)
		}
	}
	return selected, missing
}

func (s *PayrollServiceImpl) explainMissingEmployee(ctx context.Context, id, companyID int64) error {
	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return payroll.ErrEmployeeNotInCompany
	case err != nil:
		return err
	case !emp.IsActive:
		return payroll.ErrEmployeeInactive
	default:
		return payroll.ErrEmployeeNotInCompany
	}
}

func computeOne(in *generationInputs, calculator *DeductionCalculator, emp employee.Employee, month, year int) (payout payroll.MonthlyPayout, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", payroll.ErrComputationPanicked, r)
		}
	}()

	classifier, err := NewDayClassifier(in.policy, in.holidays, in.leavePolicies, in.leaves[emp.ID], in.attendance[emp.ID])
	if err != nil {
		return payroll.MonthlyPayout{}, err
	}
	breakdown, err := calculator.ComputeMonth(emp, classifier, month, year)
	if err != nil {
		return payroll.MonthlyPayout{}, err
	}
	return BuildPayout(emp, month, year, breakdown), nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ========== PAYOUTS ==========

func (s *PayrollServiceImpl) ListPayouts(ctx context.Context, filter payroll.PayoutFilter) ([]payroll.PayoutResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payouts, err := s.payoutRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	return payroll.NewPayoutResponses(payouts), nil
}

func (s *PayrollServiceImpl) GetPayout(ctx context.Context, id int64) (payroll.PayoutResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return payroll.PayoutResponse{}, err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayoutResponse{}, err
	}

	return payroll.NewPayoutResponse(p), nil
}

func (s *PayrollServiceImpl) ListMyPayouts(ctx context.Context) ([]payroll.PayoutResponse, error) {
	companyID, employeeID, err := getEmployeeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payouts, err := s.payoutRepo.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	return payroll.NewPayoutResponses(payouts), nil
}

// ========== DISBURSEMENT ==========

func (s *PayrollServiceImpl) UpdatePayoutStatus(ctx context.Context, req payroll.UpdatePayoutStatusRequest) (payroll.StatusUpdateResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.StatusUpdateResult{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return payroll.StatusUpdateResult{}, err
	}

	ids := uniqueIDs(req.IDs)

	var updated []int64
	switch payroll.PayoutStatus(req.Status) {
	case payroll.PayoutStatusPaid:
		paymentDate := normalizeDate(s.now())
		if req.PaymentDate != nil {
			paymentDate, _ = validator.IsValidDate(*req.PaymentDate)
		}
		var method *string
		if req.Method != nil && !validator.IsEmpty(*req.Method) {
			m := strings.TrimSpace(*req.Method)
			method = &m
		}
		updated, err = s.payoutRepo.MarkPaid(ctx, companyID, ids, paymentDate, method)
	case payroll.PayoutStatusPending:
		updated, err = s.payoutRepo.MarkPending(ctx, companyID, ids)
	default:
		return payroll.StatusUpdateResult{}, payroll.ErrInvalidPayoutStatus
	}
	if err != nil {
		return payroll.StatusUpdateResult{}, err
	}

	result := payroll.StatusUpdateResult{
		UpdatedCount: len(updated),
		NotFound:     missingIDs(ids, updated),
	}

	s.logger.Info("Payout status updated",
		"company_id", companyID,
		"status", req.Status,
		"updated", result.UpdatedCount,
		"not_found", len(result.NotFound),
	)

	return result, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(requested, found []int64) []int64 {
	hit := make(map[int64]bool, len(found))
	for _, id := range found {
		hit[id] = true
	}
	missing := []int64{}
	for _, id := range requested {
		if !hit[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if len(errs) > 0 {
		return payroll.PayrollSummaryResponse{}, errs
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	return s.payoutRepo.GetSummary(ctx, companyID, month, year)
}

// ========== PAYSLIP ==========

func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, id int64) ([]byte, string, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return nil, "", err
	}

	p, err := s.payoutRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, "", err
	}

	slip := payslip.Payslip{
		Month:                p.Month,
		Year:                 p.Year,
		Currency:             s.currency,
		BasicSalary:          p.BasicSalary,
		Allowances:           p.Allowances,
		Deductions:           p.Deductions,
		NetSalary:            p.NetSalary,
		Status:               string(p.Status),
		PaymentDate:          p.PaymentDate,
		LateCount:            p.LateCount,
		LateDeduction:        p.LateDeduction,
		UnpaidLeaveDays:      p.UnpaidLeaveDays,
		UnpaidLeaveDeduction: p.UnpaidLeaveDeduction,
		AbsentDays:           p.AbsentDays,
		AbsenceDeduction:     p.AbsenceDeduction,
	}
	if p.EmployeeName != nil {
		slip.EmployeeName = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		slip.EmployeeCode = *p.EmployeeCode
	}
	if p.Department != nil {
		slip.Department = *p.Department
	}
	if p.PaymentMethod != nil {
		slip.PaymentMethod = *p.PaymentMethod
	}

	pdf, err := payslip.Render(slip)
	if err != nil {
		return nil, "", err
	}
	return pdf, slip.FileName(), nil
}
