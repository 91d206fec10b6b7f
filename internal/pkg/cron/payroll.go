package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

const GenerateMissingPayrollJob = "generate_missing_payroll"

// PayrollJobs fills in payouts for the month that just ended. It never forces,
// so existing payouts are left untouched.
type PayrollJobs struct {
	payrollSvc   payroll.PayrollService
	employeeRepo employee.EmployeeRepository
	logger       *slog.Logger
	now          func() time.Time

	mu            sync.Mutex
	completedYear int
	completedMon  int
}

func NewPayrollJobs(payrollSvc payroll.PayrollService, employeeRepo employee.EmployeeRepository, logger *slog.Logger) *PayrollJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollJobs{
		payrollSvc:   payrollSvc,
		employeeRepo: employeeRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(GenerateMissingPayrollJob, interval, interval, j.GenerateMissingPayroll)
}

// PreviousPeriod returns the month and year before the one containing now.
func PreviousPeriod(now time.Time) (month, year int) {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := firstOfMonth.AddDate(0, 0, -1)
	return int(prev.Month()), prev.Year()
}

// GenerateMissingPayroll runs "process missing" generation of the previous
// month for every company with active employees. Once a period has been fully
// processed without failures later ticks do nothing until the month rolls over.
func (j *PayrollJobs) GenerateMissingPayroll(ctx context.Context) error {
	month, year := PreviousPeriod(j.now())

	j.mu.Lock()
	done := j.completedMon == month && j.completedYear == year
	j.mu.Unlock()
	if done {
		return nil
	}

	companyIDs, err := j.employeeRepo.ListActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	j.logger.Info("Cron: generating missing payroll", "month", month, "year", year, "companies", len(companyIDs))

	var errs []error
	clean := true
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return errors.Join(append(errs, ctx.Err())...)
		}

		report, err := j.payrollSvc.Generate(ctx, companyID, payroll.GeneratePayrollRequest{Month: month, Year: year})
		if err != nil {
			errs = append(errs, fmt.Errorf("company %d: %w", companyID, err))
			clean = false
			continue
		}
		if len(report.Failed) > 0 || report.Cancelled {
			clean = false
		}
		j.logger.Info("Cron: payroll generated",
			"company_id", companyID,
			"run_id", report.RunID,
			"created", report.Created,
			"skipped", report.Skipped,
			"failed", len(report.Failed),
		)
	}

	if clean {
		j.mu.Lock()
		j.completedMon, j.completedYear = month, year
		j.mu.Unlock()
	}

	return errors.Join(errs...)
}
