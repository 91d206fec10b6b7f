package payroll

import "context"

type PayrollService interface {
	// GeneratePayroll runs generation for the company in the caller's token.
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GenerationReport, error)
	// Generate runs generation for an explicit company; used by scheduled jobs.
	Generate(ctx context.Context, companyID int64, req GeneratePayrollRequest) (GenerationReport, error)

	ListPayouts(ctx context.Context, filter PayoutFilter) ([]PayoutResponse, error)
	GetPayout(ctx context.Context, id int64) (PayoutResponse, error)
	UpdatePayoutStatus(ctx context.Context, req UpdatePayoutStatusRequest) (StatusUpdateResult, error)
	ListMyPayouts(ctx context.Context) ([]PayoutResponse, error)
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
	// RenderPayslip returns the PDF bytes and a suggested file name.
	RenderPayslip(ctx context.Context, id int64) ([]byte, string, error)
}
