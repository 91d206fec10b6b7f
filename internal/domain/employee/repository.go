package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64, companyID int64) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID int64) ([]Employee, error)
	ListActiveCompanyIDs(ctx context.Context) ([]int64, error)
}
