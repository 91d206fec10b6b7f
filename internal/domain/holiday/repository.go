package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListByRange returns the company's holidays with from <= date <= to.
	ListByRange(ctx context.Context, companyID int64, from, to time.Time) ([]Holiday, error)
}
