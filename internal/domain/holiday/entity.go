package holiday

import "time"

// Holiday - company-wide non-working date
type Holiday struct {
	ID        int64
	CompanyID int64
	Name      string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
