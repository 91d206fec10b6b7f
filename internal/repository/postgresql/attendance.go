package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByCompanyAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByCompanyAndRange(ctx context.Context, companyID int64, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, date, clock_in, clock_out, status,
			   late_minutes, overtime_minutes, created_at, updated_at
		FROM attendances
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.ClockIn, &a.ClockOut, &a.Status,
			&a.LateMinutes, &a.OvertimeMinutes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}
