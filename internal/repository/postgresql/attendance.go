package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByMonth implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByMonth(ctx context.Context, corporateID string, employeeIDs []string, year int, month time.Month) (map[string][]attendance.Day, error) {
	if month < time.January || month > time.December {
		return nil, attendance.ErrInvalidPeriod
	}
	result := make(map[string][]attendance.Day, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT employee_id, date, status
		FROM attendance_days
		WHERE corporate_id = $1
			AND employee_id = ANY($2)
			AND date >= $3 AND date < $4
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, corporateID, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %04d-%02d: %w", year, int(month), err)
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID, status string
		var date time.Time
		if err := rows.Scan(&employeeID, &date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result[employeeID] = append(result[employeeID], attendance.Day{
			Date:   date,
			Status: attendance.Status(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return result, nil
}
