package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// ListByMonth returns the days recorded in the month, grouped by employee id.
	ListByMonth(ctx context.Context, corporateID string, employeeIDs []string, year int, month time.Month) (map[string][]Day, error)
}
