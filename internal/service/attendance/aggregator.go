package attendance

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// Summary is the attendance picture of one employee for one month.
type Summary struct {
	Counts      map[attendance.Status]int
	PayableDays decimal.Decimal
	TotalDays   int
}

// Summarize counts the recorded days of the month. Entries outside the month
// are ignored, a date recorded twice keeps the later entry and a day with no
// entry counts as not marked.
func Summarize(days []attendance.Day, year int, month time.Month) Summary {
	total := attendance.DaysInMonth(year, month)

	byDay := make(map[int]attendance.Status, total)
	for _, d := range days {
		date := d.Date
		if date.Year() != year || date.Month() != month {
			continue
		}
		byDay[date.Day()] = d.Status
	}

	summary := Summary{
		Counts:      make(map[attendance.Status]int),
		PayableDays: decimal.Zero,
		TotalDays:   total,
	}
	for day := 1; day <= total; day++ {
		status, ok := byDay[day]
		if !ok {
			status = attendance.StatusNotMarked
		}
		summary.Counts[status]++
		summary.PayableDays = summary.PayableDays.Add(status.Weight())
	}

	return summary
}

// PayableDays returns the payable-day total of the month at half-day granularity.
func PayableDays(days []attendance.Day, year int, month time.Month) decimal.Decimal {
	return Summarize(days, year, month).PayableDays
}
