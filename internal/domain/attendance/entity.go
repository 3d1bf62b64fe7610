package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent   Status = "PRESENT"
	StatusAbsent    Status = "ABSENT"
	StatusHalfDay   Status = "HALF_DAY"
	StatusPaidLeave Status = "PAID_LEAVE"
	StatusWeekOff   Status = "WEEK_OFF"
	StatusHoliday   Status = "HOLIDAY"
	StatusNotMarked Status = "NOT_MARKED"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// Weight is the payable fraction of a day with this status.
func (s Status) Weight() decimal.Decimal {
	switch s {
	case StatusPresent, StatusWeekOff, StatusPaidLeave:
		return fullDay
	case StatusHalfDay:
		return halfDay
	default:
		return decimal.Zero
	}
}

// Day is one employee's status on one calendar date.
type Day struct {
	Date   time.Time
	Status Status
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
