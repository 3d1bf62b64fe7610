package payroll

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	advancesvc "github.com/okboz/okboz-backend-go/internal/service/advance"
	attendancesvc "github.com/okboz/okboz-backend-go/internal/service/attendance"
	"github.com/shopspring/decimal"
)

// BatchInput is everything a recompute reads from the collaborating stores.
type BatchInput struct {
	Period     payroll.Period
	Employees  []employee.Employee
	Attendance map[string][]attendance.Day
	Advances   []advance.SalaryAdvanceRequest
}

// ComputeBatch builds one entry per employee. Bonus, deductions and status
// entered by hand in previous survive the recompute.
func (c Calculator) ComputeBatch(in BatchInput, previous map[string]payroll.Entry) map[string]payroll.Entry {
	year, month := in.Period.Year, in.Period.Month
	totalDays := attendance.DaysInMonth(year, month)
	deductions := advancesvc.ResolveDeductions(in.Advances)

	entries := make(map[string]payroll.Entry, len(in.Employees))
	for _, emp := range in.Employees {
		monthly := c.SanitizeCompensation(emp.Compensation)
		payable := attendancesvc.PayableDays(in.Attendance[emp.ID], year, month)
		earnings := c.Prorate(monthly, payable, totalDays)
		parts := c.Split(earnings.GrossEarned)

		advanceDeduction, ok := deductions[emp.ID]
		if !ok {
			advanceDeduction = decimal.Zero
		}

		entry := payroll.Entry{
			EmployeeID:          emp.ID,
			EmployeeName:        emp.FullName,
			Department:          emp.Department,
			Branch:              emp.Branch,
			MonthlyCompensation: monthly,
			PerDaySalary:        earnings.PerDaySalary,
			GrossEarned:         earnings.GrossEarned,
			BasicSalary:         parts.Basic,
			HRA:                 parts.HRA,
			SpecialAllowance:    parts.SpecialAllowance,
			Allowances:          parts.Allowances(),
			Bonus:               decimal.Zero,
			Deductions:          decimal.Zero,
			AdvanceDeduction:    advanceDeduction,
			PayableDays:         payable,
			TotalDays:           totalDays,
			Status:              payroll.EntryStatusPending,
		}

		if prev, ok := previous[emp.ID]; ok {
			entry = MergeManual(entry, prev)
		}
		entries[emp.ID] = entry
	}

	return entries
}

// MergeManual copies the hand-edited fields of prev onto computed.
func MergeManual(computed, prev payroll.Entry) payroll.Entry {
	computed.Bonus = prev.Bonus
	computed.Deductions = prev.Deductions
	if prev.Status != "" {
		computed.Status = prev.Status
	}
	return computed
}

// CloneEntries returns a copy of entries that shares no map with the input.
func CloneEntries(entries map[string]payroll.Entry) map[string]payroll.Entry {
	out := make(map[string]payroll.Entry, len(entries))
	for id, e := range entries {
		out[id] = e
	}
	return out
}

// TotalPayout is the sum of net pay over all entries.
func TotalPayout(entries map[string]payroll.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.NetPay())
	}
	return total
}

// NewHistoryRecord snapshots entries into a saved batch.
func NewHistoryRecord(id, corporateID, createdBy string, period payroll.Period, entries map[string]payroll.Entry, now time.Time) (payroll.HistoryRecord, error) {
	if len(entries) == 0 {
		return payroll.HistoryRecord{}, payroll.ErrDraftEmpty
	}

	snapshot := CloneEntries(entries)
	return payroll.HistoryRecord{
		ID:            id,
		CorporateID:   corporateID,
		Name:          period.Label() + " Payroll",
		Period:        period.Key(),
		CreatedAt:     now,
		CreatedBy:     createdBy,
		TotalPayout:   TotalPayout(snapshot),
		EmployeeCount: len(snapshot),
		Entries:       snapshot,
	}, nil
}
