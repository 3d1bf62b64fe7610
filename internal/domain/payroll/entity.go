package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryStatusPending EntryStatus = "Pending"
	EntryStatusPaid    EntryStatus = "Paid"
)

// Entry is one employee's line in a payroll batch. Bonus, Deductions and
// Status are edited by hand; everything else is derived on recompute.
type Entry struct {
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        string          `json:"employee_name"`
	Department          string          `json:"department,omitempty"`
	Branch              string          `json:"branch,omitempty"`
	MonthlyCompensation decimal.Decimal `json:"monthly_compensation"`
	PerDaySalary        decimal.Decimal `json:"per_day_salary"`
	GrossEarned         decimal.Decimal `json:"gross_earned"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`
	Allowances          decimal.Decimal `json:"allowances"`
	Bonus               decimal.Decimal `json:"bonus"`
	Deductions          decimal.Decimal `json:"deductions"`
	AdvanceDeduction    decimal.Decimal `json:"advance_deduction"`
	PayableDays         decimal.Decimal `json:"payable_days"`
	TotalDays           int             `json:"total_days"`
	Status              EntryStatus     `json:"status"`
}

// NetPay is basic + allowances + bonus - deductions - advance deduction.
// The result may be negative.
func (e Entry) NetPay() decimal.Decimal {
	return e.BasicSalary.
		Add(e.Allowances).
		Add(e.Bonus).
		Sub(e.Deductions).
		Sub(e.AdvanceDeduction)
}

// Period is a billing month.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year, month int) (Period, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod reads "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return NewPeriod(t.Year(), int(t.Month()))
}

// Key formats the period as "YYYY-MM".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label formats the period as "January 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// Draft is the working set of a payroll run that has not been saved yet.
type Draft struct {
	CorporateID string           `json:"corporate_id"`
	Period      string           `json:"period"`
	Entries     map[string]Entry `json:"entries"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HistoryRecord is an immutable snapshot of a saved payroll batch.
type HistoryRecord struct {
	ID            string
	CorporateID   string
	Name          string
	Period        string
	CreatedAt     time.Time
	CreatedBy     string
	TotalPayout   decimal.Decimal
	EmployeeCount int
	Entries       map[string]Entry
	ArchiveKey    *string
}

// SplitPolicy is the percentage decomposition of a salary figure.
type SplitPolicy struct {
	BasicPercent     decimal.Decimal
	HRAPercent       decimal.Decimal
	AllowancePercent decimal.Decimal
}

// DefaultSplitPolicy is 50% basic, 30% HRA, 20% special allowance.
func DefaultSplitPolicy() SplitPolicy {
	return SplitPolicy{
		BasicPercent:     decimal.NewFromInt(50),
		HRAPercent:       decimal.NewFromInt(30),
		AllowancePercent: decimal.NewFromInt(20),
	}
}

// SalaryStructure is the decomposition of a full, unprorated monthly figure.
type SalaryStructure struct {
	Monthly    decimal.Decimal
	Basic      decimal.Decimal
	HRA        decimal.Decimal
	Allowances decimal.Decimal
}

// Total is the sum of the independently rounded components.
func (s SalaryStructure) Total() decimal.Decimal {
	return s.Basic.Add(s.HRA).Add(s.Allowances)
}
