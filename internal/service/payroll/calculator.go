package payroll

import (
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculator turns a monthly compensation figure into pro-rated earnings and
// splits any salary figure by the configured policy. Every derived figure is
// rounded half-up on its own.
type Calculator struct {
	split    payroll.SplitPolicy
	fallback decimal.Decimal
}

func NewCalculator(split payroll.SplitPolicy, fallback decimal.Decimal) Calculator {
	if fallback.IsNegative() {
		fallback = decimal.Zero
	}
	return Calculator{split: split, fallback: fallback}
}

// Earnings is the pro-rated part of a payroll entry.
type Earnings struct {
	PerDaySalary decimal.Decimal
	GrossEarned  decimal.Decimal
}

// Components is a figure split into basic, HRA and special allowance.
type Components struct {
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	SpecialAllowance decimal.Decimal
}

// Allowances is HRA plus special allowance.
func (c Components) Allowances() decimal.Decimal {
	return c.HRA.Add(c.SpecialAllowance)
}

// SanitizeCompensation reads the compensation as stored on the staff record.
// Unreadable input yields the fallback and a negative figure yields zero.
func (c Calculator) SanitizeCompensation(raw string) decimal.Decimal {
	d, ok := money.Parse(raw)
	if !ok {
		return c.fallback
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Prorate scales monthly by payableDays out of daysInMonth.
func (c Calculator) Prorate(monthly, payableDays decimal.Decimal, daysInMonth int) Earnings {
	if daysInMonth <= 0 {
		return Earnings{PerDaySalary: decimal.Zero, GrossEarned: decimal.Zero}
	}
	days := decimal.NewFromInt(int64(daysInMonth))

	// gross is round(perDay * payableDays), evaluated as monthly*payable/days
	// so the repeating per-day rate is never truncated before the multiply
	// and full attendance returns round(monthly) exactly
	return Earnings{
		PerDaySalary: monthly.Div(days).Round(2),
		GrossEarned:  money.RoundHalfUp(monthly.Mul(payableDays).Div(days)),
	}
}

// Split applies the split policy to amount.
func (c Calculator) Split(amount decimal.Decimal) Components {
	return Components{
		Basic:            money.RoundHalfUp(money.Percent(amount, c.split.BasicPercent)),
		HRA:              money.RoundHalfUp(money.Percent(amount, c.split.HRAPercent)),
		SpecialAllowance: money.RoundHalfUp(money.Percent(amount, c.split.AllowancePercent)),
	}
}

// FullPackage splits the unprorated monthly figure.
func (c Calculator) FullPackage(monthly decimal.Decimal) payroll.SalaryStructure {
	parts := c.Split(monthly)
	return payroll.SalaryStructure{
		Monthly:    monthly,
		Basic:      parts.Basic,
		HRA:        parts.HRA,
		Allowances: parts.SpecialAllowance,
	}
}
