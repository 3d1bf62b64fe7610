// Package money holds the rounding and parsing rules shared by every amount
// the payroll and settlement engines produce.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// RoundHalfUp rounds to the nearest integer currency unit, ties toward
// positive infinity (2.5 -> 3, -2.5 -> -2).
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// Ceil rounds up to the next integer currency unit.
func Ceil(d decimal.Decimal) decimal.Decimal {
	return d.Ceil()
}

// Percent returns d * pct / 100 without rounding.
func Percent(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(pct).Div(decimal.NewFromInt(100))
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

var amountReplacer = strings.NewReplacer(",", "", " ", "", "₹", "", "$", "", "Rs.", "", "Rs", "", "INR", "")

// Parse reads a free-form amount such as "25,000", "₹ 1,200.50" or "18000".
// It reports false when nothing numeric remains after stripping separators
// and currency marks.
func Parse(raw string) (decimal.Decimal, bool) {
	cleaned := amountReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseOr parses raw and returns fallback when it cannot be read.
func ParseOr(raw string, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := Parse(raw); ok {
		return d
	}
	return fallback
}
