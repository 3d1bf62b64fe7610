package settlement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusPartial Status = "Partial"
	StatusSettled Status = "Settled"
)

type Method string

const (
	MethodCash         Method = "Cash"
	MethodBankTransfer Method = "Bank Transfer"
	MethodUPI          Method = "UPI"
	MethodCheque       Method = "Cheque"
)

// Key identifies one partner's settlement for one month of one tenant.
type Key struct {
	CorporateID  string
	Month        string // YYYY-MM
	PartnerIndex int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.CorporateID, k.Month, k.PartnerIndex)
}

// Previous returns the key of the same partner one month earlier.
func (k Key) Previous() (Key, error) {
	t, err := time.Parse("2006-01", k.Month)
	if err != nil {
		return Key{}, ErrInvalidMonth
	}
	prev := t.AddDate(0, -1, 0)
	return Key{
		CorporateID:  k.CorporateID,
		Month:        prev.Format("2006-01"),
		PartnerIndex: k.PartnerIndex,
	}, nil
}

type Transaction struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Method Method          `json:"method"`
}

// Record tracks what has been paid against a partner's share for a month.
// TotalShare is the raw share of that month only; balances carried from
// earlier months are never folded into it.
type Record struct {
	Key          Key
	TotalShare   decimal.Decimal
	Paid         decimal.Decimal
	Status       Status
	Transactions []Transaction
	// Legacy marks rows written before payments were itemised. They carry a
	// status but no paid amount or transactions.
	Legacy    bool
	UpdatedAt time.Time
}

// Outstanding is the unpaid part of the share, never below zero.
func (r Record) Outstanding() decimal.Decimal {
	out := r.TotalShare.Sub(r.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Partner is a profit sharing partner of a tenant. Index is the partner's
// stable position in the tenant's partner list.
type Partner struct {
	CorporateID string
	Index       int
	Name        string
	Percentage  decimal.Decimal
}

// LedgerTotals is the bookkeeping summary of one month.
type LedgerTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// NetBalance is income minus expense and is negative for a loss month.
func (t LedgerTotals) NetBalance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
