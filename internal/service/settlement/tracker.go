package settlement

import (
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/pkg/money"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ShareAmount is the partner's part of the month's net balance. It is
// negative for a loss month and is not rounded.
func ShareAmount(netBalance, percentage decimal.Decimal) decimal.Decimal {
	return money.Percent(netBalance, percentage)
}

// StatusFor compares whole currency units, so a share of 999.40 is settled
// by a payment of 999.10.
func StatusFor(share, paid decimal.Decimal) settlement.Status {
	if !paid.IsPositive() {
		return settlement.StatusPending
	}
	if money.Ceil(paid).GreaterThanOrEqual(money.Ceil(share)) {
		return settlement.StatusSettled
	}
	return settlement.StatusPartial
}

// Normalize converts a legacy record, which only carries a status, into an
// itemised one. A settled legacy record is treated as fully paid.
func Normalize(rec settlement.Record) settlement.Record {
	if !rec.Legacy {
		return rec
	}
	rec.Legacy = false
	if rec.Status == settlement.StatusSettled {
		rec.Paid = rec.TotalShare
	} else {
		rec.Paid = decimal.Zero
	}
	rec.Transactions = []settlement.Transaction{}
	rec.Status = StatusFor(rec.TotalShare, rec.Paid)
	return rec
}

// RecordPayment appends tx to the record and refreshes the share to the
// month's current figure.
func RecordPayment(rec settlement.Record, share decimal.Decimal, tx settlement.Transaction) (settlement.Record, error) {
	if !tx.Amount.IsPositive() {
		return rec, validator.ValidationErrors{{Field: "amount", Message: "must be greater than 0"}}
	}
	if share.IsNegative() {
		return rec, settlement.ErrLossNotSettleable
	}
	if share.IsZero() {
		return rec, settlement.ErrNothingToSettle
	}

	rec = Normalize(rec)
	rec.TotalShare = share
	rec.Transactions = append(append([]settlement.Transaction{}, rec.Transactions...), tx)
	rec.Paid = rec.Paid.Add(tx.Amount)
	rec.Status = StatusFor(rec.TotalShare, rec.Paid)
	return rec, nil
}

// DeleteTransaction removes one payment and recomputes paid and status.
func DeleteTransaction(rec settlement.Record, txID string) (settlement.Record, error) {
	rec = Normalize(rec)

	idx := -1
	for i, tx := range rec.Transactions {
		if tx.ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rec, settlement.ErrTransactionNotFound
	}

	removed := rec.Transactions[idx]
	remaining := make([]settlement.Transaction, 0, len(rec.Transactions)-1)
	remaining = append(remaining, rec.Transactions[:idx]...)
	remaining = append(remaining, rec.Transactions[idx+1:]...)

	rec.Transactions = remaining
	rec.Paid = money.Max(decimal.Zero, rec.Paid.Sub(removed.Amount))
	rec.Status = StatusFor(rec.TotalShare, rec.Paid)
	return rec, nil
}

// PreviousOutstanding is what was left unpaid on the previous month's record.
// The record itself is not modified.
func PreviousOutstanding(prev settlement.Record, exists bool) decimal.Decimal {
	if !exists {
		return decimal.Zero
	}
	return Normalize(prev).Outstanding()
}

// TotalPayable composes the current share with the carried balance for
// display. A loss month contributes nothing.
func TotalPayable(share, previousOutstanding decimal.Decimal) decimal.Decimal {
	return money.Max(decimal.Zero, share).Add(previousOutstanding)
}
