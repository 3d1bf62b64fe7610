package settlement

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	Month        string          `json:"-"`
	PartnerIndex int             `json:"-"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method" validate:"required,oneof=Cash 'Bank Transfer' UPI Cheque"`
	Date         string          `json:"date,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be in YYYY-MM format")
	}
	if r.PartnerIndex < 0 {
		errs.Add("partner_index", "must be non-negative")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type DeleteTransactionRequest struct {
	Month         string
	PartnerIndex  int
	TransactionID string
}

func (r *DeleteTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "must be in YYYY-MM format")
	}
	if r.PartnerIndex < 0 {
		errs.Add("partner_index", "must be non-negative")
	}
	if validator.IsEmpty(r.TransactionID) {
		errs.Add("transaction_id", "is required")
	}

	return errs.Err()
}

type PartnerResponse struct {
	Index      int             `json:"index"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

type TransactionResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Method Method          `json:"method"`
}

type RecordResponse struct {
	Month        string                `json:"month"`
	PartnerIndex int                   `json:"partner_index"`
	TotalShare   decimal.Decimal       `json:"total_share"`
	Paid         decimal.Decimal       `json:"paid"`
	Balance      decimal.Decimal       `json:"balance"`
	Status       Status                `json:"status"`
	Transactions []TransactionResponse `json:"transactions"`
}

type PartnerSettlementResponse struct {
	PartnerIndex        int             `json:"partner_index"`
	Name                string          `json:"name"`
	Percentage          decimal.Decimal `json:"percentage"`
	ShareAmount         decimal.Decimal `json:"share_amount"`
	IsLoss              bool            `json:"is_loss"`
	PreviousOutstanding decimal.Decimal `json:"previous_outstanding"`
	TotalPayable        decimal.Decimal `json:"total_payable"`
	Record              *RecordResponse `json:"record,omitempty"`
}

type MonthSummaryResponse struct {
	Month      string                      `json:"month"`
	Income     decimal.Decimal             `json:"income"`
	Expense    decimal.Decimal             `json:"expense"`
	NetBalance decimal.Decimal             `json:"net_balance"`
	Partners   []PartnerSettlementResponse `json:"partners"`
}

type OutstandingResponse struct {
	Month        string          `json:"month"`
	PartnerIndex int             `json:"partner_index"`
	PartnerName  string          `json:"partner_name,omitempty"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

func ToRecordResponse(r Record) RecordResponse {
	txs := make([]TransactionResponse, len(r.Transactions))
	for i, t := range r.Transactions {
		txs[i] = TransactionResponse{ID: t.ID, Amount: t.Amount, Date: t.Date, Method: t.Method}
	}
	return RecordResponse{
		Month:        r.Key.Month,
		PartnerIndex: r.Key.PartnerIndex,
		TotalShare:   r.TotalShare,
		Paid:         r.Paid,
		Balance:      r.Outstanding(),
		Status:       r.Status,
		Transactions: txs,
	}
}
