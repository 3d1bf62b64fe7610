package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusPaid     Status = "Paid"
)

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCheque       PaymentMode = "Cheque"
)

// SalaryAdvanceRequest moves Pending -> Paid on approval or Pending -> Rejected.
// Approved exists for records imported from older data and is never produced
// by the approval flow.
type SalaryAdvanceRequest struct {
	ID              string
	CorporateID     string
	EmployeeID      string
	EmployeeName    string
	AmountRequested decimal.Decimal
	AmountApproved  decimal.Decimal
	Reason          string
	Status          Status
	RequestDate     time.Time
	PaymentDate     *time.Time
	PaymentMode     PaymentMode
	ProcessedBy     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsPending reports whether the request can still be approved or rejected.
func (r SalaryAdvanceRequest) IsPending() bool {
	return r.Status == StatusPending
}

type EventType string

const (
	EventAdvanceSettled  EventType = "advance_settled"
	EventAdvanceRejected EventType = "advance_rejected"
)

// Event is emitted on every approval or rejection for the notifier to deliver.
type Event struct {
	Type        EventType
	Title       string
	Message     string
	TargetRoles []string
	CorporateID string
	EmployeeID  string
	Link        string
	Amount      decimal.Decimal
	Mode        PaymentMode
}
