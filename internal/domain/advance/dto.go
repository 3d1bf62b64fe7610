package advance

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "is required")
	}
	if validator.IsEmpty(r.EmployeeName) {
		errs.Add("employee_name", "is required")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than 0")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}

	return errs.Err()
}

type ApproveAdvanceRequest struct {
	ID             string          `json:"-"`
	AmountApproved decimal.Decimal `json:"amount_approved"`
	PaymentMode    string          `json:"payment_mode" validate:"required,oneof=Cash 'Bank Transfer' UPI Cheque"`
}

func (r *ApproveAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		} else {
			return err
		}
	}
	if !r.AmountApproved.IsPositive() {
		errs.Add("amount_approved", "must be greater than 0")
	}
	return errs.Err()
}

type AdvanceFilter struct {
	Status     *Status
	EmployeeID *string
}

type AdvanceResponse struct {
	ID              string          `json:"id"`
	CorporateID     string          `json:"corporate_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	AmountRequested decimal.Decimal `json:"amount_requested"`
	AmountApproved  decimal.Decimal `json:"amount_approved"`
	Reason          string          `json:"reason"`
	Status          Status          `json:"status"`
	RequestDate     time.Time       `json:"request_date"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	PaymentMode     PaymentMode     `json:"payment_mode,omitempty"`
}

func ToResponse(r SalaryAdvanceRequest) AdvanceResponse {
	return AdvanceResponse{
		ID:              r.ID,
		CorporateID:     r.CorporateID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		AmountRequested: r.AmountRequested,
		AmountApproved:  r.AmountApproved,
		Reason:          r.Reason,
		Status:          r.Status,
		RequestDate:     r.RequestDate,
		PaymentDate:     r.PaymentDate,
		PaymentMode:     r.PaymentMode,
	}
}
