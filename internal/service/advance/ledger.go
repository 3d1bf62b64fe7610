package advance

import (
	"fmt"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ResolveDeduction sums the approved amount of every Paid advance of the
// employee. The sum is not limited to a payroll month: a Paid advance keeps
// deducting on every recompute until it is removed from the ledger.
func ResolveDeduction(employeeID string, advances []advance.SalaryAdvanceRequest) decimal.Decimal {
	total := decimal.Zero
	for _, a := range advances {
		if a.EmployeeID == employeeID && a.Status == advance.StatusPaid {
			total = total.Add(a.AmountApproved)
		}
	}
	return total
}

// ResolveDeductions is ResolveDeduction for every employee in one pass.
func ResolveDeductions(advances []advance.SalaryAdvanceRequest) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, a := range advances {
		if a.Status != advance.StatusPaid {
			continue
		}
		out[a.EmployeeID] = out[a.EmployeeID].Add(a.AmountApproved)
	}
	return out
}

var notifyRoles = []string{string(user.RoleAdmin), string(user.RoleCorporate)}

// Approve pays out a pending request. The approved amount may be lower than
// the requested amount but never higher.
func Approve(req advance.SalaryAdvanceRequest, approved decimal.Decimal, mode advance.PaymentMode, now time.Time) (advance.SalaryAdvanceRequest, advance.Event, error) {
	if !req.IsPending() {
		return req, advance.Event{}, advance.ErrAdvanceAlreadyProcessed
	}

	var errs validator.ValidationErrors
	if !approved.IsPositive() {
		errs.Add("amount_approved", "must be greater than 0")
	} else if approved.GreaterThan(req.AmountRequested) {
		errs.Add("amount_approved", fmt.Sprintf("must not exceed the requested amount of %s", req.AmountRequested.StringFixed(2)))
	}
	if mode == "" {
		errs.Add("payment_mode", "is required")
	}
	if err := errs.Err(); err != nil {
		return req, advance.Event{}, err
	}

	paidAt := now
	out := req
	out.Status = advance.StatusPaid
	out.AmountApproved = approved
	out.PaymentDate = &paidAt
	out.PaymentMode = mode
	out.UpdatedAt = now

	event := advance.Event{
		Type:        advance.EventAdvanceSettled,
		Title:       "Salary Advance Paid",
		Message:     fmt.Sprintf("Advance of %s for %s was paid via %s", approved.StringFixed(2), req.EmployeeName, mode),
		TargetRoles: notifyRoles,
		CorporateID: req.CorporateID,
		EmployeeID:  req.EmployeeID,
		Link:        "/advances/" + req.ID,
		Amount:      approved,
		Mode:        mode,
	}

	return out, event, nil
}

// Reject closes a pending request. Rejected requests never deduct.
func Reject(req advance.SalaryAdvanceRequest, now time.Time) (advance.SalaryAdvanceRequest, advance.Event, error) {
	if !req.IsPending() {
		return req, advance.Event{}, advance.ErrAdvanceAlreadyProcessed
	}

	out := req
	out.Status = advance.StatusRejected
	out.AmountApproved = decimal.Zero
	out.UpdatedAt = now

	event := advance.Event{
		Type:        advance.EventAdvanceRejected,
		Title:       "Salary Advance Rejected",
		Message:     fmt.Sprintf("Advance request of %s for %s was rejected", req.AmountRequested.StringFixed(2), req.EmployeeName),
		TargetRoles: notifyRoles,
		CorporateID: req.CorporateID,
		EmployeeID:  req.EmployeeID,
		Link:        "/advances/" + req.ID,
		Amount:      req.AmountRequested,
	}

	return out, event, nil
}
