package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/attendance"
	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/settlement"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/okboz/okboz-backend-go/internal/pkg/jwt"
	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Tenant and role errors
	case errors.Is(err, tenant.ErrTenantRequired), errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, tenant.ErrCrossTenantAccess),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCorporateIDRequired), errors.Is(err, user.ErrEmployeeIDRequired):
		BadRequest(w, err.Error(), nil)

	// Employee and attendance
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, payroll.ErrInvalidEntryStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrDraftNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrHistoryNotFound):
		NotFound(w, "Payroll history not found")
	case errors.Is(err, payroll.ErrDraftEmpty):
		Conflict(w, err.Error())

	// Salary advance errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Salary advance request not found")
	case errors.Is(err, advance.ErrAdvanceAlreadyProcessed):
		Conflict(w, "Salary advance request already processed")
	case errors.Is(err, advance.ErrAdvanceNotOwned):
		Forbidden(w, err.Error())

	// Driver payment errors
	case errors.Is(err, driverpayment.ErrPaymentNotFound):
		NotFound(w, "Driver payment not found")
	case errors.Is(err, driverpayment.ErrUnknownPaymentType), errors.Is(err, driverpayment.ErrUnknownDiscountType):
		BadRequest(w, err.Error(), nil)

	// Partner settlement errors
	case errors.Is(err, settlement.ErrRecordNotFound):
		NotFound(w, "Settlement record not found")
	case errors.Is(err, settlement.ErrTransactionNotFound):
		NotFound(w, "Settlement transaction not found")
	case errors.Is(err, settlement.ErrPartnerNotFound):
		NotFound(w, "Partner not found")
	case errors.Is(err, settlement.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, settlement.ErrLossNotSettleable), errors.Is(err, settlement.ErrNothingToSettle):
		Conflict(w, err.Error())

	// Notification errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrNoAudience):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
