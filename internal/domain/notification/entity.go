package notification

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAdvanceRequested    NotificationType = "advance_requested"
	TypeAdvanceSettled      NotificationType = "advance_settled"
	TypeAdvanceRejected     NotificationType = "advance_rejected"
	TypePayrollSaved        NotificationType = "payroll_saved"
	TypeDriverPaymentLogged NotificationType = "driver_payment_logged"
	TypeSettlementReminder  NotificationType = "settlement_reminder"
)

// Notification is addressed to roles within a tenant and optionally to one
// employee of that tenant.
type Notification struct {
	ID          string
	CorporateID string
	EmployeeID  *string
	TargetRoles []string
	Type        NotificationType
	Title       string
	Message     string
	Link        string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// Recipient identifies the reader when listing or marking notifications.
type Recipient struct {
	CorporateID string
	UserID      string
	EmployeeID  string
	Role        string
}

// RecipientFrom builds the recipient of a tenant context.
func RecipientFrom(tc tenant.Context) Recipient {
	return Recipient{
		CorporateID: tc.CorporateID,
		UserID:      tc.UserID,
		EmployeeID:  tc.EmployeeID,
		Role:        string(tc.Role),
	}
}

// VisibleTo reports whether the recipient should see n.
func (n *Notification) VisibleTo(r Recipient) bool {
	if n.CorporateID != r.CorporateID {
		return false
	}
	if n.EmployeeID != nil && *n.EmployeeID == r.EmployeeID && r.EmployeeID != "" {
		return true
	}
	for _, role := range n.TargetRoles {
		if role == r.Role {
			return true
		}
	}
	return false
}
