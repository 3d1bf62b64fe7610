package user

type Permission string

const (
	// Payroll
	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"

	// Salary advances
	PermissionAdvanceViewOwn Permission = "advance.view_own"
	PermissionAdvanceCreate  Permission = "advance.create"
	PermissionAdvanceViewAll Permission = "advance.view_all"
	PermissionAdvanceApprove Permission = "advance.approve"

	// Driver payments
	PermissionDriverPaymentView   Permission = "driver_payment.view"
	PermissionDriverPaymentManage Permission = "driver_payment.manage"

	// Partner settlements
	PermissionSettlementView   Permission = "settlement.view"
	PermissionSettlementManage Permission = "settlement.manage"

	// Notifications
	PermissionNotificationView Permission = "notification.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAdvanceViewOwn,
		PermissionAdvanceCreate,
		PermissionAdvanceViewAll,
		PermissionAdvanceApprove,
		PermissionDriverPaymentView,
		PermissionDriverPaymentManage,
		PermissionSettlementView,
		PermissionSettlementManage,
		PermissionNotificationView,
	},
	RoleCorporate: {
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionAdvanceViewOwn,
		PermissionAdvanceCreate,
		PermissionAdvanceViewAll,
		PermissionAdvanceApprove,
		PermissionDriverPaymentView,
		PermissionDriverPaymentManage,
		PermissionSettlementView,
		PermissionSettlementManage,
		PermissionNotificationView,
	},
	RoleManager: {
		// Managers review but do not pay out
		PermissionPayrollView,
		PermissionAdvanceViewOwn,
		PermissionAdvanceCreate,
		PermissionAdvanceViewAll,
		PermissionDriverPaymentView,
		PermissionDriverPaymentManage,
		PermissionNotificationView,
	},
	RoleEmployee: {
		PermissionAdvanceViewOwn,
		PermissionAdvanceCreate,
		PermissionNotificationView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
