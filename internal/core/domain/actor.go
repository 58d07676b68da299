package domain

import (
	"strings"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
)

// Role is the closed set of treasury roles an actor can hold in a boutique.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// ParseRole maps a claim value onto a Role. Unknown values are rejected.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleManager, RoleStaff:
		return r, nil
	default:
		return "", apperrors.NewForbiddenError("unknown role %q", raw)
	}
}

// Permission names an action gated by role.
type Permission string

const (
	PermissionViewLedger          Permission = "VIEW_LEDGER"
	PermissionRecordCashFlow      Permission = "RECORD_CASH_FLOW"
	PermissionRecordSystemFlow    Permission = "RECORD_SYSTEM_CASH_FLOW"
	PermissionApproveCashFlow     Permission = "APPROVE_CASH_FLOW"
	PermissionRejectCashFlow      Permission = "REJECT_CASH_FLOW"
	PermissionReconcileCashFlow   Permission = "RECONCILE_CASH_FLOW"
	PermissionReverseCashFlow     Permission = "REVERSE_CASH_FLOW"
	PermissionViewAllCashFlows    Permission = "VIEW_ALL_CASH_FLOWS"
	PermissionManageAccounts      Permission = "MANAGE_ACCOUNTS"
	PermissionManageCategories    Permission = "MANAGE_CATEGORIES"
	PermissionManageBudgets       Permission = "MANAGE_BUDGETS"
	PermissionManageRecurringFlow Permission = "MANAGE_RECURRING_CASH_FLOWS"
	PermissionViewReports         Permission = "VIEW_REPORTS"
)

// Actor is the authenticated caller of a command.
type Actor struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
}
