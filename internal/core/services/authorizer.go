package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
)

var (
	allPermissions = []domain.Permission{
		domain.PermissionViewLedger,
		domain.PermissionRecordCashFlow,
		domain.PermissionRecordSystemFlow,
		domain.PermissionApproveCashFlow,
		domain.PermissionRejectCashFlow,
		domain.PermissionReconcileCashFlow,
		domain.PermissionReverseCashFlow,
		domain.PermissionViewAllCashFlows,
		domain.PermissionManageAccounts,
		domain.PermissionManageCategories,
		domain.PermissionManageBudgets,
		domain.PermissionManageRecurringFlow,
		domain.PermissionViewReports,
	}
	staffPermissions = []domain.Permission{
		domain.PermissionViewLedger,
		domain.PermissionRecordCashFlow,
		domain.PermissionRecordSystemFlow,
	}
)

// roleAuthorizer grants permissions from a static role table.
type roleAuthorizer struct {
	policy map[domain.Role]map[domain.Permission]struct{}
}

// NewRoleAuthorizer returns the default policy: ADMIN and MANAGER hold every
// permission, STAFF may only read the ledger and record entries.
func NewRoleAuthorizer() portssvc.Authorizer {
	return NewRoleAuthorizerWithPolicy(map[domain.Role][]domain.Permission{
		domain.RoleAdmin:   allPermissions,
		domain.RoleManager: allPermissions,
		domain.RoleStaff:   staffPermissions,
	})
}

// NewRoleAuthorizerWithPolicy builds an authorizer from an explicit table.
// Roles absent from the table hold nothing.
func NewRoleAuthorizerWithPolicy(policy map[domain.Role][]domain.Permission) portssvc.Authorizer {
	a := &roleAuthorizer{policy: make(map[domain.Role]map[domain.Permission]struct{}, len(policy))}
	for role, perms := range policy {
		set := make(map[domain.Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		a.policy[role] = set
	}
	return a
}

var _ portssvc.Authorizer = (*roleAuthorizer)(nil)

func (a *roleAuthorizer) Authorize(_ context.Context, actor domain.Actor, permission domain.Permission) error {
	if actor.UserID == "" {
		return apperrors.NewForbiddenError("anonymous actor")
	}
	if _, ok := a.policy[actor.Role][permission]; !ok {
		return apperrors.NewForbiddenError("role %q lacks %s", actor.Role, permission)
	}
	return nil
}
