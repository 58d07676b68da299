package repositories

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// ProjectionCache stores derived read models. A miss is (nil, false, nil).
type ProjectionCache interface {
	GetDashboard(ctx context.Context, scope domain.Scope) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, scope domain.Scope, dashboard domain.Dashboard) error
	// Invalidate drops every projection of the scope.
	Invalidate(ctx context.Context, scope domain.Scope) error
}
