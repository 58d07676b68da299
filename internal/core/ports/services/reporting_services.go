package services

import (
	"context"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// ReportingService defines the read-only treasury projections
type ReportingService interface {
	// GetDashboard returns balances, current-month totals, alerts and a six-month evolution.
	GetDashboard(ctx context.Context, scope domain.Scope, actor domain.Actor) (*domain.Dashboard, error)

	// GetForecast projects the balance day by day from today.
	GetForecast(ctx context.Context, scope domain.Scope, actor domain.Actor, days int, includePending bool, accountID string) (*domain.Forecast, error)

	// GetStatement summarizes [from, to] (both days inclusive), optionally against the prior period.
	GetStatement(ctx context.Context, scope domain.Scope, actor domain.Actor, from, to time.Time, accountID string, compare bool) (*domain.Statement, error)
}
