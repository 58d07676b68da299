package cache

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
)

// NoopProjectionCache always misses. Used when no redis is configured.
type NoopProjectionCache struct{}

var _ portsrepo.ProjectionCache = NoopProjectionCache{}

func (NoopProjectionCache) GetDashboard(context.Context, domain.Scope) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (NoopProjectionCache) SetDashboard(context.Context, domain.Scope, domain.Dashboard) error {
	return nil
}

func (NoopProjectionCache) Invalidate(context.Context, domain.Scope) error {
	return nil
}
