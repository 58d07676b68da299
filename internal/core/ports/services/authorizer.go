package services

import (
	"context"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
)

// Authorizer decides whether an actor holds a permission. Implementations
// return an error wrapping apperrors.ErrForbidden when it does not.
type Authorizer interface {
	Authorize(ctx context.Context, actor domain.Actor, permission domain.Permission) error
}
