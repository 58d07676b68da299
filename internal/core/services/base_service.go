package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/boutique_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/boutique_treasury/internal/core/ports/services"
	"github.com/SscSPs/boutique_treasury/internal/middleware"
	"github.com/SscSPs/boutique_treasury/internal/utils/reference"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SscSPs/boutique_treasury/internal/core/services"

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.Authorizer
	Cache      portsrepo.ProjectionCache
	Tracer     trace.Tracer
	Clock      func() time.Time
	References func(prefix string, date time.Time) (string, error)
}

// ServiceOption is a functional option shared by every service constructor
type ServiceOption func(*BaseService)

// WithAuthorizer sets the permission check. Without one every gated call is refused.
func WithAuthorizer(authorizer portssvc.Authorizer) ServiceOption {
	return func(s *BaseService) {
		s.Authorizer = authorizer
	}
}

// WithProjectionCache sets the cache invalidated after ledger mutations.
func WithProjectionCache(cache portsrepo.ProjectionCache) ServiceOption {
	return func(s *BaseService) {
		s.Cache = cache
	}
}

// WithTracer overrides the tracer obtained from the global provider.
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *BaseService) {
		s.Tracer = tracer
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// WithReferenceGenerator overrides how cash flow references are drawn.
func WithReferenceGenerator(generate func(prefix string, date time.Time) (string, error)) ServiceOption {
	return func(s *BaseService) {
		s.References = generate
	}
}

func newBaseService(options []ServiceOption) BaseService {
	base := BaseService{}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// NewReference draws a cash flow reference such as EXP-20250131-7QK2Z.
func (s *BaseService) NewReference(prefix string, date time.Time) (string, error) {
	if s.References != nil {
		return s.References(prefix, date)
	}
	return reference.New(prefix, date)
}

// Authorize checks that actor holds permission. It fails closed when no
// authorizer is configured.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, permission domain.Permission) error {
	if s.Authorizer == nil {
		s.GetLogger(ctx).Warn("No authorizer configured, refusing gated action",
			slog.String("user_id", actor.UserID),
			slog.String("permission", string(permission)))
		return apperrors.NewForbiddenError("%s is not allowed", permission)
	}
	if err := s.Authorizer.Authorize(ctx, actor, permission); err != nil {
		s.GetLogger(ctx).Warn("Authorization failed",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("permission", string(permission)))
		return err
	}
	return nil
}

// Can reports whether actor holds permission without logging a refusal.
func (s *BaseService) Can(ctx context.Context, actor domain.Actor, permission domain.Permission) bool {
	return s.Authorizer != nil && s.Authorizer.Authorize(ctx, actor, permission) == nil
}

// StartSpan opens a span tagged with the scope and actor.
func (s *BaseService) StartSpan(ctx context.Context, name string, scope domain.Scope, actor domain.Actor, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	attrs = append(attrs,
		attribute.String("treasury.application_id", scope.ApplicationID),
		attribute.String("treasury.boutique_id", scope.BoutiqueID),
		attribute.String("treasury.actor", actor.UserID),
	)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on the span and ends it.
func (s *BaseService) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// InvalidateProjections drops cached read models of the scope. A cache failure
// only logs; the ledger write has already committed.
func (s *BaseService) InvalidateProjections(ctx context.Context, scope domain.Scope) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, scope); err != nil {
		s.LogError(ctx, err, "Failed to invalidate projection cache", slog.String("scope", scope.String()))
	}
}
