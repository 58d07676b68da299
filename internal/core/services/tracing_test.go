package services_test

import (
	"testing"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/SscSPs/boutique_treasury/internal/core/services"
	"github.com/SscSPs/boutique_treasury/internal/dto"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type TracingTestSuite struct {
	ledgerSuite
	recorder *tracetest.SpanRecorder
}

func TestTracingTestSuite(t *testing.T) {
	suite.Run(t, new(TracingTestSuite))
}

func (s *TracingTestSuite) SetupTest() {
	s.recorder = tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.recorder))
	s.setupLedger(services.WithTracer(provider.Tracer("treasury-test")))
}

func (s *TracingTestSuite) span(name string) sdktrace.ReadOnlySpan {
	var found sdktrace.ReadOnlySpan
	for _, span := range s.recorder.Ended() {
		if span.Name() == name {
			found = span
		}
	}
	s.Require().NotNil(found, "span %s not recorded", name)
	return found
}

func (s *TracingTestSuite) TestApprove_RecordsScopedSpan() {
	cf := s.approved(domain.CashFlowTypeIncome, 10)

	span := s.span("cashflow.approve")
	s.Equal(codes.Ok, span.Status().Code)
	s.Contains(span.Attributes(), attribute.String("treasury.boutique_id", testScope.BoutiqueID))
	s.Contains(span.Attributes(), attribute.String("treasury.cash_flow_id", cf.CashFlowID))
	s.Contains(span.Attributes(), attribute.String("treasury.actor", manager.UserID))
}

func (s *TracingTestSuite) TestFailedReject_RecordsError() {
	cf := s.draft(staff, domain.CashFlowTypeIncome, 10)
	_, err := s.svc.CashFlow.RejectCashFlow(s.ctx, testScope, manager, cf.CashFlowID, "")
	s.Require().Error(err)

	span := s.span("cashflow.reject")
	s.Equal(codes.Error, span.Status().Code)
	s.NotEmpty(span.Events(), "the error is recorded as a span event")
}

func (s *TracingTestSuite) TestUpdate_RecordsSpan() {
	cf := s.draft(staff, domain.CashFlowTypeExpense, 10)
	label := "paper"
	_, err := s.svc.CashFlow.UpdateCashFlow(s.ctx, testScope, staff, cf.CashFlowID, dto.UpdateCashFlowRequest{Label: &label})
	s.Require().NoError(err)

	span := s.span("cashflow.update")
	s.Equal(codes.Ok, span.Status().Code)
	s.Contains(span.Attributes(), attribute.String("treasury.cash_flow_id", cf.CashFlowID))
}
