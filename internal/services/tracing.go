package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
)

const tracerName = "github.com/Lllllllleong/lawsuitflow/internal/services"

func startSpan(ctx context.Context, name, contractID, companyID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(
		attribute.String("lawsuit.contract_id", contractID),
		attribute.String("lawsuit.company_id", companyID),
	))
}

// endSpan records err on span. Precondition failures leave the span status unset.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if code := apperr.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("lawsuit.error_code", string(code)))
		}
		if !apperr.IsPrecondition(err) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
