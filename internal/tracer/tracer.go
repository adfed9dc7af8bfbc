// Package tracer opens a span around every statement the runner sends to the
// database and annotates it with OpenTelemetry database attributes.
package tracer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is the part of a trace span the runner writes to.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	RecordError(err error)
	SetStatus(code codes.Code, description string)
	End()
}

// Noop starts spans that record nothing.
type Noop struct{}

// Start returns ctx unchanged.
func (Noop) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttributes(...attribute.KeyValue) {}
func (noopSpan) RecordError(error)                   {}
func (noopSpan) SetStatus(codes.Code, string)        {}
func (noopSpan) End()                                {}

// Otel starts OpenTelemetry spans.
type Otel struct {
	tracer trace.Tracer
}

// NewOtel wraps t.
func NewOtel(t trace.Tracer) *Otel {
	return &Otel{tracer: t}
}

// Start starts a client span.
func (o *Otel) Start(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetAttributes(attrs ...attribute.KeyValue) { s.span.SetAttributes(attrs...) }
func (s otelSpan) RecordError(err error)                     { s.span.RecordError(err) }
func (s otelSpan) SetStatus(code codes.Code, desc string)    { s.span.SetStatus(code, desc) }
func (s otelSpan) End()                                      { s.span.End() }

// Statement describes one executed statement.
type Statement struct {
	SQL          string
	Dialect      string
	Params       int
	Duration     time.Duration
	RowsAffected int64
	Err          error
}

// Annotate sets database attributes and the status on span.
// See https://opentelemetry.io/docs/specs/semconv/database/.
func Annotate(span Span, st Statement) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", st.Dialect),
		attribute.String("db.statement", st.SQL),
		attribute.String("db.operation", Operation(st.SQL)),
		attribute.Int("db.params.count", st.Params),
		attribute.Float64("db.duration_ms", float64(st.Duration.Microseconds())/1000),
	}
	if st.RowsAffected > 0 {
		attrs = append(attrs, attribute.Int64("db.rows_affected", st.RowsAffected))
	}
	span.SetAttributes(attrs...)

	if st.Err != nil {
		span.RecordError(st.Err)
		span.SetStatus(codes.Error, st.Err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

var operations = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "TRUNCATE", "EXPLAIN"}

// Operation returns the leading keyword of sql. A CTE or a parenthesized
// set operation counts as SELECT; anything else unknown is "UNKNOWN".
func Operation(sql string) string {
	sql = strings.ToUpper(strings.TrimLeft(sql, " \t\r\n("))
	if strings.HasPrefix(sql, "WITH") {
		return "SELECT"
	}
	for _, op := range operations {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "UNKNOWN"
}
