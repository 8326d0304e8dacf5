package executor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// execSpan adapts trace.Span's capitalized End to the lowercase call site
// used throughout ExecuteRecipe, and tolerates a nil underlying span so
// callers never need a nil check.
type execSpan struct {
	span trace.Span
}

func (s execSpan) end() {
	if s.span != nil {
		s.span.End()
	}
}

// startSpan is a no-op (but still returns a usable execSpan) when no
// Observer is configured.
func (e *Executor) startSpan(ctx context.Context, name string) (context.Context, execSpan) {
	if e.Observer == nil {
		return ctx, execSpan{}
	}
	ctx, span := e.Observer.StartSpan(ctx, name)
	return ctx, execSpan{span: span}
}

// countDenial increments the denial counter, labeled by the runtime error's
// kind and code, when an Observer is configured.
func (e *Executor) countDenial(rerr *runtimeerr.RuntimeError) {
	if e.Observer == nil || rerr == nil {
		return
	}
	e.Observer.RecordError(context.Background(), rerr,
		attribute.String("arquent.denial.kind", string(rerr.Kind)),
		attribute.String("arquent.denial.code", rerr.Code),
	)
}

// countDecision increments the decision counter for a completed, non-denied
// run when an Observer is configured.
func (e *Executor) countDecision() {
	if e.Observer == nil {
		return
	}
	e.Observer.RecordRequest(context.Background())
}
