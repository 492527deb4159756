package timed

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Do runs fn inside a span named function and reports its duration on
// every exit path, panics included. fn's error is returned untouched;
// report failures go to the reporter's error handler.
func (r *Reporter) Do(ctx context.Context, function string, level Level, fn func(context.Context) error) error {
	ctx, span := r.startSpan(ctx, function, level)
	defer span.End()

	t := r.Start()
	defer func() { r.handle(r.Finish(t, function, level)) }()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Wrap returns fn instrumented under function at level.
func (r *Reporter) Wrap(function string, level Level, fn func()) func() {
	return func() {
		_ = r.Do(context.Background(), function, level, func(context.Context) error {
			fn()
			return nil
		})
	}
}

// Call is Do for bodies that return a value.
func Call[T any](ctx context.Context, r *Reporter, function string, level Level, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, function, level, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func (r *Reporter) startSpan(ctx context.Context, function string, level Level) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return r.tracer.Start(ctx, function,
		trace.WithAttributes(
			attribute.String("timed.function", function),
			attribute.String("timed.level", level.String()),
		))
}
