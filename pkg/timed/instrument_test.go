package timed

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDoReturnsBodyError(t *testing.T) {
	r, logs := newTestReporter(t)
	require.NoError(t, r.Store().Set(Log()))

	bodyErr := errors.New("body failed")
	err := r.Do(context.Background(), "fails", LevelWarn, func(context.Context) error {
		return bodyErr
	})

	assert.Same(t, bodyErr, err)
	require.Equal(t, 1, logs.count())
	assert.Equal(t, LevelWarn, logs.lines[0].level)
	assert.Contains(t, logs.lines[0].msg, "fails took ")
}

func TestDoReportErrorDoesNotMaskBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	var handled []error
	r, _ := newTestReporter(t, WithErrorHandler(func(err error) { handled = append(handled, err) }))
	require.NoError(t, r.Store().Set(CSV(path)))
	require.NoError(t, r.Store().csv.file.Close())

	err := r.Do(context.Background(), "ok", LevelInfo, func(context.Context) error { return nil })
	assert.NoError(t, err)
	require.Len(t, handled, 1)
	assert.True(t, errors.Is(handled[0], ErrReport))
}

func TestDoReportsOnPanic(t *testing.T) {
	r, logs := newTestReporter(t)
	require.NoError(t, r.Store().Set(Log()))

	assert.PanicsWithValue(t, "boom", func() {
		_ = r.Do(context.Background(), "panics", LevelInfo, func(context.Context) error {
			panic("boom")
		})
	})
	require.Equal(t, 1, logs.count())
	assert.Contains(t, logs.lines[0].msg, "panics took ")
}

func TestCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	r, _ := newTestReporter(t)
	require.NoError(t, r.Store().Set(CSV(path)))

	got, err := Call(context.Background(), r, "answer", LevelInfo, func(context.Context) (int, error) {
		time.Sleep(2 * time.Millisecond)
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	lines := readFile(t, path)
	assert.Contains(t, lines, "answer,")
}

func TestWrap(t *testing.T) {
	r, logs := newTestReporter(t)
	require.NoError(t, r.Store().Set(Log()))

	calls := 0
	fn := r.Wrap("wrapped", LevelDebug, func() { calls++ })
	fn()
	fn()

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, logs.count())
}

func TestDoOpensSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	r, _ := newTestReporter(t, WithTracerProvider(tp))

	var inner context.Context
	err := r.Do(context.Background(), "traced", LevelDebug, func(ctx context.Context) error {
		inner = ctx
		return errors.New("nope")
	})
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "traced", spans[0].Name())
	assert.NotEmpty(t, spans[0].Events(), "body error should be recorded on the span")
	assert.NotNil(t, inner)
}
