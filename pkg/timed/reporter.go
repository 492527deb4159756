package timed

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/nikkolasg/timed"

// Reporter is the per-call entry point: Start before the body, Finish
// after it. It holds no per-call state; everything shared lives in the Store.
type Reporter struct {
	store    *Store
	logger   Logger
	onError  func(error)
	tracer   trace.Tracer
	observer Observer
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithLogger sets the collaborator the log sink forwards into.
func WithLogger(l Logger) ReporterOption {
	return func(r *Reporter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithErrorHandler sets what the wrappers do with report errors.
// The default logs them as warnings on the global zap logger.
func WithErrorHandler(fn func(error)) ReporterOption {
	return func(r *Reporter) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// WithTracerProvider sets the provider the wrappers open spans on.
func WithTracerProvider(tp trace.TracerProvider) ReporterOption {
	return func(r *Reporter) {
		if tp != nil {
			r.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithObserver receives a callback for every dispatched sample.
func WithObserver(o Observer) ReporterOption {
	return func(r *Reporter) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewReporter creates a reporter reading its output from store.
func NewReporter(store *Store, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		store:    store,
		logger:   zapLogger{},
		observer: nopObserver{},
		onError: func(err error) {
			zap.L().Warn("timing report failed", zap.Error(err))
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return r
}

// Store returns the store the reporter reads from.
func (r *Reporter) Store() *Store {
	return r.store
}

// Start captures the start instant of one call.
func (r *Reporter) Start() Timer {
	return StartTimer()
}

// Finish measures the time since t and reports it to the active sink.
// It returns an error only when the CSV sink failed to write; the timed
// function's own result is never affected.
func (r *Reporter) Finish(t Timer, function string, level Level) error {
	return r.Record(function, level, t.Elapsed())
}

// Record reports an already measured duration to the active sink.
func (r *Reporter) Record(function string, level Level, elapsed time.Duration) error {
	if elapsed < 0 {
		elapsed = 0
	}
	sample := Sample{Function: function, Elapsed: elapsed, Level: level}

	// Nothing below runs under the store lock, so a logger or observer
	// may call back into the store.
	o, sink := r.store.snapshot()
	switch o.Kind() {
	case KindLog:
		r.logger.Log(sample.Level, FormatMessage(sample))
		r.observer.ReportDispatched(KindLog, nil)
		return nil
	case KindCSV:
		var err error
		if sink == nil {
			err = &ReportError{Function: function, Path: o.Path(), Err: ErrClosed}
		} else {
			err = sink.append(sample)
			sink.release()
		}
		r.observer.ReportDispatched(KindCSV, err)
		return err
	default:
		return nil
	}
}

func (r *Reporter) handle(err error) {
	if err != nil {
		r.onError(err)
	}
}
