package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

type step struct {
	name string
	fn   func(context.Context) error
}

// Manager runs cleanup steps when a command finishes.
// Steps run in reverse registration order (LIFO).
type Manager struct {
	mu      sync.Mutex
	steps   []step
	timeout time.Duration
	log     *zap.Logger
	done    bool
}

// New creates a shutdown manager. A nil logger discards output.
func New(timeout time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{timeout: timeout, log: log}
}

// Register adds a named shutdown step
func (m *Manager) Register(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, fn: fn})
}

// Shutdown runs every registered step once, newest first, sharing one
// timeout. All step errors are returned together.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.done = true

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var result *multierror.Error
	for i := len(m.steps) - 1; i >= 0; i-- {
		s := m.steps[i]
		if err := s.fn(ctx); err != nil {
			m.log.Warn("shutdown step failed", zap.String("step", s.name), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		m.log.Debug("shutdown step done", zap.String("step", s.name))
	}
	return result.ErrorOrNil()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// StopHTTPServer creates a shutdown step for an http.Server
func StopHTTPServer(server interface{ Shutdown(context.Context) error }) func(context.Context) error {
	return func(ctx context.Context) error {
		return server.Shutdown(ctx)
	}
}

// CloseResource creates a shutdown step for an io.Closer
func CloseResource(closer interface{ Close() error }) func(context.Context) error {
	return func(context.Context) error {
		return closer.Close()
	}
}
