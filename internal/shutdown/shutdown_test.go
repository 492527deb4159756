package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestShutdownRunsStepsInReverse(t *testing.T) {
	m := New(time.Second, zaptest.NewLogger(t))

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, m.Shutdown())
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestShutdownCollectsErrors(t *testing.T) {
	m := New(time.Second, nil)
	ran := false
	m.Register("ok", func(context.Context) error { ran = true; return nil })
	m.Register("store", func(context.Context) error { return errors.New("close failed") })
	m.Register("server", func(context.Context) error { return errors.New("busy") })

	err := m.Shutdown()
	require.Error(t, err)
	assert.True(t, ran)
	assert.Contains(t, err.Error(), "store: close failed")
	assert.Contains(t, err.Error(), "server: busy")
}

func TestShutdownOnce(t *testing.T) {
	m := New(time.Second, nil)
	calls := 0
	m.Register("count", func(context.Context) error { calls++; return nil })

	require.NoError(t, m.Shutdown())
	require.NoError(t, m.Shutdown())
	assert.Equal(t, 1, calls)
}

func TestShutdownStepSeesDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("wait", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	})

	err := m.Shutdown()
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type closer struct{ closed bool }

func (c *closer) Close() error { c.closed = true; return nil }

func TestCloseResource(t *testing.T) {
	c := &closer{}
	require.NoError(t, CloseResource(c)(context.Background()))
	assert.True(t, c.closed)
}
