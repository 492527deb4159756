package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nikkolasg/timed/pkg/timed"
)

func TestDisabledProvider(t *testing.T) {
	p, err := InitTracer(Config{ServiceName: "timed-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, p.TracerProvider())

	store := timed.NewStore(timed.WithEnvLookup(func(string) (string, bool) { return "", false }))
	defer store.Close()
	r := timed.NewReporter(store, timed.WithTracerProvider(p.TracerProvider()))

	called := false
	err = r.Do(context.Background(), "noop", timed.LevelInfo, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestShutdownZeroProvider(t *testing.T) {
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}
