package timed

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "function,duration_ms\n"

func envLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStoreDefaultsToOff(t *testing.T) {
	s := NewStore(WithEnvLookup(envLookup(nil)))
	assert.Equal(t, Off(), s.Get())
	assert.NoError(t, s.InitErr())
}

func TestStoreLazyInitFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.csv")
	calls := 0
	s := NewStore(WithEnvLookup(func(key string) (string, bool) {
		calls++
		return path, key == EnvVar
	}))
	assert.Zero(t, calls, "environment must not be read before first use")

	assert.Equal(t, CSV(path), s.Get())
	assert.Equal(t, CSV(path), s.Get())
	assert.Equal(t, 1, calls)
	assert.Equal(t, header, readFile(t, path))
	require.NoError(t, s.Close())
}

func TestStoreExplicitSetWinsOverEnv(t *testing.T) {
	s := NewStore(WithEnvLookup(envLookup(map[string]string{EnvVar: "tracing"})))
	require.NoError(t, s.Set(Off()))
	assert.Equal(t, Off(), s.Get())
}

func TestStoreEnvInitFailureFallsBackToOff(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "dir", "x.csv")
	s := NewStore(WithEnvLookup(envLookup(map[string]string{EnvVar: bad})))

	assert.Equal(t, Off(), s.Get())
	err := s.InitErr()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestStoreSetCSVWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	s := NewStore(WithEnvLookup(envLookup(nil)))
	defer s.Close()

	require.NoError(t, s.Set(CSV(path)))
	assert.Equal(t, CSV(path), s.Get())
	assert.Equal(t, header, readFile(t, path))
}

func TestStoreSetSamePathTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	s := NewStore(WithEnvLookup(envLookup(nil)))
	defer s.Close()
	r := NewReporter(s)

	require.NoError(t, s.Set(CSV(path)))
	require.NoError(t, r.Record("f", LevelInfo, 0))
	require.NoError(t, r.Record("g", LevelInfo, 0))
	assert.NotEqual(t, header, readFile(t, path))

	require.NoError(t, s.Set(CSV(path)))
	assert.Equal(t, header, readFile(t, path))
}

func TestStoreSetCSVFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "missing", "bad.csv")

	s := NewStore(WithEnvLookup(envLookup(nil)))
	defer s.Close()
	require.NoError(t, s.Set(CSV(good)))

	err := s.Set(CSV(bad))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, CSV(bad), cfgErr.Output)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, Off(), s.Get())
	assert.NoFileExists(t, bad)
}

func TestStoreRefreshFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refresh.csv")
	env := map[string]string{}
	var mu sync.Mutex
	s := NewStore(WithEnvLookup(func(key string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		v, ok := env[key]
		return v, ok
	}))
	defer s.Close()

	assert.Equal(t, Off(), s.Get())

	mu.Lock()
	env[EnvVar] = path
	mu.Unlock()
	require.NoError(t, s.RefreshFromEnv())
	assert.Equal(t, CSV(path), s.Get())
	assert.Equal(t, header, readFile(t, path))

	mu.Lock()
	env[EnvVar] = "tracing"
	mu.Unlock()
	require.NoError(t, s.RefreshFromEnv())
	assert.Equal(t, Log(), s.Get())
}

func TestStoreSwitchClosesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	s := NewStore(WithEnvLookup(envLookup(nil)))

	require.NoError(t, s.Set(CSV(path)))
	sink := s.csv
	require.NotNil(t, sink)

	require.NoError(t, s.Set(Log()))
	assert.Nil(t, s.csv)
	assert.True(t, sink.closed)

	require.NoError(t, s.Close())
	assert.Equal(t, Off(), s.Get())
}

type recordingObserver struct {
	mu       sync.Mutex
	changes  []Output
	failures int
	reports  map[OutputKind]int
	errors   int
}

func (o *recordingObserver) ReportDispatched(kind OutputKind, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.reports == nil {
		o.reports = map[OutputKind]int{}
	}
	o.reports[kind]++
	if err != nil {
		o.errors++
	}
}

func (o *recordingObserver) OutputChanged(out Output, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failures++
		return
	}
	o.changes = append(o.changes, out)
}

func TestStoreObserver(t *testing.T) {
	dir := t.TempDir()
	obs := &recordingObserver{}
	s := NewStore(WithEnvLookup(envLookup(nil)), WithStoreObserver(obs))
	defer s.Close()

	require.NoError(t, s.Set(Log()))
	require.NoError(t, s.Set(CSV(filepath.Join(dir, "a.csv"))))
	require.Error(t, s.Set(CSV(filepath.Join(dir, "nope", "b.csv"))))

	// Set before first use skips environment initialization entirely.
	assert.Equal(t, []Output{Log(), CSV(filepath.Join(dir, "a.csv"))}, obs.changes)
	assert.Equal(t, 1, obs.failures)
}
