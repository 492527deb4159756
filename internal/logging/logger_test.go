package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"TRACE", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"WARNING", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timed.log")

	log, err := New(Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	log.Debug("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"hello from test"`), string(data))
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timed.log")

	log, err := New(Options{Level: "warn", Format: "json", File: path})
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestResolveLogPathAbsolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.log")
	got, err := ResolveLogPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.DirExists(t, filepath.Dir(path))
}
