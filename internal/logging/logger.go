package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the CLI logger is built.
type Options struct {
	Level  string // TRACE, DEBUG, INFO, WARN, ERROR
	Format string // json or console
	File   string // optional log file, relative names go under the log dir
}

// New builds a zap logger writing to stderr and, when opts.File is set,
// to that file as well. A file that cannot be opened is reported as an
// error rather than silently dropped.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(opts.Level)),
		Encoding:         "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
	}
	if strings.EqualFold(opts.Format, "json") {
		cfg.Encoding = "json"
		cfg.EncoderConfig = zap.NewProductionEncoderConfig()
	}

	if opts.File != "" {
		path, err := ResolveLogPath(opts.File)
		if err != nil {
			return nil, err
		}
		cfg.OutputPaths = append(cfg.OutputPaths, path)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ParseLevel parses a log level string. TRACE maps to debug, zap has no
// lower level. Unknown values default to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ResolveLogPath returns where a log file named name should live.
// Absolute paths are used as given; relative names go under
// /var/log/timed, or ./logs when that is not writable.
func ResolveLogPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory %s: %w", filepath.Dir(name), err)
		}
		return name, nil
	}

	baseDir := "/var/log/timed"
	if !isWritable(baseDir) {
		baseDir = "./logs"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", baseDir, err)
	}
	return filepath.Join(baseDir, name), nil
}

// isWritable checks if directory is writable
func isWritable(path string) bool {
	if err := os.MkdirAll(path, 0755); err != nil {
		return false
	}

	testFile := filepath.Join(path, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(testFile)
	return true
}
