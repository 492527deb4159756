package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nikkolasg/timed/pkg/timed"
)

// Config is the CLI configuration: file, environment, then flags.
type Config struct {
	Output      string        `mapstructure:"output" json:"output" yaml:"output"`
	LogLevel    string        `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat   string        `mapstructure:"log_format" json:"log_format" yaml:"log_format"`
	LogFile     string        `mapstructure:"log_file" json:"log_file,omitempty" yaml:"log_file,omitempty"`
	MetricsAddr string        `mapstructure:"metrics_addr" json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	Tracing     TracingConfig `mapstructure:"tracing" json:"tracing" yaml:"tracing"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
}

// Loader wraps a viper instance so the output can be re-read later.
type Loader struct {
	v   *viper.Viper
	log *zap.Logger

	watchMu sync.Mutex
	stopped bool
}

// Load reads cfgFile, or $HOME/.timed/config.yaml when cfgFile is empty,
// and binds the TIMED_* environment variables. A missing default config
// file is not an error; a missing explicit one is.
func Load(cfgFile string) (*Loader, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".timed"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// output has no default on purpose: unset means off, resolved by timed.
	v.BindEnv("output", timed.EnvVar)
	v.BindEnv("log_level", "TIMED_LOG_LEVEL")
	v.BindEnv("log_format", "TIMED_LOG_FORMAT")
	v.BindEnv("log_file", "TIMED_LOG_FILE")
	v.BindEnv("metrics_addr", "TIMED_METRICS_ADDR")
	v.BindEnv("tracing.enabled", "TIMED_TRACING_ENABLED")
	v.BindEnv("tracing.endpoint", "TIMED_TRACING_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Loader{v: v, log: zap.NewNop()}, nil
}

// SetLogger sets the logger used when reporting config changes.
func (l *Loader) SetLogger(log *zap.Logger) {
	if log != nil {
		l.log = log
	}
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// ConfigFileUsed returns the config file path, or "" when none was read.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Config decodes the current settings.
func (l *Loader) Config() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Output resolves the "output" key the same way TIMED_OUTPUT is resolved.
func (l *Loader) Output() timed.Output {
	return timed.ResolveOutput(l.v.GetString("output"), l.v.IsSet("output"))
}

// Apply sets the resolved output on store.
func (l *Loader) Apply(store *timed.Store) error {
	return store.Set(l.Output())
}

// Watch re-applies the output to store whenever the config file changes.
// It does nothing when no config file was read.
func (l *Loader) Watch(store *timed.Store) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.watchMu.Lock()
		defer l.watchMu.Unlock()
		if l.stopped {
			return
		}
		out := l.Output()
		if err := store.Set(out); err != nil {
			l.log.Warn("failed to apply timing output from config",
				zap.String("file", e.Name), zap.Error(err))
			return
		}
		l.log.Info("timing output changed", zap.String("file", e.Name), zap.Stringer("output", out))
	})
	l.v.WatchConfig()
}

// StopWatch stops applying config changes. A change being applied when
// it is called finishes first. Call it before closing the store.
func (l *Loader) StopWatch() {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	l.stopped = true
}
