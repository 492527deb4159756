package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikkolasg/timed/internal/config"
	"github.com/nikkolasg/timed/internal/logging"
)

var (
	cfgFile    string
	outputFlag string
	logLevel   string
	logFormat  string

	loader *config.Loader
	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "timed",
	Short: "Function timing with switchable sinks",
	Long: `timed runs instrumented sample workloads and inspects their output.
The active sink is chosen with --output, the "output" config key or the
TIMED_OUTPUT environment variable: off, tracing (log lines) or a CSV path.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.timed/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "", "timing output: off, tracing, or a CSV file path (overrides TIMED_OUTPUT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// initConfig reads in config file and ENV variables, then builds the logger
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	loader, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	v := loader.Viper()
	flags := cmd.Root().PersistentFlags()
	v.BindPFlag("output", flags.Lookup("output"))
	v.BindPFlag("log_level", flags.Lookup("log-level"))
	v.BindPFlag("log_format", flags.Lookup("log-format"))

	cfg, err = loader.Config()
	if err != nil {
		return err
	}

	logger, err = logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	zap.ReplaceGlobals(logger)
	loader.SetLogger(logger)

	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", zap.String("file", used))
	}
	return nil
}
