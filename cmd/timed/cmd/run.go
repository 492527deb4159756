package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nikkolasg/timed/internal/report"
	"github.com/nikkolasg/timed/internal/shutdown"
	"github.com/nikkolasg/timed/internal/tracing"
	"github.com/nikkolasg/timed/pkg/timed"
	"github.com/nikkolasg/timed/pkg/timed/logadapter"
)

var (
	runIterations   int
	runWorkers      int
	runSleep        time.Duration
	runMetricsAddr  string
	runPrintMetrics bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the instrumented sample workload",
	Long: `Runs two instrumented sample functions, one at info level and one at
debug level, and reports every call to the active output. With a CSV output
the file is truncated first and receives one row per call.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 1, "calls per sample function per worker")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 1, "concurrent workers")
	runCmd.Flags().DurationVar(&runSleep, "sleep", 100*time.Millisecond, "body duration of the info-level sample (debug-level runs half)")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "serve /metrics and /output on this address while running")
	runCmd.Flags().BoolVar(&runPrintMetrics, "print-metrics", false, "print reporter counters when done")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runIterations < 1 || runWorkers < 1 {
		return fmt.Errorf("--iterations and --workers must be at least 1")
	}

	sm := shutdown.New(5*time.Second, logger)
	defer func() {
		if err := sm.Shutdown(); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	metrics := report.Global()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	store := timed.NewStore(
		timed.WithStoreLogger(logger),
		timed.WithStoreObserver(metrics),
	)
	sm.Register("timing output", shutdown.CloseResource(store))

	// A bad CSV path is a configuration error and stops the run.
	if err := loader.Apply(store); err != nil {
		return err
	}
	loader.Watch(store)
	sm.Register("config watch", func(context.Context) error {
		loader.StopWatch()
		return nil
	})

	provider, err := tracing.InitTracer(tracing.Config{
		ServiceName:  "timed",
		Environment:  "cli",
		OTLPEndpoint: cfg.Tracing.Endpoint,
		Enabled:      cfg.Tracing.Enabled,
	}, logger)
	if err != nil {
		return err
	}
	sm.Register("tracing", provider.Shutdown)

	runID := uuid.New().String()
	log := logger.With(zap.String("run_id", runID))

	reporter := timed.NewReporter(store,
		timed.WithLogger(logadapter.Zap(log)),
		timed.WithTracerProvider(provider.TracerProvider()),
		timed.WithObserver(metrics),
		timed.WithErrorHandler(func(err error) {
			log.Warn("timing report failed", zap.Error(err))
		}),
	)

	addr := runMetricsAddr
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr != "" {
		srv := &http.Server{
			Addr:         addr,
			Handler:      report.Handler(reg, store),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		sm.Register("metrics server", shutdown.StopHTTPServer(srv))
		log.Info("serving reporter metrics", zap.String("addr", addr))
	}

	log.Info("starting sample workload",
		zap.Stringer("output", store.Get()),
		zap.Int("workers", runWorkers),
		zap.Int("iterations", runIterations))

	sigCtx, stop := shutdown.SignalContext(cmd.Context())
	defer stop()

	g, ctx := errgroup.WithContext(sigCtx)
	for w := 0; w < runWorkers; w++ {
		g.Go(func() error {
			for i := 0; i < runIterations; i++ {
				if err := sampleDefaultLevel(ctx, reporter, runSleep); err != nil {
					return err
				}
				if err := sampleDebugLevel(ctx, reporter, runSleep); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sample workload failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Output: %s\n", store.Get())
	fmt.Fprintf(out, "Calls:  %d\n", 2*runWorkers*runIterations)
	fmt.Fprintf(out, "Run ID: %s\n", runID)

	if runPrintMetrics {
		text, err := report.Export(reg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, text)
	}
	return nil
}
