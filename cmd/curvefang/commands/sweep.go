package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/checkpoint"
	"github.com/Sumatoshi-tech/curvefang/pkg/config"
	"github.com/Sumatoshi-tech/curvefang/pkg/export"
	"github.com/Sumatoshi-tech/curvefang/pkg/observability"
	"github.com/Sumatoshi-tech/curvefang/pkg/sweep"
)

// progressLogEvery throttles sweep progress logging to every N cells.
const progressLogEvery = 25

// metricsReadTimeout bounds request reads on the optional metrics listener.
const metricsReadTimeout = 5 * time.Second

// SweepCommand holds configuration for the grid sweep command.
type SweepCommand struct {
	configPath string

	aStart, aEnd, aStep int64
	bStart, bEnd, bStep int64

	checkpointEvery int
	checkpointDir   string
	noCheckpoint    bool
	resume          bool
	clearCheckpoint bool

	workers      int
	curveTimeout time.Duration

	csvPath  string
	plotPath string
	silent   bool
	verbose  bool

	metricsListen string
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand() *cobra.Command {
	sc := &SweepCommand{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep a grid of (a, b) curves",
		Long: "Run the single-curve analysis over the Cartesian product of an a-range\n" +
			"and a b-range, with progress projection and periodic checkpointing.",
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path (YAML)")

	cmd.Flags().Int64Var(&sc.aStart, "a-start", 0, "Start of the a range")
	cmd.Flags().Int64Var(&sc.aEnd, "a-end", 0, "End of the a range (inclusive)")
	cmd.Flags().Int64Var(&sc.aStep, "a-step", 1, "Step of the a range")
	cmd.Flags().Int64Var(&sc.bStart, "b-start", 0, "Start of the b range")
	cmd.Flags().Int64Var(&sc.bEnd, "b-end", 0, "End of the b range (inclusive)")
	cmd.Flags().Int64Var(&sc.bStep, "b-step", 1, "Step of the b range")

	cmd.Flags().IntVar(&sc.checkpointEvery, "checkpoint-every", 0, "Checkpoint interval in curves (0 = config default)")
	cmd.Flags().StringVar(&sc.checkpointDir, "checkpoint-dir", "", "Checkpoint directory (default ~/.curvefang/checkpoints)")
	cmd.Flags().BoolVar(&sc.noCheckpoint, "no-checkpoint", false, "Disable checkpointing")
	cmd.Flags().BoolVar(&sc.resume, "resume", false, "Resume from the last checkpoint for this grid")
	cmd.Flags().BoolVar(&sc.clearCheckpoint, "clear-checkpoint", false, "Remove any checkpoint for this grid before running")

	cmd.Flags().IntVar(&sc.workers, "workers", 0, "Parallel analysis workers (0 = config default)")
	cmd.Flags().DurationVar(&sc.curveTimeout, "curve-timeout", 0, "Per-curve time budget (0 = unlimited)")

	cmd.Flags().StringVar(&sc.csvPath, "csv", "", "Write results as CSV to this path")
	cmd.Flags().StringVar(&sc.plotPath, "plot", "", "Write an HTML summary page to this path")
	cmd.Flags().BoolVar(&sc.silent, "silent", false, "Suppress the result table")
	cmd.Flags().BoolVarP(&sc.verbose, "verbose", "v", false, "Verbose progress logging")

	cmd.Flags().StringVar(&sc.metricsListen, "metrics-listen", "", "Expose prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func (sc *SweepCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := sc.buildConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if sc.verbose {
		level = slog.LevelDebug
	}

	providers, err := observability.Init(observability.Config{
		Service: "curvefang",
		Level:   level,
		Metrics: sc.metricsListen != "",
		Tracing: sc.verbose,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	if sc.metricsListen != "" {
		sc.serveMetrics(providers)
	}

	results, err := sc.sweep(ctx, cfg, providers)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	interrupted := errors.Is(err, context.Canceled)

	return sc.export(cmd, results, interrupted)
}

// buildConfig merges flags over the config file over defaults and validates
// everything before the sweep starts.
func (sc *SweepCommand) buildConfig() (*config.Config, error) {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return nil, err
	}

	if sc.aEnd != 0 || sc.aStart != 0 || sc.bEnd != 0 || sc.bStart != 0 {
		cfg.Sweep.Grid = sweep.Grid{
			A: sweep.Range{Start: sc.aStart, End: sc.aEnd, Step: sc.aStep},
			B: sweep.Range{Start: sc.bStart, End: sc.bEnd, Step: sc.bStep},
		}
	}

	if sc.checkpointEvery > 0 {
		cfg.Sweep.CheckpointEvery = sc.checkpointEvery
	}

	if sc.workers > 0 {
		cfg.Sweep.Workers = sc.workers
	}

	if sc.curveTimeout > 0 {
		cfg.Sweep.CurveTimeout = sc.curveTimeout
	}

	if sc.checkpointDir != "" {
		cfg.Checkpoint.Dir = sc.checkpointDir
	}

	if sc.noCheckpoint {
		cfg.Checkpoint.Enabled = false
	}

	if sc.resume {
		cfg.Checkpoint.Resume = true
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	gridErr := cfg.Sweep.Grid.Validate()
	if gridErr != nil {
		return nil, gridErr
	}

	return cfg, nil
}

func (sc *SweepCommand) sweep(
	ctx context.Context,
	cfg *config.Config,
	providers observability.Providers,
) ([]analysis.Result, error) {
	logger := providers.Logger

	analyzer, err := analysis.NewAnalyzer(cfg.AnalysisConfig())
	if err != nil {
		return nil, err
	}

	grid := cfg.Sweep.Grid
	manager, resumeSnapshot, err := sc.prepareCheckpoint(cfg, grid, logger)
	if err != nil {
		return nil, err
	}

	opts := []sweep.Option{
		sweep.WithLogger(logger),
		sweep.WithTracer(providers.Tracer),
	}

	if manager != nil {
		opts = append(opts, sweep.WithCheckpointer(manager))
	}

	if providers.Registry != nil {
		metrics, metricsErr := observability.NewSweepMetrics(providers.Meter)
		if metricsErr != nil {
			return nil, metricsErr
		}

		opts = append(opts, sweep.WithMetrics(metrics))
	}

	driver, err := sweep.NewDriver(sweep.Config{
		Grid:            grid,
		CheckpointEvery: cfg.Sweep.CheckpointEvery,
		Workers:         cfg.Sweep.Workers,
		OnProgress:      sc.progressLogger(logger),
	}, analyzer, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("starting sweep",
		slog.String("grid", grid.Key()),
		slog.String("cells", humanize.Comma(int64(grid.Cells()))),
		slog.Int("workers", cfg.Sweep.Workers))

	start := time.Now()

	results, runErr := driver.Run(ctx, resumeSnapshot)

	logger.Info("sweep finished",
		slog.String("processed", humanize.Comma(int64(len(results)))),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))

	return results, runErr
}

// prepareCheckpoint builds the checkpoint manager and, when resuming, loads
// and validates the previous snapshot.
func (sc *SweepCommand) prepareCheckpoint(
	cfg *config.Config,
	grid sweep.Grid,
	logger *slog.Logger,
) (*checkpoint.Manager, *checkpoint.Snapshot, error) {
	if !cfg.Checkpoint.Enabled {
		return nil, nil, nil
	}

	baseDir := cfg.Checkpoint.Dir
	if baseDir == "" {
		baseDir = checkpoint.DefaultDir()
	}

	manager := checkpoint.NewManager(baseDir, checkpoint.RunID(grid.Key()), nil)

	if sc.clearCheckpoint {
		clearErr := manager.Clear()
		if clearErr != nil {
			return nil, nil, clearErr
		}
	}

	if !cfg.Checkpoint.Resume || !manager.Exists() {
		return manager, nil, nil
	}

	validateErr := manager.Validate(grid.Key())
	if validateErr != nil {
		return nil, nil, validateErr
	}

	snapshot, loadErr := manager.Load()
	if loadErr != nil {
		return nil, nil, loadErr
	}

	logger.Info("loaded checkpoint",
		slog.String("run_id", snapshot.RunID),
		slog.Int("processed", snapshot.ProcessedCount))

	return manager, snapshot, nil
}

// progressLogger throttles progress updates into periodic log lines with a
// remaining-time projection.
func (sc *SweepCommand) progressLogger(logger *slog.Logger) sweep.ProgressFunc {
	return func(p sweep.Progress) {
		if p.Processed%progressLogEvery != 0 && p.Processed != p.Total {
			return
		}

		logger.Info("sweep progress",
			slog.String("processed", humanize.Comma(int64(p.Processed))),
			slog.String("total", humanize.Comma(int64(p.Total))),
			slog.Duration("elapsed", p.Elapsed.Round(time.Second)),
			slog.Duration("remaining", p.Remaining.Round(time.Second)))
	}
}

func (sc *SweepCommand) serveMetrics(providers observability.Providers) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(providers.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              sc.metricsListen,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}

	go func() {
		serveErr := server.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			providers.Logger.Warn("metrics listener failed", slog.Any("error", serveErr))
		}
	}()
}

func (sc *SweepCommand) export(cmd *cobra.Command, results []analysis.Result, interrupted bool) error {
	out := cmd.OutOrStdout()

	if !sc.silent {
		export.ResultTable(out, results, true)
	}

	if interrupted {
		fmt.Fprintf(out, "\nSweep interrupted after %d curves; resume with --resume.\n", len(results))
	}

	if sc.csvPath != "" {
		file, err := os.Create(sc.csvPath)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}

		export.ResultCSV(file, results)

		closeErr := file.Close()
		if closeErr != nil {
			return fmt.Errorf("close csv file: %w", closeErr)
		}
	}

	if sc.plotPath != "" {
		file, err := os.Create(sc.plotPath)
		if err != nil {
			return fmt.Errorf("create plot file: %w", err)
		}

		plotErr := export.WriteSummaryPage(file, results)

		closeErr := file.Close()
		if plotErr != nil {
			return plotErr
		}

		if closeErr != nil {
			return fmt.Errorf("close plot file: %w", closeErr)
		}
	}

	return nil
}
