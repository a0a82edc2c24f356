package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/checkpoint"
)

// ErrResumeMismatch is returned when a resume snapshot does not belong to
// the configured grid.
var ErrResumeMismatch = errors.New("resume snapshot does not match grid")

// DefaultCheckpointEvery is the default checkpoint interval in cells.
const DefaultCheckpointEvery = 100

// Checkpointer persists sweep snapshots. Failures are non-fatal to the
// sweep: they are logged and, when structural, disable further attempts.
type Checkpointer interface {
	Save(snapshot checkpoint.Snapshot) error
}

// Metrics receives per-cell measurements. Implementations must be safe for
// use from the sweep goroutines.
type Metrics interface {
	RecordCurve(ctx context.Context, elapsed time.Duration, verdict analysis.Verdict)
	RecordCheckpointFailure(ctx context.Context)
}

// Config holds sweep parameters.
type Config struct {
	// Grid is the (a, b) cell grid to sweep.
	Grid Grid
	// CheckpointEvery persists a snapshot each time this many cells have
	// been processed. Non-positive selects the default.
	CheckpointEvery int
	// Workers sets the number of parallel analysis workers. Values below 2
	// run the sweep sequentially. The result order is deterministic either
	// way.
	Workers int
	// OnProgress, when non-nil, receives an update after every cell.
	OnProgress ProgressFunc
}

// Driver runs the per-curve analyzer over every cell of a grid.
type Driver struct {
	cfg      Config
	analyzer *analysis.Analyzer
	ckpt     Checkpointer
	metrics  Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Driver.
type Option func(*Driver)

// WithCheckpointer injects the snapshot persister.
func WithCheckpointer(c Checkpointer) Option {
	return func(d *Driver) { d.ckpt = c }
}

// WithMetrics injects the metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithLogger injects the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithTracer injects the tracer for run and cell spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *Driver) { d.tracer = t }
}

// NewDriver creates a sweep driver. The grid is validated up front: the
// engine fails fast before any cell is analyzed.
func NewDriver(cfg Config, analyzer *analysis.Analyzer, opts ...Option) (*Driver, error) {
	err := cfg.Grid.Validate()
	if err != nil {
		return nil, err
	}

	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = DefaultCheckpointEvery
	}

	d := &Driver{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer("sweep"),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Run sweeps every cell and returns the complete ordered result collection.
// A nil resume starts from scratch; a snapshot resumes after its processed
// prefix and must belong to the same grid. Cancellation is cooperative: the
// driver checks the context between cells and returns the results
// accumulated so far together with the context error.
func (d *Driver) Run(ctx context.Context, resume *checkpoint.Snapshot) ([]analysis.Result, error) {
	ctx, span := d.tracer.Start(ctx, "sweep.run",
		trace.WithAttributes(attribute.String("grid", d.cfg.Grid.Key())))
	defer span.End()

	total := d.cfg.Grid.Cells()

	results := make([]analysis.Result, total)

	start := 0

	if resume != nil {
		if resume.GridKey != d.cfg.Grid.Key() {
			return nil, fmt.Errorf("%w: snapshot %q, grid %q", ErrResumeMismatch, resume.GridKey, d.cfg.Grid.Key())
		}

		if len(resume.Results) != resume.ProcessedCount || resume.ProcessedCount > total {
			return nil, fmt.Errorf("%w: snapshot carries %d results for count %d",
				ErrResumeMismatch, len(resume.Results), resume.ProcessedCount)
		}

		copy(results, resume.Results)
		start = resume.ProcessedCount

		d.logger.Info("resuming sweep",
			slog.String("run_id", resume.RunID),
			slog.Int("processed", start),
			slog.Int("total", total))
	}

	state := &runState{
		driver:    d,
		results:   results,
		total:     total,
		watermark: start,
		startedAt: time.Now(),
		avg:       newMovingAverage(defaultAverageWindow),
		ckpt:      d.ckpt,

		lastSnapshot: start,
	}

	var err error
	if d.cfg.Workers > 1 {
		err = d.runParallel(ctx, state, start)
	} else {
		err = d.runSequential(ctx, state, start)
	}

	return state.results[:state.watermark], err
}

func (d *Driver) runSequential(ctx context.Context, state *runState, start int) error {
	for i := start; i < state.total; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		result := d.analyzeCell(ctx, i)
		state.complete(ctx, i, result)
	}

	return nil
}

// analyzeCell wraps one cell's analysis in a span.
func (d *Driver) analyzeCell(ctx context.Context, index int) analysis.Result {
	params := d.cfg.Grid.CellAt(index)

	ctx, span := d.tracer.Start(ctx, "sweep.cell", trace.WithAttributes(
		attribute.Int64("curve.a", params.A),
		attribute.Int64("curve.b", params.B),
	))
	defer span.End()

	return d.analyzer.Analyze(ctx, params)
}

func (d *Driver) runParallel(ctx context.Context, state *runState, start int) error {
	indexCh := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < d.cfg.Workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range indexCh {
				result := d.analyzeCell(ctx, i)
				state.complete(ctx, i, result)
			}
		}()
	}

	var runErr error

feed:
	for i := start; i < state.total; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()

			break feed
		case indexCh <- i:
		}
	}

	close(indexCh)
	wg.Wait()

	return runErr
}

// runState accumulates results and drives checkpointing and progress.
// complete is the single synchronization point: in parallel mode every
// worker funnels through its mutex, so the accumulator has one writer at a
// time and checkpoints always cover a contiguous prefix.
type runState struct {
	driver *Driver

	mu           sync.Mutex
	results      []analysis.Result
	done         map[int]bool
	total        int
	watermark    int // Cells [0, watermark) are complete.
	startedAt    time.Time
	avg          *movingAverage
	ckpt         Checkpointer
	lastSnapshot int
}

func (s *runState) complete(ctx context.Context, index int, result analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[index] = result

	if s.done == nil {
		s.done = make(map[int]bool)
	}

	s.done[index] = true

	for s.watermark < s.total && s.done[s.watermark] {
		delete(s.done, s.watermark)
		s.watermark++
	}

	s.avg.observe(result.Elapsed)

	if s.driver.metrics != nil {
		s.driver.metrics.RecordCurve(ctx, result.Elapsed, result.Verdict)
	}

	if s.driver.cfg.OnProgress != nil {
		s.driver.cfg.OnProgress(s.progressLocked())
	}

	s.maybeCheckpointLocked(ctx)
}

// progressLocked builds a progress update. Callers hold s.mu.
func (s *runState) progressLocked() Progress {
	remainingCells := s.total - s.watermark

	perCurve := s.avg.average()

	workers := s.driver.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return Progress{
		Processed: s.watermark,
		Total:     s.total,
		Elapsed:   time.Since(s.startedAt),
		Remaining: perCurve * time.Duration(remainingCells) / time.Duration(workers),
	}
}

// maybeCheckpointLocked persists a snapshot when the completed prefix has
// grown past the checkpoint interval. Callers hold s.mu. Persistence
// failures never abort the sweep; a structural failure disables further
// attempts.
func (s *runState) maybeCheckpointLocked(ctx context.Context) {
	if s.ckpt == nil {
		return
	}

	every := s.driver.cfg.CheckpointEvery
	if s.watermark/every == s.lastSnapshot/every {
		return
	}

	s.lastSnapshot = s.watermark

	gridKey := s.driver.cfg.Grid.Key()

	snapshot := checkpoint.Snapshot{
		RunID:          checkpoint.RunID(gridKey),
		GridKey:        gridKey,
		ProcessedCount: s.watermark,
		Results:        append([]analysis.Result(nil), s.results[:s.watermark]...),
		CreatedAt:      time.Now(),
	}

	err := s.ckpt.Save(snapshot)
	if err == nil {
		return
	}

	if s.driver.metrics != nil {
		s.driver.metrics.RecordCheckpointFailure(ctx)
	}

	if checkpoint.IsStructural(err) {
		s.driver.logger.Warn("checkpointing disabled: structural persistence failure",
			slog.Any("error", err))

		s.ckpt = nil

		return
	}

	s.driver.logger.Warn("checkpoint save failed, sweep continues",
		slog.Any("error", err))
}
