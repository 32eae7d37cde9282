// Package bench runs both mowing algorithms against a scenario and reports
// how they did.
//
// A run works on a copy of the scenario's grid:
//  1. The mower starts on Home (or (0,0) when the garden has none) and cuts
//     everything it can reach.
//  2. The cut share is Visited / (Visited + Open) over the whole garden, so
//     walled-off lawn counts against it.
//  3. The grid is reset, Home and the waypoints are restored, and when both
//     waypoints exist the mower seeks from start to target.
//
// Both runs use the configured pacer; the zero-value default is unpaced.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/coverage"
	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/metrics"
	"github.com/katalvlaran/lawnmower/mower"
	"github.com/katalvlaran/lawnmower/pace"
	"github.com/katalvlaran/lawnmower/scenario"
	"github.com/katalvlaran/lawnmower/seek"
)

// ErrNilScenario indicates Run was given no scenario or no grid.
var ErrNilScenario = errors.New("bench: scenario is nil")

// Option configures a Run.
type Option func(*Options)

// Options holds Run settings.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Pacer   pace.Pacer
	Pace    time.Duration
}

// WithLogger sets the logger. A nil logger keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records moves and runs in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// WithPacing slows every move by delay using p.
func WithPacing(p pace.Pacer, delay time.Duration) Option {
	return func(o *Options) {
		o.Pacer = p
		o.Pace = delay
	}
}

// Report is the outcome of one bench run.
type Report struct {
	RunID    uuid.UUID
	Scenario string
	Rows     int
	Cols     int

	// Coverage describes the exhaustive cut.
	Coverage coverage.Result
	// CoveragePercent is the cut share in [0,100].
	CoveragePercent float64
	// Reachable counts cells connected to the mower's start, start included.
	Reachable int

	// Seek is nil when the scenario lacks a start or a target.
	Seek *seek.Result

	// Grid is the garden as the last run left it.
	Grid *garden.Grid
}

// Run benchmarks sc. The scenario's grid is not modified.
func Run(ctx context.Context, sc *scenario.Scenario, opts ...Option) (*Report, error) {
	if sc == nil || sc.Grid == nil {
		return nil, ErrNilScenario
	}
	o := Options{Logger: zap.NewNop(), Pacer: pace.None{}}
	for _, fn := range opts {
		fn(&o)
	}

	rep := &Report{
		RunID:    uuid.New(),
		Scenario: sc.Name,
		Rows:     sc.Grid.Rows(),
		Cols:     sc.Grid.Cols(),
	}
	log := o.Logger.With(zap.String("run_id", rep.RunID.String()), zap.String("scenario", sc.Name))

	g := sc.Grid.Clone()
	g.Reset()
	rep.Grid = g

	home := garden.Position{}
	if sc.Home != nil {
		home = *sc.Home
	}

	reach, err := garden.Reachable(g, home, nil)
	if err != nil {
		return nil, fmt.Errorf("bench: reachable: %w", err)
	}
	rep.Reachable = len(reach)

	cut, err := mower.New(g, home, o.agentOptions(log, metrics.AlgorithmCoverage)...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	cov, err := coverage.Run(ctx, cut, coverage.WithLogger(log))
	if err != nil {
		o.observe(metrics.AlgorithmCoverage, metrics.OutcomeAborted, cov)
		return nil, fmt.Errorf("bench: coverage: %w", err)
	}
	o.observe(metrics.AlgorithmCoverage, metrics.OutcomeCovered, cov)
	rep.Coverage = *cov
	rep.CoveragePercent = cutPercent(g)

	if err = restore(g, sc); err != nil {
		return nil, err
	}
	if sc.Start == nil || sc.Target == nil {
		log.Info("bench seek skipped", zap.Bool("has_start", sc.Start != nil), zap.Bool("has_target", sc.Target != nil))
		return rep, nil
	}

	walker, err := mower.New(g, *sc.Start, o.agentOptions(log, metrics.AlgorithmSeek)...)
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	res, err := seek.Seek(ctx, walker, *sc.Target, seek.WithLogger(log))
	if err != nil {
		if o.Metrics != nil && res != nil {
			o.Metrics.ObserveRun(metrics.AlgorithmSeek, metrics.OutcomeAborted, res.Elapsed)
		}
		return nil, fmt.Errorf("bench: seek: %w", err)
	}
	rep.Seek = res
	if o.Metrics != nil {
		o.Metrics.ObserveRun(metrics.AlgorithmSeek, res.State.String(), res.Elapsed)
	}

	log.Info("bench finished",
		zap.Float64("coverage_percent", rep.CoveragePercent),
		zap.Stringer("seek", res.State))

	return rep, nil
}

func (o Options) agentOptions(log *zap.Logger, algorithm string) []mower.Option {
	opts := []mower.Option{
		mower.WithLogger(log),
		mower.WithPacer(o.Pacer),
		mower.WithPace(o.Pace),
	}
	if o.Metrics != nil {
		opts = append(opts, mower.WithCounter(o.Metrics.Moves(algorithm)))
	}
	return opts
}

func (o Options) observe(algorithm, outcome string, res *coverage.Result) {
	if o.Metrics == nil || res == nil {
		return
	}
	o.Metrics.ObserveRun(algorithm, outcome, res.Elapsed)
}

// cutPercent is Visited/(Visited+Open) as a percentage; a garden with no
// lawn at all counts as fully cut.
func cutPercent(g *garden.Grid) float64 {
	cut := g.Count(garden.Visited)
	total := cut + g.Count(garden.Open)
	if total == 0 {
		return 100
	}
	return float64(cut) * 100 / float64(total)
}

// restore clears cut marks and puts Home and the waypoints back.
func restore(g *garden.Grid, sc *scenario.Scenario) error {
	g.Reset()
	marks := []struct {
		pos  *garden.Position
		kind garden.CellKind
	}{
		{sc.Home, garden.Home},
		{sc.Start, garden.WaypointStart},
		{sc.Target, garden.WaypointEnd},
	}
	for _, m := range marks {
		if m.pos == nil {
			continue
		}
		if err := g.SetKind(m.pos.Row, m.pos.Col, m.kind); err != nil {
			return fmt.Errorf("bench: restore %s: %w", m.kind, err)
		}
	}
	return nil
}

// WriteText writes a human-readable summary of r.
func (r *Report) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("run %s\n", r.RunID)
	name := r.Scenario
	if name == "" {
		name = "(unnamed)"
	}
	ew.printf("scenario: %s (%dx%d)\n\n", name, r.Rows, r.Cols)
	ew.printf("coverage\n")
	ew.printf("  cut:       %.2f%%\n", r.CoveragePercent)
	ew.printf("  visited:   %d of %d reachable\n", r.Coverage.Visited, r.Reachable)
	ew.printf("  steps:     %d\n", r.Coverage.Steps)
	ew.printf("  elapsed:   %s\n\n", r.Coverage.Elapsed.Round(time.Microsecond))
	ew.printf("seek\n")
	if r.Seek == nil {
		ew.printf("  skipped: start or target missing\n")
		return ew.err
	}
	ew.printf("  outcome:   %s at %s\n", r.Seek.State, r.Seek.Final)
	ew.printf("  steps:     %d\n", r.Seek.Steps())
	ew.printf("  backtracks: %d\n", r.Seek.Backtracks)
	ew.printf("  elapsed:   %s\n", r.Seek.Elapsed.Round(time.Microsecond))
	return ew.err
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
