// Command mower simulates a robotic lawn mower on grid gardens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/internal/config"
	"github.com/katalvlaran/lawnmower/internal/logging"
	"github.com/katalvlaran/lawnmower/metrics"
	"github.com/katalvlaran/lawnmower/mower"
	"github.com/katalvlaran/lawnmower/pace"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	configPath string
	paceMode   string
	delay      time.Duration
	styled     bool

	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mower",
		Short: "Robotic lawn mower simulator",
		Long: `mower drives a simulated mower over a grid garden.

It can cut every reachable cell (cover), walk from one waypoint to another
(seek), benchmark both (bench), and create or display gardens (generate,
show). Gardens are YAML scenarios or binary .garden snapshots.`,
		Version:            version,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to YAML config file")
	pf.StringVar(&a.paceMode, "pace-mode", "", "pacing mode override: none, timer or rate")
	pf.DurationVar(&a.delay, "delay", 0, "per-move delay override")
	pf.BoolVar(&a.styled, "styled", false, "colour garden output")

	root.AddCommand(
		newCoverCmd(a),
		newSeekCmd(a),
		newBenchCmd(a),
		newGenerateCmd(a),
		newShowCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pace-mode") {
		cfg.Pace.Mode = pace.Mode(a.paceMode)
	}
	if cmd.Flags().Changed("delay") {
		cfg.Pace.Delay = a.delay
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, err = logging.New(cfg.Log, zapcore.AddSync(cmd.ErrOrStderr())); err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.metrics, err = metrics.New(a.registry, cfg.Metrics.Namespace)
	return err
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}

// newAgent places a mower wired to the configured pacer, metrics and logger.
func (a *app) newAgent(g garden.Mutator, at garden.Position, algorithm string) (*mower.Agent, error) {
	return mower.New(g, at,
		mower.WithPacer(a.cfg.Pacer()),
		mower.WithPace(a.cfg.Pace.Delay),
		mower.WithCounter(a.metrics.Moves(algorithm)),
		mower.WithLogger(a.log.Named(algorithm)),
		mower.WithObserver(func(c garden.Change) {
			a.log.Debug("cell changed", zap.Stringer("pos", c.Pos), zap.Stringer("kind", c.Kind))
		}),
	)
}
