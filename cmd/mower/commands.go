package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lawnmower/bench"
	"github.com/katalvlaran/lawnmower/coverage"
	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/metrics"
	"github.com/katalvlaran/lawnmower/mower"
	"github.com/katalvlaran/lawnmower/render"
	"github.com/katalvlaran/lawnmower/scenario"
	"github.com/katalvlaran/lawnmower/seek"
	"github.com/katalvlaran/lawnmower/snapshot"
)

var errMissingWaypoint = errors.New("start and target are required")

func newCoverCmd(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "cover <garden>",
		Short: "Cut every reachable cell, starting from Home",
		Long: `Cut every cell reachable from Home (or (0,0) when the garden has none)
and return to the start. Waypoints are cleared unless --keep-waypoints is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			sc.Grid.Reset()
			start := garden.Position{}
			if sc.Home != nil {
				start = *sc.Home
			}
			agent, err := a.newAgent(sc.Grid, start, metrics.AlgorithmCoverage)
			if err != nil {
				return err
			}

			var opts []coverage.Option
			if keep {
				opts = append(opts, coverage.WithKeepWaypoints())
			}
			res, err := coverage.Run(cmd.Context(), agent, opts...)
			if err != nil {
				if res != nil {
					a.metrics.ObserveRun(metrics.AlgorithmCoverage, metrics.OutcomeAborted, res.Elapsed)
				}
				return err
			}
			a.metrics.ObserveRun(metrics.AlgorithmCoverage, metrics.OutcomeCovered, res.Elapsed)

			out := cmd.OutOrStdout()
			if err = a.draw(out, sc.Grid); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "covered %d cells in %d moves (%s)\n", res.Visited, res.Steps, res.Elapsed)
			return err
		},
	}
	cmd.Flags().BoolVar(&keep, "keep-waypoints", false, "keep start and end markers; they are still cut but get their marker back")
	return cmd
}

func newSeekCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "seek <garden>",
		Short: "Walk from the start waypoint to the end waypoint",
		Long: `Greedily walk towards the target, backtracking out of dead ends.
--from and --to take "row,col" and override the garden's waypoints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if sc.Start, err = override(sc.Start, from); err != nil {
				return err
			}
			if sc.Target, err = override(sc.Target, to); err != nil {
				return err
			}
			if sc.Start == nil || sc.Target == nil {
				return errMissingWaypoint
			}

			sc.Grid.Reset()
			agent, err := a.newAgent(sc.Grid, *sc.Start, metrics.AlgorithmSeek)
			if err != nil {
				return err
			}
			res, err := seek.Seek(cmd.Context(), agent, *sc.Target)
			if err != nil {
				if res != nil {
					a.metrics.ObserveRun(metrics.AlgorithmSeek, metrics.OutcomeAborted, res.Elapsed)
				}
				return err
			}
			a.metrics.ObserveRun(metrics.AlgorithmSeek, res.State.String(), res.Elapsed)

			out := cmd.OutOrStdout()
			if err = a.draw(out, sc.Grid); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s at %s after %d moves, %d backtracks (%s)\nmoves: %s\n",
				res.State, res.Final, res.Steps(), res.Backtracks, res.Elapsed, joinMoves(res.Moves))
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start cell as row,col")
	cmd.Flags().StringVar(&to, "to", "", "target cell as row,col")
	return cmd
}

func newBenchCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "bench <garden>",
		Short: "Run coverage and seek and report cut share, moves and timings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			rep, err := bench.Run(cmd.Context(), sc,
				bench.WithLogger(a.log),
				bench.WithMetrics(a.metrics),
				bench.WithPacing(a.cfg.Pacer(), a.cfg.Pace.Delay))
			if err != nil {
				return err
			}

			if output == "" {
				return rep.WriteText(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err = rep.WriteText(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		rows, cols, percent int
		seed                int64
		name, output        string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a random garden",
		Long: `Create a random garden with Home at (0,0), obstacles and two waypoints.
The result is printed as a YAML scenario, or written to --output: files
ending in .garden are binary snapshots, anything else YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Random.Seed
			}
			if !cmd.Flags().Changed("percent") {
				percent = a.cfg.Random.ObstaclePercent
			}
			g, err := garden.New(rows, cols)
			if err != nil {
				return err
			}
			if _, _, err = garden.Randomize(g, garden.NewRNG(seed), percent); err != nil {
				return err
			}
			sc, err := scenario.FromGrid(name, g)
			if err != nil {
				return err
			}

			if filepath.Ext(output) == snapshot.Extension {
				return snapshot.WriteFile(output, sc.Snapshot())
			}
			data, err := scenario.Marshal(sc)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	f := cmd.Flags()
	f.IntVar(&rows, "rows", 20, "garden rows")
	f.IntVar(&cols, "cols", 20, "garden columns")
	f.Int64Var(&seed, "seed", 0, "random seed (default from config)")
	f.IntVar(&percent, "percent", garden.DefaultObstaclePercent, "obstacle percentage (default from config)")
	f.StringVar(&name, "name", "random", "scenario name")
	f.StringVarP(&output, "output", "o", "", "output file (.garden or .yaml)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <garden>",
		Short: "Print a garden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err = a.draw(out, sc.Grid); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s: %dx%d, %d obstacles, %d open\n",
				sc.Name, sc.Grid.Rows(), sc.Grid.Cols(),
				sc.Grid.Count(garden.Obstacle), sc.Grid.Count(garden.Open))
			return err
		},
	}
}

func (a *app) draw(w io.Writer, q garden.Query) error {
	var err error
	if a.styled {
		_, err = fmt.Fprintln(w, render.Styled(q))
	} else {
		_, err = io.WriteString(w, render.Plain(q))
	}
	return err
}

// override parses a "row,col" flag value; an empty value keeps cur.
func override(cur *garden.Position, flag string) (*garden.Position, error) {
	if flag == "" {
		return cur, nil
	}
	p, err := parsePosition(flag)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func parsePosition(s string) (garden.Position, error) {
	var p garden.Position
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d,%d", &p.Row, &p.Col); err != nil {
		return garden.Position{}, fmt.Errorf("invalid position %q, want row,col: %w", s, err)
	}
	return p, nil
}

func joinMoves(moves []mower.Direction) string {
	if len(moves) == 0 {
		return "-"
	}
	parts := make([]string, len(moves))
	for i, d := range moves {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}
