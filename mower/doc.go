// Package mower implements the agent that both traversal algorithms drive:
// a position on a garden.Mutator plus sensing and actuation primitives.
//
// Sensing:
//
//   - IsBlocked(d): the step would leave the grid, or lands on an Obstacle
//     or on Home. Home can be departed but never re-entered during a run.
//
// Actuation:
//
//   - Move(ctx, d): waits on the Pacer, then shifts one cell without any
//     checks; callers consult IsBlocked first. This is the only call in the
//     engine that may block.
//   - Teleport(row, col): repositions before a run, bypassing pacing and
//     step counting.
//   - Mark(pos, kind): writes a cell and emits a garden.Change.
//
// Options:
//
//   - WithPacer(p)     pacing hook; defaults to pace.None.
//   - WithPace(d)      initial delay handed to the pacer.
//   - WithCounter(c)   external step counter (e.g. a Prometheus counter).
//   - WithObserver(fn) receives every cell mutation in order.
//   - WithLogger(l)    zap logger; defaults to zap.NewNop().
package mower
