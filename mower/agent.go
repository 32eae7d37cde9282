package mower

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/pace"
)

var (
	// ErrNilGrid is returned when New receives a nil grid.
	ErrNilGrid = errors.New("mower: grid is nil")
	// ErrNegativePace is returned for a pace below zero.
	ErrNegativePace = errors.New("mower: pace must not be negative")
)

// StepCounter is incremented once per Move. prometheus.Counter satisfies it.
type StepCounter interface {
	Inc()
}

// Option configures an Agent.
type Option func(*Agent)

// WithPacer installs the pacing hook. A nil pacer keeps the default.
func WithPacer(p pace.Pacer) Option {
	return func(a *Agent) {
		if p != nil {
			a.pacer = p
		}
	}
}

// WithPace sets the initial delay. Negative values are clamped to zero.
func WithPace(d time.Duration) Option {
	return func(a *Agent) {
		if d < 0 {
			d = 0
		}
		a.pace = d
	}
}

// WithCounter installs an external step counter.
func WithCounter(c StepCounter) Option {
	return func(a *Agent) {
		a.counter = c
	}
}

// WithObserver installs the change listener.
func WithObserver(fn garden.Observer) Option {
	return func(a *Agent) {
		a.observer = fn
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// Agent is the mower: a position on a grid and the primitives to sense and
// change it. An Agent is not safe for concurrent use; runs on one Agent
// must be serialized by the caller.
type Agent struct {
	grid     garden.Mutator
	pos      garden.Position
	pace     time.Duration
	pacer    pace.Pacer
	counter  StepCounter
	observer garden.Observer
	log      *zap.Logger
	steps    int64
}

// New places an agent on grid at start.
// Returns ErrNilGrid for a nil grid and garden.ErrOutOfBounds for a start
// outside it.
func New(grid garden.Mutator, start garden.Position, opts ...Option) (*Agent, error) {
	if grid == nil {
		return nil, ErrNilGrid
	}
	a := &Agent{
		grid:  grid,
		pacer: pace.None{},
		log:   zap.NewNop(),
	}
	for _, fn := range opts {
		fn(a)
	}
	if err := a.Teleport(start.Row, start.Col); err != nil {
		return nil, err
	}

	return a, nil
}

// Grid returns the grid the agent moves on.
func (a *Agent) Grid() garden.Mutator { return a.grid }

// Position returns the current cell.
func (a *Agent) Position() garden.Position { return a.pos }

// Steps returns how many moves were made since creation or ResetSteps.
func (a *Agent) Steps() int64 { return a.steps }

// ResetSteps zeroes the internal step count. External counters are untouched.
func (a *Agent) ResetSteps() { a.steps = 0 }

// Logger returns the agent's logger so algorithms can share it.
func (a *Agent) Logger() *zap.Logger { return a.log }

// Pace returns the current delay.
func (a *Agent) Pace() time.Duration { return a.pace }

// SetPace changes the delay used for subsequent moves.
func (a *Agent) SetPace(d time.Duration) error {
	if d < 0 {
		return ErrNegativePace
	}
	a.pace = d
	return nil
}

// Neighbor returns the cell one step away in d and whether it is on the grid.
func (a *Agent) Neighbor(d Direction) (garden.Position, bool) {
	dr, dc := d.Delta()
	p := a.pos.Step(dr, dc)
	return p, p.Row >= 0 && p.Row < a.grid.Rows() && p.Col >= 0 && p.Col < a.grid.Cols()
}

// NeighborKind returns the kind of the neighbouring cell in d.
// ok is false when the neighbour is off the grid.
func (a *Agent) NeighborKind(d Direction) (kind garden.CellKind, ok bool) {
	p, in := a.Neighbor(d)
	if !in {
		return garden.Open, false
	}
	k, err := a.grid.KindAt(p.Row, p.Col)
	if err != nil {
		return garden.Open, false
	}
	return k, true
}

// IsBlocked reports whether a step in d would leave the grid or enter an
// Obstacle or the Home cell.
func (a *Agent) IsBlocked(d Direction) bool {
	k, ok := a.NeighborKind(d)
	if !ok {
		return true
	}
	return k == garden.Obstacle || k == garden.Home
}

// Move waits on the pacer and then shifts the agent one cell in d.
// No bounds or obstacle check is made. If the wait fails (context done) the
// agent does not move and the error is returned.
func (a *Agent) Move(ctx context.Context, d Direction) error {
	if err := a.pacer.Wait(ctx, a.pace); err != nil {
		return err
	}
	dr, dc := d.Delta()
	a.pos = a.pos.Step(dr, dc)
	a.steps++
	if a.counter != nil {
		a.counter.Inc()
	}

	return nil
}

// Teleport moves the agent straight to (row,col) with no pacing or counting.
func (a *Agent) Teleport(row, col int) error {
	if _, err := a.grid.KindAt(row, col); err != nil {
		return fmt.Errorf("mower: teleport: %w", err)
	}
	a.pos = garden.Position{Row: row, Col: col}
	return nil
}

// Mark writes kind at pos and notifies the observer.
func (a *Agent) Mark(pos garden.Position, kind garden.CellKind) error {
	if err := a.grid.SetKind(pos.Row, pos.Col, kind); err != nil {
		return err
	}
	if a.observer != nil {
		a.observer(garden.Change{Pos: pos, Kind: kind})
	}
	return nil
}
