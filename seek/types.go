// Package seek defines states, options and results for greedy
// point-to-point navigation.
package seek

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/mower"
)

var (
	// ErrNilAgent is returned when New or Seek receives a nil agent.
	ErrNilAgent = errors.New("seek: agent is nil")

	// ErrFinished is returned by Step once a terminal state was reached.
	ErrFinished = errors.New("seek: search already finished")
)

// State is the search lifecycle: Idle → Seeking → Reached | Unreachable.
type State uint8

const (
	Idle State = iota
	Seeking
	Reached
	Unreachable
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Seeking:
		return "seeking"
	case Reached:
		return "reached"
	case Unreachable:
		return "unreachable"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Terminal reports whether s ends the search.
func (s State) Terminal() bool { return s == Reached || s == Unreachable }

// Option configures a Seeker.
type Option func(*Options)

// Options holds the tunables of a seek run.
type Options struct {
	// Logger receives run records; backtracks are logged at debug level.
	// Defaults to the agent's logger.
	Logger *zap.Logger
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Result summarizes a seek run.
type Result struct {
	State  State
	Start  garden.Position
	Target garden.Position
	// Final is where the agent stopped; equals Target when Reached.
	Final garden.Position
	// Moves is every executed step in order, backtracks included.
	Moves []mower.Direction
	// Backtracks counts retreats popped from the history.
	Backtracks int
	Elapsed    time.Duration
}

// Steps returns the number of moves made.
func (r *Result) Steps() int { return len(r.Moves) }
