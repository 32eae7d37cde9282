package coverage

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/garden"
)

var (
	// ErrNilAgent is returned when New or Run receives a nil agent.
	ErrNilAgent = errors.New("coverage: agent is nil")

	// ErrFinished is returned by Step after the traversal has completed.
	ErrFinished = errors.New("coverage: traversal already finished")
)

// Option configures a Traversal.
type Option func(*Options)

// Options holds the tunables of a coverage run.
type Options struct {
	// Logger receives run start/finish records. Defaults to the agent's logger.
	Logger *zap.Logger

	// KeepWaypoints leaves WaypointStart/WaypointEnd cells in place: the
	// walk still passes over them once, but each gets its marker back when
	// the mower moves off, the start cell included. By default they are
	// turned back into Open lawn before the run and cut like any other cell.
	KeepWaypoints bool
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithKeepWaypoints preserves waypoint markers through the run.
func WithKeepWaypoints() Option {
	return func(o *Options) {
		o.KeepWaypoints = true
	}
}

// Result summarizes a finished traversal.
type Result struct {
	// Start is where the agent began and ended.
	Start garden.Position

	// Visited counts distinct cells occupied during the run, start included.
	Visited int

	// Steps counts moves; always 2×(Visited−1).
	Steps int64

	// Elapsed is wall-clock time including pacing.
	Elapsed time.Duration
}
