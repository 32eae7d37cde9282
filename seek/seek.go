// Package seek moves a mower from its position to a target cell using only
// local information: at every cell it steps to the neighbour closest to the
// target by Manhattan distance, and when boxed in it retraces its own steps.
//
// Selection rule:
//
//   - A neighbour is a candidate when the agent is not blocked towards it
//     and it is not Visited.
//   - The candidate with the smallest distance wins; on ties the earlier
//     direction in Up, Down, Left, Right order is kept.
//
// Backtracking:
//
//   - Each forward step is pushed onto a history stack.
//   - With no candidate left, the last step is popped and undone. Undo
//     steps are never pushed. An empty history means the target cannot be
//     reached and the search stops where it stands.
//
// This is a greedy heuristic: the route is optimal on an obstacle-free
// grid, not in general.
//
// Complexity:
//
//   - Time:   O(R×C) iterations; every forward step consumes an unvisited
//     cell and every backtrack consumes a history entry.
//   - Memory: O(R×C) for the history and the move log.
package seek

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/mower"
)

// Seeker is a steppable search bound to one agent and one target.
type Seeker struct {
	agent   *mower.Agent
	target  garden.Position
	opts    Options
	state   State
	history []mower.Direction
	res     Result
	began   time.Time
}

// New prepares a search towards target. The target must lie on the grid;
// its kind is not checked, so an Obstacle or Home target simply ends
// Unreachable.
//
// Visited cells already on the grid count as explored: a grid left behind by
// a coverage run or an earlier search must be cleared with Grid.Reset first,
// or the search may end Unreachable without moving.
func New(a *mower.Agent, target garden.Position, opts ...Option) (*Seeker, error) {
	if a == nil {
		return nil, ErrNilAgent
	}
	if _, err := a.Grid().KindAt(target.Row, target.Col); err != nil {
		return nil, err
	}
	o := Options{Logger: a.Logger()}
	for _, fn := range opts {
		fn(&o)
	}

	return &Seeker{
		agent:  a,
		target: target,
		opts:   o,
		state:  Idle,
		res:    Result{Start: a.Position(), Target: target, Final: a.Position()},
	}, nil
}

// Seek runs a search to completion.
func Seek(ctx context.Context, a *mower.Agent, target garden.Position, opts ...Option) (*Result, error) {
	s, err := New(a, target, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// State returns the current lifecycle state.
func (s *Seeker) State() State { return s.state }

// History returns a copy of the backtrack stack, oldest first.
func (s *Seeker) History() []mower.Direction {
	out := make([]mower.Direction, len(s.history))
	copy(out, s.history)
	return out
}

// Run steps until a terminal state or until ctx is done. Unreachable is a
// normal outcome reported in the Result, not an error.
func (s *Seeker) Run(ctx context.Context) (*Result, error) {
	log := s.opts.Logger
	log.Info("seek started",
		zap.Stringer("from", s.agent.Position()),
		zap.Stringer("target", s.target))

	for !s.state.Terminal() {
		if _, err := s.Step(ctx); err != nil {
			log.Warn("seek aborted", zap.Error(err), zap.Int("steps", len(s.res.Moves)))
			return s.Result(), err
		}
	}

	res := s.Result()
	log.Info("seek finished",
		zap.Stringer("state", res.State),
		zap.Stringer("final", res.Final),
		zap.Int("steps", res.Steps()),
		zap.Int("backtracks", res.Backtracks),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// Step performs one iteration of the search: at most one move.
func (s *Seeker) Step(ctx context.Context) (State, error) {
	if s.state.Terminal() {
		return s.state, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return s.state, err
	}

	a := s.agent
	if s.state == Idle {
		s.began = time.Now()
		if err := a.Mark(a.Position(), garden.AgentHere); err != nil {
			return s.state, err
		}
		s.state = Seeking
	}
	if a.Position() == s.target {
		s.state = Reached
		return s.state, nil
	}

	d, ok := s.choose()
	here := a.Position()
	if err := a.Mark(here, garden.Visited); err != nil {
		return s.state, err
	}

	backtrack := false
	if !ok {
		if len(s.history) == 0 {
			s.state = Unreachable
			return s.state, nil
		}
		d = s.history[len(s.history)-1].Inverse()
		backtrack = true
	}

	if err := a.Move(ctx, d); err != nil {
		return s.state, err
	}
	if backtrack {
		s.history = s.history[:len(s.history)-1]
		s.res.Backtracks++
		s.opts.Logger.Debug("seek backtrack", zap.Stringer("from", here), zap.Stringer("dir", d))
	} else {
		s.history = append(s.history, d)
	}
	s.res.Moves = append(s.res.Moves, d)

	if err := a.Mark(a.Position(), garden.AgentHere); err != nil {
		return s.state, err
	}
	if a.Position() == s.target {
		s.state = Reached
	}

	return s.state, nil
}

// Result reports progress so far.
func (s *Seeker) Result() *Result {
	res := s.res
	res.State = s.state
	res.Final = s.agent.Position()
	res.Moves = append([]mower.Direction(nil), s.res.Moves...)
	if !s.began.IsZero() {
		res.Elapsed = time.Since(s.began)
	}
	return &res
}

// choose returns the candidate direction closest to the target.
// Later directions only win with a strictly smaller distance.
func (s *Seeker) choose() (mower.Direction, bool) {
	best, bestDist, found := mower.Up, math.MaxInt, false
	for _, d := range mower.Directions {
		if s.agent.IsBlocked(d) {
			continue
		}
		if k, _ := s.agent.NeighborKind(d); k == garden.Visited {
			continue
		}
		p, _ := s.agent.Neighbor(d)
		if dist := garden.Manhattan(p, s.target); dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}
