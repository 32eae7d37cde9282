package coverage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/mower"
)

// frame is one level of the depth-first walk.
type frame struct {
	pos  garden.Position
	via  mower.Direction // step that entered pos; unused for the root
	next int             // index into mower.Directions still to try
}

// Traversal is a steppable coverage run bound to one agent.
type Traversal struct {
	agent   *mower.Agent
	opts    Options
	home    garden.Position
	hasHome bool
	start   garden.Position
	stack   []frame
	visited int

	// kept holds waypoint kinds preserved under WithKeepWaypoints; cut
	// records which of them the walk has already entered.
	kept map[garden.Position]garden.CellKind
	cut  map[garden.Position]bool
	began   time.Time
	done    bool
}

// New prepares a traversal from the agent's current position.
// Unless WithKeepWaypoints is given, waypoint cells are reset to Open
// immediately; otherwise their positions are recorded so each can be
// re-marked after the mower passes over it.
func New(a *mower.Agent, opts ...Option) (*Traversal, error) {
	if a == nil {
		return nil, ErrNilAgent
	}
	o := Options{Logger: a.Logger()}
	for _, fn := range opts {
		fn(&o)
	}

	t := &Traversal{agent: a, opts: o, start: a.Position(), visited: 1}
	t.home, t.hasHome = findKind(a.Grid(), garden.Home)

	if o.KeepWaypoints {
		t.kept = scanWaypoints(a.Grid())
		t.cut = map[garden.Position]bool{t.start: true}
	} else if err := t.clearWaypoints(); err != nil {
		return nil, err
	}

	capHint := a.Grid().Rows() * a.Grid().Cols() / 4
	t.stack = make([]frame, 1, capHint+1)
	t.stack[0] = frame{pos: t.start}

	return t, nil
}

// Run drives the traversal to completion.
func Run(ctx context.Context, a *mower.Agent, opts ...Option) (*Result, error) {
	t, err := New(a, opts...)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx)
}

// Run steps until the traversal finishes or ctx is done. On cancellation the
// partial result is returned together with ctx.Err(); the agent is left
// where the walk stopped.
func (t *Traversal) Run(ctx context.Context) (*Result, error) {
	log := t.opts.Logger
	log.Info("coverage started",
		zap.Stringer("start", t.start),
		zap.Int("rows", t.agent.Grid().Rows()),
		zap.Int("cols", t.agent.Grid().Cols()))

	for {
		done, err := t.Step(ctx)
		if err != nil {
			log.Warn("coverage aborted", zap.Error(err), zap.Int("visited", t.visited))
			return t.Result(), err
		}
		if done {
			break
		}
	}

	res := t.Result()
	log.Info("coverage finished",
		zap.Int("visited", res.Visited),
		zap.Int64("steps", res.Steps),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// Step performs at most one move. It returns done=true once the walk has
// returned to the start and marked it; any further call yields ErrFinished.
func (t *Traversal) Step(ctx context.Context) (done bool, err error) {
	if t.done {
		return true, ErrFinished
	}
	if err = ctx.Err(); err != nil {
		return false, err
	}
	if t.began.IsZero() {
		t.began = time.Now()
	}

	top := &t.stack[len(t.stack)-1]
	for top.next < len(mower.Directions) {
		d := mower.Directions[top.next]
		if !t.open(d) {
			top.next++
			continue
		}
		if err = t.enter(ctx, top, d); err != nil {
			return false, err
		}
		return false, nil
	}

	if len(t.stack) == 1 {
		final := garden.AgentHere
		if k, ok := t.kept[t.start]; ok {
			final = k
		}
		if err = t.agent.Mark(t.start, final); err != nil {
			return false, err
		}
		t.stack = t.stack[:0]
		t.done = true
		return true, nil
	}

	return false, t.leave(ctx)
}

// Done reports whether the traversal has finished.
func (t *Traversal) Done() bool { return t.done }

// Depth returns the number of frames on the stack, root included.
func (t *Traversal) Depth() int { return len(t.stack) }

// Result reports progress so far.
func (t *Traversal) Result() *Result {
	res := &Result{Start: t.start, Visited: t.visited, Steps: 2 * int64(t.visited-1)}
	// mid-walk the agent is still on its way back
	res.Steps -= int64(len(t.stack) - 1)
	if t.done {
		res.Steps = 2 * int64(t.visited-1)
	}
	if !t.began.IsZero() {
		res.Elapsed = time.Since(t.began)
	}
	return res
}

// open reports whether d leads to an unblocked, not yet cut cell.
func (t *Traversal) open(d mower.Direction) bool {
	if t.agent.IsBlocked(d) {
		return false
	}
	k, _ := t.agent.NeighborKind(d)
	if k == garden.WaypointStart || k == garden.WaypointEnd {
		p, _ := t.agent.Neighbor(d)
		return !t.cut[p]
	}
	return k != garden.Visited
}

// settled is the kind a cell keeps once the mower has moved off it.
func (t *Traversal) settled(p garden.Position) garden.CellKind {
	if k, ok := t.kept[p]; ok {
		return k
	}
	if t.hasHome && p == t.home {
		return garden.Home
	}
	return garden.Visited
}

// enter moves from the top frame into its neighbour in d and pushes it.
func (t *Traversal) enter(ctx context.Context, top *frame, d mower.Direction) error {
	from := top.pos
	if err := t.agent.Mark(from, t.settled(from)); err != nil {
		return err
	}
	if err := t.agent.Move(ctx, d); err != nil {
		return err
	}
	// advance only once the move happened so a cancelled step can be retried
	top.next++

	to := t.agent.Position()
	if _, ok := t.kept[to]; ok {
		t.cut[to] = true
	}
	if err := t.agent.Mark(to, garden.AgentHere); err != nil {
		return err
	}
	t.stack = append(t.stack, frame{pos: to, via: d})
	t.visited++

	return nil
}

// leave pops an exhausted frame and walks back to its parent.
func (t *Traversal) leave(ctx context.Context) error {
	top := t.stack[len(t.stack)-1]
	if err := t.agent.Mark(top.pos, t.settled(top.pos)); err != nil {
		return err
	}
	if err := t.agent.Move(ctx, top.via.Inverse()); err != nil {
		return err
	}
	t.stack = t.stack[:len(t.stack)-1]

	if len(t.stack) > 1 {
		parent := t.stack[len(t.stack)-1].pos
		if err := t.agent.Mark(parent, garden.AgentHere); err != nil {
			return err
		}
	}
	return nil
}

// scanWaypoints records every WaypointStart/WaypointEnd cell of q.
func scanWaypoints(q garden.Query) map[garden.Position]garden.CellKind {
	kept := make(map[garden.Position]garden.CellKind, 2)
	for r := 0; r < q.Rows(); r++ {
		for c := 0; c < q.Cols(); c++ {
			if k, err := q.KindAt(r, c); err == nil && (k == garden.WaypointStart || k == garden.WaypointEnd) {
				kept[garden.Position{Row: r, Col: c}] = k
			}
		}
	}
	return kept
}

func (t *Traversal) clearWaypoints() error {
	g := t.agent.Grid()
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			k, err := g.KindAt(r, c)
			if err != nil {
				return err
			}
			if k == garden.WaypointStart || k == garden.WaypointEnd {
				if err = t.agent.Mark(garden.Position{Row: r, Col: c}, garden.Open); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// findKind scans q for the first cell of kind in row-major order.
func findKind(q garden.Query, kind garden.CellKind) (garden.Position, bool) {
	for r := 0; r < q.Rows(); r++ {
		for c := 0; c < q.Cols(); c++ {
			if k, err := q.KindAt(r, c); err == nil && k == kind {
				return garden.Position{Row: r, Col: c}, true
			}
		}
	}
	return garden.Position{}, false
}
