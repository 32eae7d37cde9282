package coverage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/internal/logging"
	"github.com/katalvlaran/lawnmower/mower"
)

type countingCounter struct{ n int }

func (c *countingCounter) Inc() { c.n++ }

// cancelAfter cancels its context once Wait has been called n times.
type cancelAfter struct {
	n      int
	cancel context.CancelFunc
}

func (p *cancelAfter) Wait(ctx context.Context, _ time.Duration) error {
	if p.n == 0 {
		p.cancel()
	}
	p.n--
	return ctx.Err()
}

func newAgent(t *testing.T, g *garden.Grid, start garden.Position, opts ...mower.Option) *mower.Agent {
	t.Helper()
	a, err := mower.New(g, start, opts...)
	require.NoError(t, err)
	return a
}

// TestRun_EmptyThreeByThree is the reference scenario: a 3×3 open grid from
// (0,0) visits all nine cells in 16 moves and ends where it began.
func TestRun_EmptyThreeByThree(t *testing.T) {
	g, _ := garden.New(3, 3)
	c := &countingCounter{}
	a := newAgent(t, g, garden.Position{}, mower.WithCounter(c))

	res, err := Run(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, 9, res.Visited)
	assert.EqualValues(t, 16, res.Steps)
	assert.EqualValues(t, 16, a.Steps())
	assert.Equal(t, 16, c.n)
	assert.Equal(t, garden.Position{}, a.Position())
	assert.Equal(t, 8, g.Count(garden.Visited))
	assert.Equal(t, 1, g.Count(garden.AgentHere))
	assert.Zero(t, g.Count(garden.Open))
}

// TestRun_FromHome starts on the Home cell, which must never be re-entered.
func TestRun_FromHome(t *testing.T) {
	g, _ := garden.New(4, 5)
	_ = g.SetKind(0, 0, garden.Home)
	var homeMarks, entries int
	a := newAgent(t, g, garden.Position{}, mower.WithObserver(func(c garden.Change) {
		if c.Pos == (garden.Position{}) {
			if c.Kind == garden.Home {
				homeMarks++
			}
			if c.Kind == garden.AgentHere {
				entries++
			}
		}
	}))

	res, err := Run(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Visited)
	assert.EqualValues(t, 2*(20-1), res.Steps)
	assert.Equal(t, garden.Position{}, a.Position())
	// home is written when departed and AgentHere only at the very end
	assert.Equal(t, 1, homeMarks)
	assert.Equal(t, 1, entries)
}

// TestRun_EventOrder pins the exact mutation stream on a 1×2 strip.
func TestRun_EventOrder(t *testing.T) {
	g, _ := garden.New(1, 2)
	var got []garden.Change
	a := newAgent(t, g, garden.Position{}, mower.WithObserver(func(c garden.Change) { got = append(got, c) }))

	_, err := Run(context.Background(), a)
	require.NoError(t, err)

	p00, p01 := garden.Position{}, garden.Position{Col: 1}
	want := []garden.Change{
		{Pos: p00, Kind: garden.Visited},
		{Pos: p01, Kind: garden.AgentHere},
		{Pos: p01, Kind: garden.Visited},
		{Pos: p00, Kind: garden.AgentHere},
	}
	assert.Equal(t, want, got)
}

// TestRun_Obstacles uses:
//
//	. . # .
//	# . # .
//	. . # .
//
// The right column is walled off and stays Open.
func TestRun_Obstacles(t *testing.T) {
	O, X := garden.Open, garden.Obstacle
	g, err := garden.FromKinds([][]garden.CellKind{
		{O, O, X, O},
		{X, O, X, O},
		{O, O, X, O},
	})
	require.NoError(t, err)
	a := newAgent(t, g, garden.Position{})

	res, err := Run(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Visited)
	assert.EqualValues(t, 8, res.Steps)
	assert.Equal(t, 3, g.Count(garden.Open))
	assert.Equal(t, 4, g.Count(garden.Obstacle))
}

func TestRun_Isolated(t *testing.T) {
	g, _ := garden.FromKinds([][]garden.CellKind{
		{garden.Open, garden.Obstacle},
		{garden.Obstacle, garden.Open},
	})
	a := newAgent(t, g, garden.Position{})
	res, err := Run(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Visited)
	assert.Zero(t, res.Steps)
	k, _ := g.KindAt(0, 0)
	assert.Equal(t, garden.AgentHere, k)
}

// TestRun_MatchesReachable checks the visit count against a BFS on seeded
// random gardens.
func TestRun_MatchesReachable(t *testing.T) {
	noHome := func(k garden.CellKind) bool { return k != garden.Obstacle && k != garden.Home }
	for seed := int64(1); seed <= 20; seed++ {
		g, _ := garden.New(15, 11)
		_, _, err := garden.Randomize(g, garden.NewRNG(seed), garden.DefaultObstaclePercent)
		require.NoError(t, err)
		reach, err := garden.Reachable(g, garden.Position{}, noHome)
		require.NoError(t, err)

		a := newAgent(t, g, garden.Position{})
		res, err := Run(context.Background(), a)
		require.NoError(t, err)

		assert.Equal(t, len(reach), res.Visited, "seed %d", seed)
		assert.EqualValues(t, 2*(res.Visited-1), a.Steps(), "seed %d", seed)
		assert.Equal(t, garden.Position{}, a.Position(), "seed %d", seed)
		assert.Zero(t, g.Count(garden.WaypointStart)+g.Count(garden.WaypointEnd), "seed %d", seed)
	}
}

func TestKeepWaypoints(t *testing.T) {
	O, S, E := garden.Open, garden.WaypointStart, garden.WaypointEnd
	g, _ := garden.FromKinds([][]garden.CellKind{
		{O, O, S},
		{O, O, E},
	})
	a := newAgent(t, g, garden.Position{})
	res, err := Run(context.Background(), a, WithKeepWaypoints())
	require.NoError(t, err)

	assert.Equal(t, 6, res.Visited, "waypoints are still covered")
	assert.EqualValues(t, 10, a.Steps())
	assert.Equal(t, [][]garden.CellKind{
		{garden.AgentHere, garden.Visited, S},
		{garden.Visited, garden.Visited, E},
	}, g.Kinds())
}

func TestKeepWaypoints_StartOnWaypoint(t *testing.T) {
	O, S := garden.Open, garden.WaypointStart
	g, _ := garden.FromKinds([][]garden.CellKind{{S, O, O}})
	a := newAgent(t, g, garden.Position{})
	res, err := Run(context.Background(), a, WithKeepWaypoints())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Visited)
	assert.Equal(t, [][]garden.CellKind{{S, garden.Visited, garden.Visited}}, g.Kinds())
}

func TestClearWaypoints(t *testing.T) {
	O, X := garden.Open, garden.Obstacle
	g, _ := garden.FromKinds([][]garden.CellKind{
		{O, O, X},
		{O, X, garden.WaypointStart},
	})
	a := newAgent(t, g, garden.Position{})
	_, err := Run(context.Background(), a)
	require.NoError(t, err)
	assert.Zero(t, g.Count(garden.WaypointStart))
	assert.Equal(t, 1, g.Count(garden.Open), "walled-off waypoint becomes lawn")
}

// TestStep_OneMovePerStep drives the walk manually.
func TestStep_OneMovePerStep(t *testing.T) {
	g, _ := garden.New(2, 3)
	a := newAgent(t, g, garden.Position{})
	tr, err := New(a)
	require.NoError(t, err)

	ctx := context.Background()
	steps := 0
	for {
		before := a.Steps()
		done, err := tr.Step(ctx)
		require.NoError(t, err)
		steps++
		if done {
			assert.Equal(t, before, a.Steps(), "final step only marks")
			break
		}
		assert.Equal(t, before+1, a.Steps())
	}
	assert.Equal(t, 2*(6-1)+1, steps)
	assert.True(t, tr.Done())
	assert.Zero(t, tr.Depth())

	_, err = tr.Step(ctx)
	assert.ErrorIs(t, err, ErrFinished)
}

// TestRun_CancelAndResume aborts mid-walk and then finishes with a fresh
// context; totals match an uninterrupted run.
func TestRun_CancelAndResume(t *testing.T) {
	g, _ := garden.New(4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	p := &cancelAfter{n: 7, cancel: cancel}
	a := newAgent(t, g, garden.Position{}, mower.WithPacer(p))

	tr, err := New(a)
	require.NoError(t, err)
	partial, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 7, a.Steps())
	assert.EqualValues(t, 7, partial.Steps)
	assert.False(t, tr.Done())

	res, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16, res.Visited)
	assert.EqualValues(t, 30, a.Steps())
	assert.Equal(t, garden.Position{}, a.Position())
}

func TestRun_Logs(t *testing.T) {
	logs := logging.NewTestLogger()
	g, _ := garden.New(2, 2)
	a := newAgent(t, g, garden.Position{})

	_, err := Run(context.Background(), a, WithLogger(logs.Logger))
	require.NoError(t, err)
	logs.AssertLogged(t, zapcore.InfoLevel, "coverage started")
	finished := logs.FilterMessage("coverage finished").All()
	require.Len(t, finished, 1)
	assert.EqualValues(t, 4, finished[0].ContextMap()["visited"])
}

func TestNew_NilAgent(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilAgent)
	_, err = Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilAgent)
}

// TestRun_LargeGrid walks a 300×300 garden; a recursive walk over a
// serpentine would need one call frame per cell.
func TestRun_LargeGrid(t *testing.T) {
	if testing.Short() {
		t.Skip("large grid")
	}
	g, _ := garden.New(300, 300)
	a := newAgent(t, g, garden.Position{})
	res, err := Run(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 300*300, res.Visited)
	assert.Equal(t, garden.Position{}, a.Position())
}
