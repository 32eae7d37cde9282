// File: garden/grid_test.go
package garden

import (
	"errors"
	"reflect"
	"testing"
)

// TestNew_Invalid ensures degenerate dimensions are rejected.
func TestNew_Invalid(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, -1}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrEmptyGrid) {
			t.Errorf("New(%d,%d): got %v; want ErrEmptyGrid", dims[0], dims[1], err)
		}
	}
}

// TestFromKinds_InvalidRects ensures FromKinds rejects bad inputs.
func TestFromKinds_InvalidRects(t *testing.T) {
	if _, err := FromKinds(nil); err != ErrEmptyGrid {
		t.Errorf("nil grid: got %v; want ErrEmptyGrid", err)
	}
	if _, err := FromKinds([][]CellKind{{}}); err != ErrEmptyGrid {
		t.Errorf("empty row: got %v; want ErrEmptyGrid", err)
	}
	if _, err := FromKinds([][]CellKind{{Open}, {}}); err != ErrNonRectangular {
		t.Errorf("jagged grid: got %v; want ErrNonRectangular", err)
	}
}

// TestFromKinds_DeepCopy checks later edits of the input do not leak in.
func TestFromKinds_DeepCopy(t *testing.T) {
	in := [][]CellKind{{Open, Obstacle}, {Home, Open}}
	g, err := FromKinds(in)
	if err != nil {
		t.Fatalf("FromKinds failed: %v", err)
	}
	in[0][0] = Obstacle
	if k, _ := g.KindAt(0, 0); k != Open {
		t.Errorf("KindAt(0,0) = %v; want open", k)
	}
	if !reflect.DeepEqual(g.Kinds(), [][]CellKind{{Open, Obstacle}, {Home, Open}}) {
		t.Errorf("Kinds() = %v", g.Kinds())
	}
}

// TestKindAt_Bounds covers both edges of each axis.
func TestKindAt_Bounds(t *testing.T) {
	g, _ := New(3, 4)
	cases := []struct{ r, c int }{{-1, 0}, {3, 0}, {0, -1}, {0, 4}}
	for _, tc := range cases {
		if _, err := g.KindAt(tc.r, tc.c); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("KindAt(%d,%d): got %v; want ErrOutOfBounds", tc.r, tc.c, err)
		}
		if err := g.SetKind(tc.r, tc.c, Obstacle); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetKind(%d,%d): got %v; want ErrOutOfBounds", tc.r, tc.c, err)
		}
	}
	if g.Count(Obstacle) != 0 {
		t.Errorf("rejected writes must not mutate the grid")
	}
	if _, err := g.KindAt(2, 3); err != nil {
		t.Errorf("KindAt(2,3): unexpected error %v", err)
	}
}

// TestSetKind_NoInvariants shows the grid accepts two Home cells.
func TestSetKind_NoInvariants(t *testing.T) {
	g, _ := New(2, 2)
	_ = g.SetKind(0, 0, Home)
	_ = g.SetKind(1, 1, Home)
	if n := g.Count(Home); n != 2 {
		t.Errorf("Count(Home) = %d; want 2", n)
	}
	p, ok := g.Find(Home)
	if !ok || p != (Position{0, 0}) {
		t.Errorf("Find(Home) = %v,%v; want (0,0),true", p, ok)
	}
}

// TestReset restores lawn but keeps the editor's markers.
func TestReset(t *testing.T) {
	g, _ := FromKinds([][]CellKind{
		{Home, Visited, Obstacle},
		{AgentHere, WaypointStart, WaypointEnd},
	})
	g.Reset()
	want := [][]CellKind{
		{Home, Open, Obstacle},
		{Open, WaypointStart, WaypointEnd},
	}
	if got := g.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("after Reset = %v; want %v", got, want)
	}
}

// TestClone_Independent mutates a clone and checks the source.
func TestClone_Independent(t *testing.T) {
	g, _ := New(2, 2)
	c := g.Clone()
	_ = c.SetKind(1, 1, Obstacle)
	if k, _ := g.KindAt(1, 1); k != Open {
		t.Errorf("source mutated through clone: %v", k)
	}
}

func TestParseRune_RoundTrip(t *testing.T) {
	for k := Open; k < kindCount; k++ {
		got, ok := ParseRune(k.Rune())
		if !ok || got != k {
			t.Errorf("ParseRune(%q) = %v,%v; want %v", k.Rune(), got, ok, k)
		}
	}
	if _, ok := ParseRune('x'); ok {
		t.Errorf("ParseRune('x') should fail")
	}
	if CellKind(42).Valid() || CellKind(42).Rune() != '?' {
		t.Errorf("unknown kind handling broken")
	}
}

func TestManhattan(t *testing.T) {
	if d := Manhattan(Position{0, 0}, Position{3, -4}); d != 7 {
		t.Errorf("Manhattan = %d; want 7", d)
	}
}
