package garden

import (
	"fmt"
)

// Grid is a rectangular matrix of CellKind values.
// Cells are stored row-major; the dimensions never change after construction.
type Grid struct {
	rows, cols int
	cells      []CellKind
}

// New returns a rows×cols grid with every cell Open.
// Returns ErrEmptyGrid if rows < 1 or cols < 1.
// Complexity: O(R×C).
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrEmptyGrid
	}
	return &Grid{rows: rows, cols: cols, cells: make([]CellKind, rows*cols)}, nil
}

// FromKinds builds a Grid from a non-empty, rectangular 2D slice.
// The input is deep-copied.
// Returns ErrEmptyGrid if kinds has no rows or no columns,
// ErrNonRectangular if any row length differs.
// Complexity: O(R×C).
func FromKinds(kinds [][]CellKind) (*Grid, error) {
	if len(kinds) == 0 || len(kinds[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(kinds), len(kinds[0])
	for _, row := range kinds {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	g := &Grid{rows: h, cols: w, cells: make([]CellKind, 0, h*w)}
	for _, row := range kinds {
		g.cells = append(g.cells, row...)
	}

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row,col) lies within the grid.
// Complexity: O(1).
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// KindAt returns the kind stored at (row,col).
// Fails with ErrOutOfBounds when either index is outside the grid.
func (g *Grid) KindAt(row, col int) (CellKind, error) {
	if !g.InBounds(row, col) {
		return Open, g.boundsErr(row, col)
	}
	return g.cells[g.index(row, col)], nil
}

// SetKind overwrites the kind at (row,col). Only bounds are checked;
// callers own invariants such as Home uniqueness.
func (g *Grid) SetKind(row, col int, kind CellKind) error {
	if !g.InBounds(row, col) {
		return g.boundsErr(row, col)
	}
	g.cells[g.index(row, col)] = kind

	return nil
}

// Find returns the first cell of the given kind in row-major order.
func (g *Grid) Find(kind CellKind) (Position, bool) {
	for i, k := range g.cells {
		if k == kind {
			return g.position(i), true
		}
	}
	return Position{}, false
}

// Count returns how many cells hold kind.
func (g *Grid) Count(kind CellKind) int {
	n := 0
	for _, k := range g.cells {
		if k == kind {
			n++
		}
	}
	return n
}

// Reset turns Visited and AgentHere cells back into Open lawn,
// leaving obstacles, Home and waypoints untouched.
func (g *Grid) Reset() {
	for i, k := range g.cells {
		if k == Visited || k == AgentHere {
			g.cells[i] = Open
		}
	}
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]CellKind, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Kinds returns a freshly allocated 2D copy of the grid.
func (g *Grid) Kinds() [][]CellKind {
	out := make([][]CellKind, g.rows)
	for r := range out {
		out[r] = make([]CellKind, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// index maps (row,col) to the row-major offset.
func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g *Grid) position(idx int) Position {
	return Position{Row: idx / g.cols, Col: idx % g.cols}
}

func (g *Grid) boundsErr(row, col int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, g.rows, g.cols)
}
