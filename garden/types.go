package garden

import (
	"errors"
	"fmt"
)

// Sentinel errors for garden operations.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("garden: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("garden: all rows must have the same length")
	// ErrOutOfBounds indicates a cell access outside the grid.
	ErrOutOfBounds = errors.New("garden: position out of bounds")
	// ErrInvalidPercent indicates an obstacle percentage outside [0,100].
	ErrInvalidPercent = errors.New("garden: obstacle percentage must be within [0,100]")
)

// CellKind tags what occupies a grid cell.
// The numeric values are persisted by the snapshot format; do not reorder.
type CellKind uint8

const (
	// Open is uncut, unvisited lawn.
	Open CellKind = iota
	// Visited is lawn the mower has already traversed.
	Visited
	// Obstacle can never be entered.
	Obstacle
	// Home is the mower's base. It cannot be re-entered during a run.
	Home
	// AgentHere marks the mower's current cell. Display only.
	AgentHere
	// WaypointStart is the optional seek origin placed by the editor.
	WaypointStart
	// WaypointEnd is the optional seek target placed by the editor.
	WaypointEnd

	kindCount
)

var kindNames = [kindCount]string{"open", "visited", "obstacle", "home", "mower", "start", "end"}

// layout alphabet, indexed by CellKind
var kindRunes = [kindCount]rune{'.', '*', '#', 'H', 'M', 'A', 'B'}

// String returns the lower-case name of k.
func (k CellKind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k CellKind) Valid() bool { return k < kindCount }

// Rune returns the layout character for k, or '?' for an unknown kind.
func (k CellKind) Rune() rune {
	if k >= kindCount {
		return '?'
	}
	return kindRunes[k]
}

// ParseRune maps a layout character back to its CellKind.
func ParseRune(r rune) (CellKind, bool) {
	for k, kr := range kindRunes {
		if kr == r {
			return CellKind(k), true
		}
	}
	return Open, false
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Step returns p shifted by (dr, dc).
func (p Position) Step(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
func Manhattan(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Query is the read side of a grid.
type Query interface {
	Rows() int
	Cols() int
	KindAt(row, col int) (CellKind, error)
}

// Mutator adds single-cell writes to Query.
type Mutator interface {
	Query
	SetKind(row, col int, kind CellKind) error
}

// Change is one cell mutation, in the order it happened.
type Change struct {
	Pos  Position
	Kind CellKind
}

// Observer receives every Change emitted by the engine.
type Observer func(Change)
