package mower

import "fmt"

// Direction is one orthogonal step. The declaration order is the canonical
// tie-break priority: Up < Down < Left < Right.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every Direction in priority order.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionDeltas = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the (row, col) offset of one step in d.
func (d Direction) Delta() (dr, dc int) {
	return directionDeltas[d&3][0], directionDeltas[d&3][1]
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}
