// File: seek/example_test.go
package seek_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/mower"
	"github.com/katalvlaran/lawnmower/seek"
)

// ExampleSeek steers around a single obstacle.
//
// Grid (S start, T target):
//
//	S # . . T
//	. . . . .
func ExampleSeek() {
	g, _ := garden.New(2, 5)
	_ = g.SetKind(0, 1, garden.Obstacle)
	a, _ := mower.New(g, garden.Position{Row: 0, Col: 0})

	res, _ := seek.Seek(context.Background(), a, garden.Position{Row: 0, Col: 4})
	fmt.Println(res.State, res.Steps(), res.Moves)

	// Output:
	// reached 6 [down right right up right right]
}
