package garden

import "math/rand"

// DefaultObstaclePercent is the share of cells Randomize turns into obstacles
// when the caller has no preference.
const DefaultObstaclePercent = 20

// defaultSeed is used when callers pass seed==0.
const defaultSeed int64 = 1

// NewRNG returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultSeed; otherwise the seed is used verbatim.
// The result is not safe for concurrent use.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// Randomize lays out a fresh garden on g:
//  1. (0,0) becomes Home.
//  2. Every other cell becomes Obstacle with probability percent/100, else Open.
//  3. WaypointStart and WaypointEnd land on two distinct random cells other
//     than (0,0), overwriting whatever was there.
//
// A nil rng uses NewRNG(0). Grids with fewer than three cells get no waypoints
// and zero positions are returned.
func Randomize(g Mutator, rng *rand.Rand, percent int) (start, end Position, err error) {
	if percent < 0 || percent > 100 {
		return Position{}, Position{}, ErrInvalidPercent
	}
	if rng == nil {
		rng = NewRNG(0)
	}
	rows, cols := g.Rows(), g.Cols()

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			kind := Open
			if r == 0 && c == 0 {
				kind = Home
			} else if rng.Intn(100) < percent {
				kind = Obstacle
			}
			if err = g.SetKind(r, c, kind); err != nil {
				return Position{}, Position{}, err
			}
		}
	}
	if rows*cols < 3 {
		return Position{}, Position{}, nil
	}

	home := Position{}
	pick := func(avoid Position) Position {
		for {
			p := Position{Row: rng.Intn(rows), Col: rng.Intn(cols)}
			if p != home && p != avoid {
				return p
			}
		}
	}
	start = pick(home)
	end = pick(start)
	if err = g.SetKind(start.Row, start.Col, WaypointStart); err != nil {
		return Position{}, Position{}, err
	}
	if err = g.SetKind(end.Row, end.Col, WaypointEnd); err != nil {
		return Position{}, Position{}, err
	}

	return start, end, nil
}
