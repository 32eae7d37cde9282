package garden

// neighborOffsets lists 4-connectivity offsets as (dRow, dCol).
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Reachable returns every cell connected to from through cells accepted by
// passable, in BFS discovery order. from itself is always included, whatever
// its kind. A nil passable accepts everything except Obstacle.
//
// Time:   O(R×C).
// Memory: O(R×C) for seen flags and the queue.
func Reachable(q Query, from Position, passable func(CellKind) bool) ([]Position, error) {
	rows, cols := q.Rows(), q.Cols()
	if _, err := q.KindAt(from.Row, from.Col); err != nil {
		return nil, err
	}
	if passable == nil {
		passable = func(k CellKind) bool { return k != Obstacle }
	}

	seen := make([]bool, rows*cols)
	seen[from.Row*cols+from.Col] = true
	queue := []Position{from}

	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, d := range neighborOffsets {
			v := u.Step(d[0], d[1])
			if v.Row < 0 || v.Row >= rows || v.Col < 0 || v.Col >= cols {
				continue
			}
			vi := v.Row*cols + v.Col
			if seen[vi] {
				continue
			}
			k, err := q.KindAt(v.Row, v.Col)
			if err != nil {
				return nil, err
			}
			if !passable(k) {
				continue
			}
			seen[vi] = true
			queue = append(queue, v)
		}
	}

	return queue, nil
}
