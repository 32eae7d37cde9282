// Package coverage cuts every lawn cell reachable from the mower's start
// and brings the mower back to where it began.
//
// What:
//
//   - Traversal: an explicit-stack depth-first walk. Each frame remembers
//     its cell, the direction used to enter it and the next direction to try,
//     so the walk can be stepped one move at a time and resumed after a
//     cancelled move.
//   - Neighbours are tried in the fixed order Up, Down, Left, Right.
//   - A neighbour is entered when it is on the grid, not an Obstacle, not
//     Home, and not already Visited.
//
// Marking:
//
//   - Leaving a cell forward marks it Visited (Home stays Home); the entered
//     cell becomes AgentHere.
//   - Backing out marks the exhausted cell Visited and the parent AgentHere.
//   - When the root is exhausted it is marked AgentHere and the walk ends.
//   - Waypoints are reset to Open before the walk. With WithKeepWaypoints
//     they are entered once like lawn but re-marked with their own kind
//     instead of Visited whenever the mower leaves them.
//
// Complexity:
//
//   - Time O(R×C): every reachable cell is entered once and left once,
//     so Steps == 2×(Visited−1).
//   - Memory O(depth) for the frame stack.
//
// Errors:
//
//   - ErrNilAgent      agent pointer is nil
//   - ErrFinished      Step called after completion
//   - context errors   propagated from the pacer between moves
package coverage
