// Package garden models the rectangular world a mower moves through:
// a matrix of typed cells plus the small set of helpers the engine and
// the surrounding tooling need.
//
// What:
//
//   - Grid stores rows×cols CellKind values in row-major order.
//   - Query / Mutator describe the capability the engine consumes;
//     the engine never allocates or resizes a grid.
//   - Change / Observer carry the ordered stream of cell mutations.
//   - Reachable runs a 4-neighbour BFS from a cell.
//   - Randomize fills a grid with obstacles and waypoints from a seeded RNG.
//
// Why:
//
//   - Keep storage inert: no invariant beyond bounds is enforced here,
//     so the editor side (scenario, snapshot, Randomize) owns the
//     single-Home / single-waypoint rules.
//
// Complexity:
//
//   - KindAt, SetKind, InBounds: O(1).
//   - Find, Count, Reset, Clone: O(R×C).
//   - Reachable:                  O(R×C) time and memory.
//
// Errors:
//
//   - ErrEmptyGrid: rows or cols below 1.
//   - ErrNonRectangular: rows of differing lengths.
//   - ErrOutOfBounds: access outside [0,rows)×[0,cols).
//   - ErrInvalidPercent: obstacle percentage outside [0,100].
package garden
