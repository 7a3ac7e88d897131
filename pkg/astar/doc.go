// Package astar implements A* shortest-path search over a [grid.Grid].
//
// It exposes two entry points:
//
//   - [Search]: run one search to completion and get a [Result].
//   - [SearchContext]: the same loop, checking a context between expansions
//     so a caller can abandon a long run.
//
// Movement is 4-connected with unit step cost. The frontier is ordered by
// (f-score, insertion sequence): among equal f-scores the earlier-inserted
// cell is expanded first, which makes runs reproducible.
//
// The engine writes its progress into the grid as a visible trace (Open,
// Closed, Path) and calls an optional [StepFunc] at fixed checkpoints: once
// after every expansion and once per reconstructed path cell. The callback is
// synchronous and must not mutate the grid.
//
// A run that finds no route returns [Failed]; that is an ordinary outcome.
// Misuse (nil or foreign cells, start == end, adjacency not refreshed since the
// last barrier edit) panics.
package astar
