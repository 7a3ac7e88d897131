package astar

import "github.com/matzehuels/astargrid/pkg/grid"

// Heuristic estimates the remaining cost from a to b. For the engine's
// optimality guarantee it must be admissible and consistent on a 4-connected
// unit-cost grid.
type Heuristic func(a, b grid.Pos) int

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
func Manhattan(a, b grid.Pos) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Zero always returns 0, turning the search into uniform-cost search.
func Zero(_, _ grid.Pos) int { return 0 }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
