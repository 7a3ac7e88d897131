package astar

import (
	"fmt"
	"slices"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// Reconstruct walks cameFrom from end back to start, marking every cell in
// between as Path and calling onStep once per marked cell. End keeps its End
// state and start is restored to Start. It returns the route from start to
// end inclusive.
//
// A missing predecessor means cameFrom was not produced by a successful run
// and causes a panic.
func Reconstruct(g *grid.Grid, cameFrom map[grid.Pos]grid.Pos, end, start *grid.Cell, onStep StepFunc) []grid.Pos {
	origin := start.Pos()
	cur := end.Pos()
	route := []grid.Pos{cur}

	for cur != origin {
		prev, ok := cameFrom[cur]
		if !ok {
			panic(fmt.Sprintf("astar: no predecessor recorded for %v", cur))
		}
		cur = prev
		route = append(route, cur)
		if cur == origin {
			break
		}
		g.SetState(g.At(cur), grid.Path)
		if onStep != nil {
			onStep()
		}
	}

	g.SetState(start, grid.Start)
	slices.Reverse(route)
	return route
}
