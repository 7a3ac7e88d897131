// Package maze fills grids with obstacles.
//
// [Scatter] drops clustered barriers by running short random walks, which
// produces the blob-shaped walls that make A* fronts bend. [Carve] builds a
// perfect maze with a recursive backtracker and places start and end at the
// two ends of its longest corridor, optionally braided with loops.
//
// Both generators take a seed; the same seed on the same grid size produces
// the same layout. A zero seed draws one from the clock.
//
// Generators change barrier cells, so callers must refresh neighbors before
// searching:
//
//	maze.Scatter(g, maze.Options{Seed: 7})
//	g.RefreshNeighbors()
package maze
