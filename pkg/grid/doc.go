// Package grid provides the square cell grid that the A* engine searches.
//
// # Overview
//
// A [Grid] owns an N×N array of [Cell] values. Every cell carries its
// coordinates, a single [State] tag and a cached list of traversable
// neighbors. States are mutually exclusive: a cell is exactly one of
// [Empty], [Barrier], [Start], [End], [Open], [Closed] or [Path].
//
// # Adjacency
//
// Movement is 4-connected (up, down, left, right) with unit cost. Neighbor
// lists are derived from the barrier layout by [Grid.RefreshNeighbors] and are
// held as positions, never as owning references: the grid owns every cell.
//
// The grid tracks a topology revision that is bumped whenever a cell becomes
// or stops being a [Barrier]. [Grid.Stale] reports whether the cached
// adjacency predates the latest barrier edit; the search engine refuses to run
// on a stale grid.
//
//	g := grid.New(40, 700)
//	g.SetState(g.CellAt(0, 0), grid.Start)
//	g.SetState(g.CellAt(39, 39), grid.End)
//	g.SetState(g.CellAt(5, 5), grid.Barrier)
//	g.RefreshNeighbors()
//
// # Concurrency
//
// A Grid is not safe for concurrent use. At most one search may run on a grid
// at a time, and readers must not observe it while a search mutates states;
// use [Grid.Snapshot] to hand a copy to another goroutine.
package grid
