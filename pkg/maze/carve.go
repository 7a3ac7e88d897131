package maze

import (
	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
)

// MinCarveRows is the smallest grid Carve accepts.
const MinCarveRows = 3

// CarveOptions tunes Carve.
type CarveOptions struct {
	// Braid is the chance, from 0 to 1, that a wall separating two corridors
	// is knocked out. 0 keeps the maze perfect (exactly one route).
	Braid float64
	// Seed drives the carving; 0 picks one from the clock.
	Seed int64
}

// Carve overwrites every cell of g with a maze. Corridors run through the
// even-indexed rows and columns. Start is placed at (0,0) and End at the
// corridor cell farthest from it, so the route is the maze's longest one.
func Carve(g *grid.Grid, opts CarveOptions) (start, end grid.Pos, err error) {
	n := g.Rows()
	if n < MinCarveRows {
		return start, end, errors.New(errors.ErrCodeInvalidSize, "maze needs at least %d rows, got %d", MinCarveRows, n)
	}
	rng := newRand(opts.Seed)

	for c := range g.Cells() {
		g.SetState(c, grid.Barrier)
	}

	open := func(p grid.Pos) { g.SetState(g.At(p), grid.Empty) }
	walled := func(p grid.Pos) bool { return g.InBounds(p.Row, p.Col) && g.At(p).IsBarrier() }

	// Recursive backtracker over the corridor lattice.
	origin := grid.Pos{}
	open(origin)
	stack := []grid.Pos{origin}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		candidates := make([]grid.Pos, 0, 4)
		for _, d := range walk {
			next := grid.Pos{Row: cur.Row + 2*d.Row, Col: cur.Col + 2*d.Col}
			if walled(next) {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.Intn(len(candidates))]
		open(grid.Pos{Row: cur.Row + d.Row, Col: cur.Col + d.Col})
		next := grid.Pos{Row: cur.Row + 2*d.Row, Col: cur.Col + 2*d.Col}
		open(next)
		stack = append(stack, next)
	}

	if opts.Braid > 0 {
		braid(g, opts.Braid, rng.Float64)
	}

	end = farthest(g, origin)
	g.SetState(g.At(origin), grid.Start)
	g.SetState(g.At(end), grid.End)
	return origin, end, nil
}

// braid opens walls that sit between two corridor cells on opposite sides.
func braid(g *grid.Grid, p float64, roll func() float64) {
	n := g.Rows()
	isOpen := func(r, c int) bool { return g.InBounds(r, c) && !g.CellAt(r, c).IsBarrier() }
	for r := range n {
		for c := range n {
			cell := g.CellAt(r, c)
			if !cell.IsBarrier() || (r%2 == 1 && c%2 == 1) {
				continue
			}
			between := (isOpen(r-1, c) && isOpen(r+1, c)) || (isOpen(r, c-1) && isOpen(r, c+1))
			if between && roll() < p {
				g.SetState(cell, grid.Empty)
			}
		}
	}
}

// farthest runs a breadth-first walk from origin over non-barrier cells and
// returns the last cell reached.
func farthest(g *grid.Grid, origin grid.Pos) grid.Pos {
	seen := map[grid.Pos]bool{origin: true}
	queue := []grid.Pos{origin}
	last := origin
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		last = cur
		for _, d := range walk {
			next := grid.Pos{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBounds(next.Row, next.Col) || seen[next] || g.At(next).IsBarrier() {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return last
}
