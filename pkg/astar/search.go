package astar

import (
	"context"
	"fmt"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// StepFunc is the visualization hook. The engine calls it synchronously after
// each expansion and after each path cell is marked; it never runs
// concurrently with itself or with grid mutation.
type StepFunc func()

// Status is the state of one search run.
type Status int

const (
	// Running means the run has not reached a terminal state. A result only
	// carries it when SearchContext was abandoned through its context.
	Running Status = iota
	// Succeeded means the end cell was reached and the path reconstructed.
	Succeeded
	// Failed means the frontier emptied without reaching the end cell.
	Failed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of one run.
type Result struct {
	Status Status

	// Path lists the route from start to end inclusive; nil unless Succeeded.
	Path []grid.Pos

	// Cost is the number of moves on Path.
	Cost int

	// Expanded lists cells in the order they were popped from the frontier.
	Expanded []grid.Pos

	// CameFrom maps each discovered cell to its best known predecessor.
	CameFrom map[grid.Pos]grid.Pos

	// Steps counts StepFunc invocations.
	Steps int
}

// Found reports whether the run succeeded.
func (r Result) Found() bool { return r.Status == Succeeded }

type options struct {
	heuristic Heuristic
}

// Option configures a search.
type Option func(*options)

// WithHeuristic replaces the default Manhattan heuristic. The replacement must
// be admissible and consistent or paths are no longer guaranteed shortest.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		if h != nil {
			o.heuristic = h
		}
	}
}

// Search runs A* from start to end on g. The grid's neighbors must have been
// refreshed after the last barrier edit. onStep may be nil.
func Search(g *grid.Grid, start, end *grid.Cell, onStep StepFunc, opts ...Option) Result {
	res, _ := SearchContext(context.Background(), g, start, end, onStep, opts...)
	return res
}

// SearchContext is Search with cancellation: ctx is checked before every
// expansion. When ctx ends first the partial result has Status Running and the
// context error is returned; cell states keep the trace made so far.
func SearchContext(ctx context.Context, g *grid.Grid, start, end *grid.Cell, onStep StepFunc, opts ...Option) (Result, error) {
	mustSearchable(g, start, end)

	o := options{heuristic: Manhattan}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{Status: Running}
	step := func() {
		res.Steps++
		if onStep != nil {
			onStep()
		}
	}

	origin, goal := start.Pos(), end.Pos()
	gScore := map[grid.Pos]int{origin: 0}
	fScore := map[grid.Pos]int{origin: o.heuristic(origin, goal)}
	cameFrom := make(map[grid.Pos]grid.Pos)
	res.CameFrom = cameFrom

	open := newFrontier()
	open.Push(origin, fScore[origin])

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cur := open.Pop()
		current := g.At(cur)
		res.Expanded = append(res.Expanded, cur)

		if current == end {
			g.SetState(end, grid.End)
			g.SetState(start, grid.Start)
			res.Path = Reconstruct(g, cameFrom, end, start, step)
			res.Cost = gScore[cur]
			res.Status = Succeeded
			return res, nil
		}

		for _, nb := range current.Neighbors() {
			tentative := gScore[cur] + 1
			if known, ok := gScore[nb]; ok && tentative >= known {
				continue
			}
			cameFrom[nb] = cur
			gScore[nb] = tentative
			fScore[nb] = tentative + o.heuristic(nb, goal)

			// A queued cell keeps the score it was pushed with.
			if open.Contains(nb) {
				continue
			}
			open.Push(nb, fScore[nb])
			if cell := g.At(nb); cell != start {
				g.SetState(cell, grid.Open)
			}
		}

		step()

		if current != start {
			g.SetState(current, grid.Closed)
		}
	}

	res.Status = Failed
	return res, nil
}

func mustSearchable(g *grid.Grid, start, end *grid.Cell) {
	switch {
	case g == nil:
		panic("astar: nil grid")
	case start == nil || end == nil:
		panic("astar: start and end cells are required")
	case !g.Owns(start) || !g.Owns(end):
		panic("astar: start and end must belong to the grid")
	case start == end:
		panic("astar: start and end must differ")
	case start.IsBarrier() || end.IsBarrier():
		panic("astar: start and end must not be barriers")
	case g.Stale():
		panic("astar: grid neighbors are stale; call RefreshNeighbors before searching")
	}
}
