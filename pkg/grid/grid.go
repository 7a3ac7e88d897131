package grid

import (
	"fmt"
	"iter"
)

// DefaultRows is the grid size used when none is configured.
const DefaultRows = 40

// DefaultDimension is the default drawing extent, in pixels, that the cells
// are sized to fit.
const DefaultDimension = 700

// Neighbor offsets in expansion order: down, up, right, left. The order feeds
// the engine's insertion sequence, so changing it changes tie-breaking.
var offsets = [4]Pos{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Grid is an N×N container of cells.
//
// The zero value is not usable; create grids with [New].
type Grid struct {
	rows      int
	dimension int
	cells     [][]*Cell

	// revision counts barrier edits; refreshed is the revision the cached
	// neighbor lists were computed at (-1 before the first refresh).
	revision  uint64
	refreshed int64
}

// New allocates a rows×rows grid of Empty cells sized to fit dimension.
// It panics if rows is not positive.
func New(rows, dimension int) *Grid {
	if rows <= 0 {
		panic(fmt.Sprintf("grid: rows must be positive, got %d", rows))
	}
	g := &Grid{rows: rows, dimension: dimension}
	g.build()
	return g
}

func (g *Grid) build() {
	g.cells = make([][]*Cell, g.rows)
	for r := range g.rows {
		row := make([]*Cell, g.rows)
		for c := range g.rows {
			row[c] = &Cell{pos: Pos{Row: r, Col: c}}
		}
		g.cells[r] = row
	}
	g.revision = 0
	g.refreshed = -1
}

// Reset discards every cell and rebuilds a fresh grid of Empty cells with the
// same size. Cells obtained before the reset no longer belong to the grid.
func (g *Grid) Reset() { g.build() }

// Rows returns N, the number of rows (and columns).
func (g *Grid) Rows() int { return g.rows }

// Dimension returns the drawing extent the grid was sized for.
func (g *Grid) Dimension() int { return g.dimension }

// CellSize returns the edge length of one cell: dimension / rows.
func (g *Grid) CellSize() int { return g.dimension / g.rows }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.rows
}

// CellAt returns the cell at (row, col). Out-of-range coordinates are a
// programming error and cause a panic.
func (g *Grid) CellAt(row, col int) *Cell {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("grid: cell (%d,%d) out of range for %d×%d grid", row, col, g.rows, g.rows))
	}
	return g.cells[row][col]
}

// At is CellAt for a Pos.
func (g *Grid) At(p Pos) *Cell { return g.CellAt(p.Row, p.Col) }

// Owns reports whether c is a live cell of this grid.
func (g *Grid) Owns(c *Cell) bool {
	if c == nil || !g.InBounds(c.pos.Row, c.pos.Col) {
		return false
	}
	return g.cells[c.pos.Row][c.pos.Col] == c
}

// Cells yields every cell in row-major order.
func (g *Grid) Cells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for _, row := range g.cells {
			for _, c := range row {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// SetState changes the state of c. Callers enforce that at most one cell is
// Start and at most one is End. Switching a cell into or out of Barrier marks
// the cached adjacency stale until the next [Grid.RefreshNeighbors].
//
// SetState panics if c does not belong to g or s is not a defined state.
func (g *Grid) SetState(c *Cell, s State) {
	if !g.Owns(c) {
		panic(fmt.Sprintf("grid: cell %v does not belong to this grid", c))
	}
	if !s.Valid() {
		panic(fmt.Sprintf("grid: invalid state %d", s))
	}
	if (c.state == Barrier) != (s == Barrier) {
		g.revision++
	}
	c.state = s
}

// RefreshNeighbors recomputes every cell's adjacency: the in-bounds up, down,
// left and right cells that are not barriers. Barrier cells get the same
// treatment; the engine never reaches them because no list contains them.
func (g *Grid) RefreshNeighbors() {
	for _, row := range g.cells {
		for _, c := range row {
			c.neighbors = make([]Pos, 0, len(offsets))
			for _, d := range offsets {
				r, col := c.pos.Row+d.Row, c.pos.Col+d.Col
				if !g.InBounds(r, col) || g.cells[r][col].state == Barrier {
					continue
				}
				c.neighbors = append(c.neighbors, Pos{Row: r, Col: col})
			}
		}
	}
	g.refreshed = int64(g.revision)
}

// Stale reports whether a barrier edit happened after the last
// RefreshNeighbors, or whether neighbors were never computed.
func (g *Grid) Stale() bool { return g.refreshed != int64(g.revision) }

// Neighbors resolves the cached neighbor positions of c to cells.
func (g *Grid) Neighbors(c *Cell) []*Cell {
	out := make([]*Cell, len(c.neighbors))
	for i, p := range c.neighbors {
		out[i] = g.cells[p.Row][p.Col]
	}
	return out
}

// Start returns the first cell in row-major order whose state is Start.
func (g *Grid) Start() (*Cell, bool) { return g.find(Start) }

// End returns the first cell in row-major order whose state is End.
func (g *Grid) End() (*Cell, bool) { return g.find(End) }

func (g *Grid) find(s State) (*Cell, bool) {
	for c := range g.Cells() {
		if c.state == s {
			return c, true
		}
	}
	return nil, false
}

// Count returns how many cells are in state s.
func (g *Grid) Count(s State) int {
	n := 0
	for c := range g.Cells() {
		if c.state == s {
			n++
		}
	}
	return n
}

// ClearSearch returns every Open, Closed and Path cell to Empty so the layout
// can be searched again. Barriers, start and end are kept.
func (g *Grid) ClearSearch() {
	for c := range g.Cells() {
		if c.state.IsSearchMark() {
			c.state = Empty
		}
	}
}

// Snapshot copies the cell states in row-major order.
func (g *Grid) Snapshot() []State {
	out := make([]State, 0, g.rows*g.rows)
	for c := range g.Cells() {
		out = append(out, c.state)
	}
	return out
}
