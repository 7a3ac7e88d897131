package grid

import "fmt"

// State is the single tag describing what a cell currently is.
type State uint8

const (
	// Empty is a traversable cell that the search has not touched.
	Empty State = iota
	// Barrier blocks traversal and never appears in a neighbor list.
	Barrier
	// Start is the cell the search begins from.
	Start
	// End is the goal cell.
	End
	// Open marks a cell waiting in the frontier.
	Open
	// Closed marks a cell that has been expanded.
	Closed
	// Path marks a cell on the reconstructed route.
	Path
)

var stateNames = [...]string{
	Empty:   "empty",
	Barrier: "barrier",
	Start:   "start",
	End:     "end",
	Open:    "open",
	Closed:  "closed",
	Path:    "path",
}

// String returns the lower-case state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool { return int(s) < len(stateNames) }

// IsSearchMark reports whether s is written by the engine rather than by input.
func (s State) IsSearchMark() bool { return s == Open || s == Closed || s == Path }

// Pos is a (row, col) coordinate on the grid.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the position as "(row,col)".
func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Cell is one addressable unit of the grid.
//
// Cells are created and owned by a [Grid]; the zero value is not attached to
// any grid and must not be passed to grid methods.
type Cell struct {
	pos       Pos
	state     State
	neighbors []Pos
}

// Pos returns the cell coordinates.
func (c *Cell) Pos() Pos { return c.pos }

// Row returns the cell row.
func (c *Cell) Row() int { return c.pos.Row }

// Col returns the cell column.
func (c *Cell) Col() int { return c.pos.Col }

// State returns the current state tag.
func (c *Cell) State() State { return c.state }

// Is reports whether the cell is in state s.
func (c *Cell) Is(s State) bool { return c.state == s }

// IsBarrier reports whether the cell blocks traversal.
func (c *Cell) IsBarrier() bool { return c.state == Barrier }

// Neighbors returns the positions of adjacent traversable cells as of the
// last [Grid.RefreshNeighbors]. The returned slice must not be modified.
func (c *Cell) Neighbors() []Pos { return c.neighbors }

// String formats the cell as "(row,col):state".
func (c *Cell) String() string { return c.pos.String() + ":" + c.state.String() }
