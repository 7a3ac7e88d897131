package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// cellGlyphs keeps states distinguishable when the terminal has no color.
var cellGlyphs = map[grid.State]string{
	grid.Empty:   "  ",
	grid.Barrier: "██",
	grid.Start:   "S ",
	grid.End:     "E ",
	grid.Open:    "o ",
	grid.Closed:  "x ",
	grid.Path:    "**",
}

// TermStyles holds one lipgloss style per state.
type TermStyles struct {
	cells  map[grid.State]lipgloss.Style
	cursor lipgloss.Style
}

// NewTermStyles builds terminal styles from p.
func NewTermStyles(p Palette) TermStyles {
	ts := TermStyles{cells: make(map[grid.State]lipgloss.Style, len(cellGlyphs))}
	for s := range cellGlyphs {
		bg := p.Color(s)
		fg := lipgloss.Color("#000000")
		if s == grid.Barrier || s == grid.Path {
			fg = lipgloss.Color(Hex(bg))
		}
		ts.cells[s] = lipgloss.NewStyle().
			Background(lipgloss.Color(Hex(bg))).
			Foreground(fg)
	}
	ts.cursor = lipgloss.NewStyle().Reverse(true)
	return ts
}

// Terminal renders the board as rows of two-column cells. When cursor is
// non-nil that cell is drawn as "[]" in reverse video.
func Terminal(states []grid.State, rows int, ts TermStyles, cursor *grid.Pos) string {
	var b strings.Builder
	for r := range rows {
		for c := range rows {
			s := states[r*rows+c]
			if cursor != nil && cursor.Row == r && cursor.Col == c {
				b.WriteString(ts.cursor.Render(ts.cells[s].Render("[]")))
				continue
			}
			b.WriteString(ts.cells[s].Render(cellGlyphs[s]))
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
