package render

import (
	"strings"

	"github.com/matzehuels/astargrid/pkg/grid"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
)

// Text renders the board as layout glyphs, one line per row.
func Text(states []grid.State, rows int) []byte {
	var b strings.Builder
	b.Grow(rows * (rows + 1))
	for i, s := range states {
		b.WriteByte(pkgio.Glyph(s))
		if i%rows == rows-1 {
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}
