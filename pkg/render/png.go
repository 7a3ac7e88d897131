package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// DefaultCellPx is the cell edge length used when none is configured.
const DefaultCellPx = 16

// MaxImagePx bounds the edge length of a rendered image.
const MaxImagePx = 8192

// Image draws the board: filled cells, then grey lines along every row and
// column boundary.
func Image(states []grid.State, rows, cellPx int, p Palette) (image.Image, error) {
	dc, err := draw(states, rows, cellPx, p)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// PNG encodes the board drawn by Image.
func PNG(states []grid.State, rows, cellPx int, p Palette) ([]byte, error) {
	dc, err := draw(states, rows, cellPx, p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func draw(states []grid.State, rows, cellPx int, p Palette) (*gg.Context, error) {
	if rows <= 0 || len(states) != rows*rows {
		return nil, fmt.Errorf("render: %d states do not form a %d×%d board", len(states), rows, rows)
	}
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}
	size := rows * cellPx
	dc := gg.NewContext(size, size)
	dc.SetColor(p.Empty)
	dc.Clear()

	for i, s := range states {
		if s == grid.Empty {
			continue
		}
		r, c := i/rows, i%rows
		dc.SetColor(p.Color(s))
		dc.DrawRectangle(float64(c*cellPx), float64(r*cellPx), float64(cellPx), float64(cellPx))
		dc.Fill()
	}

	dc.SetColor(p.Lines)
	dc.SetLineWidth(1)
	for i := 0; i <= rows; i++ {
		at := float64(i * cellPx)
		dc.DrawLine(0, at, float64(size), at)
		dc.DrawLine(at, 0, at, float64(size))
	}
	dc.Stroke()

	return dc, nil
}
