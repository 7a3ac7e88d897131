package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
)

// Palette assigns a color to every cell state plus the grid lines.
type Palette struct {
	Empty   color.RGBA
	Barrier color.RGBA
	Start   color.RGBA
	End     color.RGBA
	Open    color.RGBA
	Closed  color.RGBA
	Path    color.RGBA
	Lines   color.RGBA
}

// DefaultPalette returns the classic visualizer colors.
func DefaultPalette() Palette {
	return Palette{
		Empty:   color.RGBA{255, 255, 255, 255},
		Barrier: color.RGBA{0, 0, 0, 255},
		Start:   color.RGBA{245, 185, 66, 255},
		End:     color.RGBA{76, 217, 245, 255},
		Open:    color.RGBA{0, 255, 0, 255},
		Closed:  color.RGBA{255, 0, 0, 255},
		Path:    color.RGBA{87, 76, 245, 255},
		Lines:   color.RGBA{168, 159, 158, 255},
	}
}

// Color returns the fill for s. Unknown states draw as Empty.
func (p Palette) Color(s grid.State) color.RGBA {
	switch s {
	case grid.Barrier:
		return p.Barrier
	case grid.Start:
		return p.Start
	case grid.End:
		return p.End
	case grid.Open:
		return p.Open
	case grid.Closed:
		return p.Closed
	case grid.Path:
		return p.Path
	default:
		return p.Empty
	}
}

// WithOverrides returns a copy of p with colors replaced by name. Names are
// state names ("empty", "barrier", "start", "end", "open", "closed", "path")
// or "lines"; values are "#rrggbb" hex strings.
func (p Palette) WithOverrides(overrides map[string]string) (Palette, error) {
	for name, hex := range overrides {
		c, err := ParseHex(hex)
		if err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette %s", name)
		}
		slot := p.slot(strings.ToLower(name))
		if slot == nil {
			return p, errors.New(errors.ErrCodeInvalidConfig, "palette: unknown color name %q", name)
		}
		*slot = c
	}
	return p, nil
}

func (p *Palette) slot(name string) *color.RGBA {
	switch name {
	case "empty":
		return &p.Empty
	case "barrier":
		return &p.Barrier
	case "start":
		return &p.Start
	case "end":
		return &p.End
	case "open":
		return &p.Open
	case "closed":
		return &p.Closed
	case "path":
		return &p.Path
	case "lines":
		return &p.Lines
	}
	return nil
}

// ParseHex parses "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
