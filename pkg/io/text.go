package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
)

var glyphToState = map[rune]grid.State{
	'.': grid.Empty,
	'#': grid.Barrier,
	'S': grid.Start,
	'E': grid.End,
	'o': grid.Open,
	'x': grid.Closed,
	'*': grid.Path,
}

var stateToGlyph = map[grid.State]byte{
	grid.Empty:   '.',
	grid.Barrier: '#',
	grid.Start:   'S',
	grid.End:     'E',
	grid.Open:    'o',
	grid.Closed:  'x',
	grid.Path:    '*',
}

// Glyph returns the layout character for s.
func Glyph(s grid.State) byte { return stateToGlyph[s] }

// ReadText parses a text layout into a grid sized for grid.DefaultDimension.
// Neighbors are not refreshed; callers do that before searching.
func ReadText(r io.Reader) (*grid.Grid, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return ParseRows(lines)
}

// ParseRows builds a grid from layout rows that are already split.
func ParseRows(rows []string) (*grid.Grid, error) {
	states, n, err := parseStates(rows)
	if err != nil {
		return nil, err
	}
	g := grid.New(n, grid.DefaultDimension)
	i := 0
	for c := range g.Cells() {
		if states[i] != grid.Empty {
			g.SetState(c, states[i])
		}
		i++
	}
	return g, nil
}

// ParseStates decodes layout rows to row-major states without building a grid.
func ParseStates(rows []string) ([]grid.State, int, error) {
	return parseStates(rows)
}

func parseStates(rows []string) ([]grid.State, int, error) {
	n := len(rows)
	if n == 0 {
		return nil, 0, errors.New(errors.ErrCodeInvalidLayout, "layout has no rows")
	}
	if err := errors.ValidateRows(n); err != nil {
		return nil, 0, err
	}

	states := make([]grid.State, 0, n*n)
	var starts, ends int
	for r, line := range rows {
		cells := []rune(line)
		if len(cells) != n {
			return nil, 0, errors.New(errors.ErrCodeInvalidLayout,
				"row %d has %d cells, want %d (layouts are square)", r+1, len(cells), n)
		}
		for c, ch := range cells {
			s, ok := glyphToState[ch]
			if !ok {
				return nil, 0, errors.New(errors.ErrCodeInvalidLayout,
					"row %d col %d: unknown glyph %q", r+1, c+1, ch)
			}
			switch s {
			case grid.Start:
				starts++
			case grid.End:
				ends++
			}
			states = append(states, s)
		}
	}
	if starts > 1 {
		return nil, 0, errors.New(errors.ErrCodeInvalidLayout, "layout has %d start cells, want at most 1", starts)
	}
	if ends > 1 {
		return nil, 0, errors.New(errors.ErrCodeInvalidLayout, "layout has %d end cells, want at most 1", ends)
	}
	return states, n, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return lines, nil
}

// ImportText reads a layout file from path.
func ImportText(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Rows renders the grid states as layout rows.
func Rows(g *grid.Grid) []string {
	out := make([]string, g.Rows())
	buf := make([]byte, g.Rows())
	for r := range g.Rows() {
		for c := range g.Rows() {
			buf[c] = stateToGlyph[g.CellAt(r, c).State()]
		}
		out[r] = string(buf)
	}
	return out
}

// FormatText renders the grid as a newline-terminated text layout.
func FormatText(g *grid.Grid) string {
	return strings.Join(Rows(g), "\n") + "\n"
}

// WriteText writes FormatText(g) to w.
func WriteText(g *grid.Grid, w io.Writer) error {
	_, err := io.WriteString(w, FormatText(g))
	return err
}

// Endpoints returns the start and end cells of g, or a MISSING_ENDPOINT error
// naming what is absent.
func Endpoints(g *grid.Grid) (*grid.Cell, *grid.Cell, error) {
	start, hasStart := g.Start()
	end, hasEnd := g.End()
	switch {
	case !hasStart && !hasEnd:
		return nil, nil, errors.New(errors.ErrCodeMissingEndpoint, "layout has no start (S) and no end (E)")
	case !hasStart:
		return nil, nil, errors.New(errors.ErrCodeMissingEndpoint, "layout has no start (S)")
	case !hasEnd:
		return nil, nil, errors.New(errors.ErrCodeMissingEndpoint, "layout has no end (E)")
	}
	return start, end, nil
}
