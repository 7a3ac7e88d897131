package io

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/astargrid/pkg/astar"
	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
)

// Link is one predecessor edge: the search first reached To from From (or
// later found a shorter way through From).
type Link struct {
	From grid.Pos `json:"from"`
	To   grid.Pos `json:"to"`
}

// Report is the serializable outcome of one search.
type Report struct {
	RunID    string     `json:"run_id,omitempty"`
	Rows     int        `json:"rows"`
	Status   string     `json:"status"`
	Cost     int        `json:"cost"`
	Start    grid.Pos   `json:"start"`
	End      grid.Pos   `json:"end"`
	Path     []grid.Pos `json:"path,omitempty"`
	Expanded []grid.Pos `json:"expanded"`
	Tree     []Link     `json:"tree,omitempty"`
	Steps    int        `json:"steps"`
	Grid     []string   `json:"grid"`
}

// NewReport captures res together with the final cell states of g. Tree links
// are sorted by destination so equal runs serialize identically.
func NewReport(runID string, g *grid.Grid, start, end grid.Pos, res astar.Result) Report {
	tree := make([]Link, 0, len(res.CameFrom))
	for to, from := range res.CameFrom {
		tree = append(tree, Link{From: from, To: to})
	}
	slices.SortFunc(tree, func(a, b Link) int {
		if c := cmp.Compare(a.To.Row, b.To.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.To.Col, b.To.Col)
	})

	return Report{
		RunID:    runID,
		Rows:     g.Rows(),
		Status:   res.Status.String(),
		Cost:     res.Cost,
		Start:    start,
		End:      end,
		Path:     res.Path,
		Expanded: res.Expanded,
		Tree:     tree,
		Steps:    res.Steps,
		Grid:     Rows(g),
	}
}

// Found reports whether the search reached the end cell.
func (r Report) Found() bool { return r.Status == astar.Succeeded.String() }

// States decodes the final grid rows.
func (r Report) States() ([]grid.State, error) {
	states, n, err := ParseStates(r.Grid)
	if err != nil {
		return nil, err
	}
	if n != r.Rows {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "report grid has %d rows, header says %d", n, r.Rows)
	}
	return states, nil
}

// WriteReport encodes rep as indented JSON.
func WriteReport(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// ReadReport decodes a report written by WriteReport.
func ReadReport(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode report")
	}
	if rep.Rows <= 0 || len(rep.Grid) != rep.Rows {
		return Report{}, errors.New(errors.ErrCodeInvalidFormat, "report grid has %d rows, header says %d", len(rep.Grid), rep.Rows)
	}
	return rep, nil
}

// ExportReport writes rep to a file at path.
func ExportReport(rep Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteReport(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
