// Package pipeline runs the layout → search → render flow shared by the CLI
// and the HTTP API.
//
// # Stages
//
//  1. Search: parse the layout, refresh adjacency and run A*. The resulting
//     [pkgio.Report] is cached under the hash of the cleared layout, so the
//     same maze is only searched once.
//  2. Render: turn the report into the requested formats (txt, json, png,
//     dot, svg). Artifacts are cached under the hash of the report.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Layout:  []string{"S..", ".#.", "..E"},
//	    Formats: []string{"png"},
//	})
//	png := result.Artifacts["png"]
//
// Interactive callers that animate a grid in place use [Runner.Solve]
// directly instead.
package pipeline

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/astargrid/pkg/astar"
	"github.com/matzehuels/astargrid/pkg/cache"
	"github.com/matzehuels/astargrid/pkg/errors"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
	"github.com/matzehuels/astargrid/pkg/render"
)

// Heuristic names accepted in Options.
const (
	HeuristicManhattan = "manhattan"
	HeuristicZero      = "zero"
)

// DefaultHeuristic is used when Options.Heuristic is empty.
const DefaultHeuristic = HeuristicManhattan

var heuristics = map[string]astar.Heuristic{
	HeuristicManhattan: astar.Manhattan,
	HeuristicZero:      astar.Zero,
}

// Heuristics lists the accepted heuristic names.
func Heuristics() []string {
	return []string{HeuristicManhattan, HeuristicZero}
}

// HeuristicOption resolves a heuristic name for Runner.Solve. An empty name
// selects DefaultHeuristic.
func HeuristicOption(name string) (astar.Option, error) {
	if name == "" {
		name = DefaultHeuristic
	}
	h, ok := heuristics[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown heuristic %q (valid: %v)", name, Heuristics())
	}
	return astar.WithHeuristic(h), nil
}

// Options configures one pipeline run. It doubles as the HTTP request body.
type Options struct {
	// Layout holds the text layout, one string per row.
	Layout []string `json:"layout"`

	// Heuristic is "manhattan" (default) or "zero" (Dijkstra order).
	Heuristic string `json:"heuristic,omitempty"`

	// Formats lists the artifacts to render (default: txt).
	Formats []string          `json:"formats,omitempty"`
	CellPx  int               `json:"cell_px,omitempty"`
	Palette map[string]string `json:"palette,omitempty"`

	// Refresh skips the cache lookup and overwrites cached entries.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of Execute.
type Result struct {
	// RunID identifies this Execute call. Report.RunID names the run that
	// produced the report, which differs on a cache hit.
	RunID     string
	Report    pkgio.Report
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	Rows       int
	Expanded   int
	Cost       int
	SearchTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	SearchHit bool
	RenderHit bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Layout) == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout is required")
	}
	if o.Heuristic == "" {
		o.Heuristic = DefaultHeuristic
	}
	if _, ok := heuristics[o.Heuristic]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown heuristic %q (valid: %v)", o.Heuristic, Heuristics())
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatText}
	}
	if err := errors.ValidateFormats(o.Formats, render.Formats); err != nil {
		return err
	}
	if o.CellPx == 0 {
		o.CellPx = render.DefaultCellPx
	}
	if o.CellPx < 0 || o.CellPx > 128 {
		return errors.New(errors.ErrCodeInvalidInput, "cell_px must be between 1 and 128, got %d", o.CellPx)
	}
	if err := o.checkRenderSize(); err != nil {
		return err
	}
	if _, err := o.palette(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// checkRenderSize rejects layouts too large for the requested formats.
func (o *Options) checkRenderSize() error {
	rows := len(o.Layout)
	for _, f := range o.Formats {
		switch f {
		case render.FormatPNG:
			if px := rows * o.CellPx; px > render.MaxImagePx {
				return errors.New(errors.ErrCodeInvalidInput,
					"png would be %dpx wide (max %d); lower cell_px or the grid size", px, render.MaxImagePx)
			}
		case render.FormatDOT, render.FormatSVG:
			if rows > render.MaxTreeRows {
				return errors.New(errors.ErrCodeInvalidInput,
					"%s renders grids up to %d rows, got %d", f, render.MaxTreeRows, rows)
			}
		}
	}
	return nil
}

func (o *Options) palette() (render.Palette, error) {
	return render.DefaultPalette().WithOverrides(o.Palette)
}

func (o *Options) searchOptions() []astar.Option {
	return []astar.Option{astar.WithHeuristic(heuristics[o.Heuristic])}
}

// SearchKeyOpts returns the cache key options of the search stage.
func (o *Options) SearchKeyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{Heuristic: o.Heuristic}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
// Options that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatPNG:
		k.CellPx = o.CellPx
		k.Palette = paletteKey(o.Palette)
	case render.FormatDOT, render.FormatSVG:
		k.Palette = paletteKey(o.Palette)
	}
	return k
}

func paletteKey(overrides map[string]string) string {
	if len(overrides) == 0 {
		return ""
	}
	data, _ := json.Marshal(overrides)
	return string(data)
}

// sortedFormats returns a deduplicated, sorted copy for stable logging.
func sortedFormats(formats []string) []string {
	out := slices.Clone(formats)
	slices.Sort(out)
	return slices.Compact(out)
}
