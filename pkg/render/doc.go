// Package render draws grids and search trees.
//
// # Boards
//
// A board is the row-major slice of cell states produced by
// grid.Grid.Snapshot or io.Report.States. It can be drawn three ways:
//
//   - [PNG]: a raster image, one square per cell with grey grid lines
//   - [Terminal]: colored two-column blocks for the CLI and the play view
//   - [Text]: the plain layout glyphs
//
// All of them color cells through a [Palette]. [DefaultPalette] uses the
// classic visualizer colors: white empty, black barrier, orange start,
// turquoise end, green open, red closed and purple path.
//
// # Search Trees
//
// [TreeDOT] turns a report's predecessor links into a Graphviz digraph rooted
// at the start cell, with the final route highlighted. [RenderSVG] lays it
// out with Graphviz:
//
//	dot := render.TreeDOT(rep, render.DefaultPalette())
//	svg, err := render.RenderSVG(ctx, dot)
package render

// Format names accepted by the pipeline and the HTTP API.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatPNG, FormatDOT, FormatSVG}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}
