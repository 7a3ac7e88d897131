// Package io reads grid layouts and writes search reports.
//
// # Text Layouts
//
// A layout is one line per grid row, one glyph per cell:
//
//	S..#....
//	..##..#.
//	........
//	.#....#E
//
// Glyphs:
//   - '.': empty
//   - '#': barrier
//   - 'S': start (at most one)
//   - 'E': end (at most one)
//   - 'o', 'x', '*': open, closed and path marks left by a search
//
// Blank lines and lines starting with ';' are ignored. Every row must have as
// many cells as there are rows. Use [ReadText] for any io.Reader, or
// [ImportText] for a file path. [FormatText] writes the current states back in
// the same format, so a finished search can be printed and re-read.
//
// # Reports
//
// A [Report] is the JSON form of one finished search: outcome, cost, route,
// expansion order, predecessor links and the final grid as text rows. The CLI
// prints it, the result cache stores it and the HTTP API returns it.
//
//	rep := io.NewReport(runID, g, res)
//	err := io.WriteReport(os.Stdout, rep)
package io
