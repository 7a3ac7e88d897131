package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/astargrid/pkg/grid"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
)

// MaxTreeRows bounds the grid size rendered as a search tree. Graphviz
// layout time grows quickly with the node count.
const MaxTreeRows = 64

// TreeDOT converts the predecessor links of rep into a Graphviz digraph.
// Each discovered cell is a node filled with its final state color; edges
// point from predecessor to successor, and edges on the route are drawn thick
// in the path color.
func TreeDOT(rep pkgio.Report, p Palette) string {
	states, _ := rep.States()
	stateAt := func(pos grid.Pos) grid.State {
		if states == nil {
			return grid.Empty
		}
		return states[pos.Row*rep.Rows+pos.Col]
	}

	onRoute := make(map[pkgio.Link]bool, len(rep.Path))
	for i := 1; i < len(rep.Path); i++ {
		onRoute[pkgio.Link{From: rep.Path[i-1], To: rep.Path[i]}] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph search {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [color=\"" + Hex(p.Lines) + "\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	seen := map[grid.Pos]bool{}
	node := func(pos grid.Pos) {
		if seen[pos] {
			return
		}
		seen[pos] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(pos), nodeAttrs(pos, stateAt(pos), p))
	}

	node(rep.Start)
	for _, l := range rep.Tree {
		node(l.From)
		node(l.To)
	}

	buf.WriteString("\n")
	for _, l := range rep.Tree {
		if onRoute[l] {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=3];\n", nodeID(l.From), nodeID(l.To), Hex(p.Path))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(l.From), nodeID(l.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(p grid.Pos) string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

func nodeAttrs(pos grid.Pos, s grid.State, p Palette) string {
	fg := "black"
	if s == grid.Barrier || s == grid.Path {
		fg = "white"
	}
	return fmt.Sprintf("label=%q, fillcolor=%q, fontcolor=%s", pos.String(), Hex(p.Color(s)), fg)
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so browsers scale it predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
