package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	pkgio "github.com/matzehuels/astargrid/pkg/io"
	"github.com/matzehuels/astargrid/pkg/observability"
	"github.com/matzehuels/astargrid/pkg/render"
)

// Render produces every format in opts.Formats from rep. Options must have
// been validated.
func Render(ctx context.Context, rep pkgio.Report, opts Options) (map[string][]byte, error) {
	hooks := observability.Search()
	hooks.OnRenderStart(ctx, opts.Formats)
	began := time.Now()

	artifacts, err := renderAll(ctx, rep, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(began), err)
	return artifacts, err
}

func renderAll(ctx context.Context, rep pkgio.Report, opts Options) (map[string][]byte, error) {
	palette, err := opts.palette()
	if err != nil {
		return nil, err
	}
	states, err := rep.States()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		var data []byte
		switch format {
		case render.FormatText:
			data = render.Text(states, rep.Rows)
		case render.FormatJSON:
			var buf bytes.Buffer
			err = pkgio.WriteReport(&buf, rep)
			data = buf.Bytes()
		case render.FormatPNG:
			data, err = render.PNG(states, rep.Rows, opts.CellPx, palette)
		case render.FormatDOT:
			data = []byte(render.TreeDOT(rep, palette))
		case render.FormatSVG:
			data, err = render.RenderSVG(ctx, render.TreeDOT(rep, palette))
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
