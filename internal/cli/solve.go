package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/pipeline"
	"github.com/matzehuels/astargrid/pkg/render"
)

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: txt, json, png, dot, svg
	heuristic string   // manhattan or zero
	cellPx    int      // PNG cell size; 0 uses the config
	noCache   bool     // bypass the result cache
	refresh   bool     // recompute and overwrite cached entries
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var formatsStr string
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [layout.txt]",
		Short: "Search a text layout and write the result",
		Long: `Solve runs A* on a text layout and writes the searched grid.

A layout has one line per row: '.' empty, '#' barrier, 'S' start, 'E' end.
With no file (or "-") the layout is read from standard input. A single txt
result goes to standard output unless --output is given; other formats are
written next to the input.`,
		Example: `  astargrid solve maze.txt
  astargrid generate --rows 30 | astargrid solve -f png,svg -o maze`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			input := ""
			if len(args) == 1 && args[0] != stdoutPath {
				input = args[0]
			}
			return c.runSolve(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format) or base path (multiple); "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): txt (default), json, png, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.heuristic, "heuristic", pipeline.DefaultHeuristic, "search heuristic: "+strings.Join(pipeline.Heuristics(), ", "))
	cmd.Flags().IntVar(&opts.cellPx, "cell-px", 0, "PNG cell size in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

// runSolve loads the layout, runs the pipeline and writes every artifact.
func (c *CLI) runSolve(ctx context.Context, stdin io.Reader, stderr io.Writer, input string, opts *solveOpts) error {
	logger := loggerFromContext(ctx)

	layout, err := readLayout(stdin, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cellPx := opts.cellPx
	if cellPx == 0 {
		cellPx = c.Config.Render.CellPx
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, stderr, "Searching...")
	spinner.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		Layout:    layout,
		Heuristic: opts.heuristic,
		Formats:   opts.formats,
		CellPx:    cellPx,
		Palette:   c.Config.Render.Palette,
		Refresh:   opts.refresh,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved %d×%d grid", res.Stats.Rows, res.Stats.Rows))

	toStdout, err := writeArtifacts(res, input, opts)
	if err != nil {
		return err
	}
	if toStdout {
		return nil
	}

	printStats(res)
	if !res.Report.Found() {
		printWarning("No path between start and end")
	}
	return nil
}

// readLayout reads a layout from path, or from stdin when path is empty.
func readLayout(stdin io.Reader, path string) ([]string, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return pipeline.LayoutFromText(string(data)), nil
}

// writeArtifacts writes each rendered format and reports whether anything
// went to standard output.
func writeArtifacts(res *pipeline.Result, input string, opts *solveOpts) (bool, error) {
	if len(opts.formats) == 1 {
		format := opts.formats[0]
		path := opts.output
		if path == "" {
			path = stdoutPath
			if format != render.FormatText {
				path = basePath("", input) + "." + format
			}
		}
		if err := writeOutput(path, res.Artifacts[format]); err != nil {
			return false, err
		}
		return path == stdoutPath, nil
	}

	if opts.output == stdoutPath {
		return false, errors.New(errors.ErrCodeInvalidInput, "--output - takes a single format, got %d", len(opts.formats))
	}
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := writeOutput(base+"."+format, res.Artifacts[format]); err != nil {
			return false, fmt.Errorf("%s: %w", format, err)
		}
	}
	return false, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; stdin input uses
// the application name. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, f := range render.Formats {
		if ext == "."+f {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == stdoutPath {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	printFile(path)
	return nil
}
