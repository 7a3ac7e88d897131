package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/grid"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
	"github.com/matzehuels/astargrid/pkg/maze"
)

// Layout generators.
const (
	modeScatter = "scatter"
	modeMaze    = "maze"
)

// generateOpts holds the flags shared by generate and play --random.
type generateOpts struct {
	rows     int
	mode     string
	seed     int64
	density  float64
	clusters int
	braid    float64
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random text layout",
		Long: `Generate writes a random layout that solve and play accept.

scatter drops clustered barriers on an open grid with S in the top-left and E
in the bottom-right corner. maze carves a maze with a single route from the
top-left corner to its farthest cell; --braid opens loops.`,
		Example: `  astargrid generate --rows 30 --seed 7 > scatter.txt
  astargrid generate --mode maze --braid 0.1 | astargrid solve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.rows == 0 {
				opts.rows = c.Config.Grid.Rows
			}
			g, err := generateGrid(opts)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("generated layout",
				"mode", opts.mode,
				"rows", g.Rows(),
				"barriers", g.Count(grid.Barrier))

			if output == "" {
				return pkgio.WriteText(g, cmd.OutOrStdout())
			}
			if err := os.WriteFile(output, []byte(pkgio.FormatText(g)), 0o644); err != nil {
				return err
			}
			printFile(output)
			printNextStep("Solve it", fmt.Sprintf("%s solve %s", appName, output))
			return nil
		},
	}

	addGenerateFlags(cmd, &opts, modeScatter)
	cmd.Flags().IntVar(&opts.rows, "rows", 0, "grid size (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout to a file instead of stdout")

	return cmd
}

// addGenerateFlags registers the generator tuning flags on cmd.
func addGenerateFlags(cmd *cobra.Command, opts *generateOpts, mode string) {
	opts.mode = mode
	cmd.Flags().StringVar(&opts.mode, "mode", mode, "generator: scatter or maze")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&opts.density, "density", 0, "scatter: chance a walk step drops a barrier (default 0.6)")
	cmd.Flags().IntVar(&opts.clusters, "clusters", 0, "scatter: number of barrier walks (default rows²/40)")
	cmd.Flags().Float64Var(&opts.braid, "braid", 0, "maze: chance a dead-end wall is opened (0 keeps one route)")
}

// generateGrid builds a grid of opts.rows cells per side filled by the
// selected generator.
func generateGrid(opts generateOpts) (*grid.Grid, error) {
	if err := errors.ValidateRows(opts.rows); err != nil {
		return nil, err
	}
	g := grid.New(opts.rows, grid.DefaultDimension)

	switch opts.mode {
	case modeScatter, "":
		if opts.rows < 2 {
			return nil, errors.New(errors.ErrCodeInvalidSize, "scatter needs at least 2 rows, got %d", opts.rows)
		}
		last := opts.rows - 1
		g.SetState(g.CellAt(0, 0), grid.Start)
		g.SetState(g.CellAt(last, last), grid.End)
		maze.Scatter(g, maze.Options{
			Density:  opts.density,
			Clusters: opts.clusters,
			Seed:     opts.seed,
		})
	case modeMaze:
		if _, _, err := maze.Carve(g, maze.CarveOptions{Braid: opts.braid, Seed: opts.seed}); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown mode %q (valid: %s, %s)", opts.mode, modeScatter, modeMaze)
	}

	g.RefreshNeighbors()
	return g, nil
}
