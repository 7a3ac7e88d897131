package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/astargrid/pkg/astar"
	"github.com/matzehuels/astargrid/pkg/grid"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
	"github.com/matzehuels/astargrid/pkg/pipeline"
	"github.com/matzehuels/astargrid/pkg/render"
)

// boardTop is the number of terminal lines above the board in View.
const boardTop = 2

var playHelpStyle = lipgloss.NewStyle().Foreground(colorDim)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		random    bool
		rows      int
		heuristic string
		layout    string
		gen       generateOpts
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Edit a grid and watch A* search it",
		Long: `Play opens an interactive grid in the terminal.

  arrows/hjkl  move the cursor
  enter/click  place start, then end, then barriers (drag to paint)
  bksp/right   clear a cell
  space        run the search
  c            clear search marks
  r            reset the grid
  q            quit

The search is animated at render.fps frames per second.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if rows == 0 {
				rows = c.Config.Grid.Rows
			}

			g, err := c.playGrid(layout, random, rows, gen)
			if err != nil {
				return err
			}

			opt, err := pipeline.HeuristicOption(heuristic)
			if err != nil {
				return err
			}
			palette, err := c.Config.Palette()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newPlayModel(ctx, g, runner, render.NewTermStyles(palette), c.Config.FrameInterval(), opt)
			final, err := tea.NewProgram(m,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			).Run()
			if err != nil {
				return err
			}
			if pm, ok := final.(playModel); ok && pm.report != nil {
				loggerFromContext(ctx).Info("last search",
					"status", pm.report.Status,
					"cost", pm.report.Cost,
					"expanded", len(pm.report.Expanded))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&random, "random", false, "start from a generated layout")
	cmd.Flags().IntVar(&rows, "rows", 0, "grid size (default from config)")
	cmd.Flags().StringVar(&heuristic, "heuristic", pipeline.DefaultHeuristic, "search heuristic: "+strings.Join(pipeline.Heuristics(), ", "))
	cmd.Flags().StringVar(&layout, "layout", "", "start from a text layout file")
	addGenerateFlags(cmd, &gen, modeScatter)

	return cmd
}

// playGrid builds the starting grid: a layout file, a generated layout or an
// empty board.
func (c *CLI) playGrid(layout string, random bool, rows int, gen generateOpts) (*grid.Grid, error) {
	switch {
	case layout != "":
		return pkgio.ImportText(layout)
	case random:
		gen.rows = rows
		return generateGrid(gen)
	default:
		return grid.New(rows, c.Config.Grid.Width), nil
	}
}

// =============================================================================
// playModel - Interactive grid editor
// =============================================================================

// frameMsg carries a snapshot taken by the search goroutine.
type frameMsg []grid.State

// searchDoneMsg is sent once the search goroutine returns.
type searchDoneMsg struct {
	report pkgio.Report
	err    error
}

// playModel is the bubbletea model of the play command. While a search runs
// the grid belongs to the search goroutine and the view draws the latest
// snapshot instead.
type playModel struct {
	ctx       context.Context
	g         *grid.Grid
	runner    *pipeline.Runner
	heuristic astar.Option
	styles    render.TermStyles
	interval  time.Duration

	cursor grid.Pos
	start  *grid.Cell
	end    *grid.Cell

	running bool
	cancel  context.CancelFunc
	frames  chan []grid.State
	done    chan searchDoneMsg
	board   []grid.State

	report *pkgio.Report
	err    error
}

func newPlayModel(ctx context.Context, g *grid.Grid, runner *pipeline.Runner, styles render.TermStyles, interval time.Duration, heuristic astar.Option) playModel {
	m := playModel{
		ctx:       ctx,
		g:         g,
		runner:    runner,
		heuristic: heuristic,
		styles:    styles,
		interval:  interval,
	}
	m.start, _ = g.Start()
	m.end, _ = g.End()
	return m
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.board = msg
		return m, m.nextFrame()
	case searchDoneMsg:
		return m.finish(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if !m.running {
			m.handleMouse(msg)
		}
	}
	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}
	if m.running {
		return m, nil
	}

	n := m.g.Rows()
	switch msg.String() {
	case "up", "k":
		m.cursor.Row = max(0, m.cursor.Row-1)
	case "down", "j":
		m.cursor.Row = min(n-1, m.cursor.Row+1)
	case "left", "h":
		m.cursor.Col = max(0, m.cursor.Col-1)
	case "right", "l":
		m.cursor.Col = min(n-1, m.cursor.Col+1)
	case "enter":
		m.place(m.cursor)
	case "backspace", "delete", "x":
		m.erase(m.cursor)
	case " ":
		return m.startSearch()
	case "c":
		m.g.ClearSearch()
		m.report, m.err = nil, nil
	case "r":
		m.g.Reset()
		m.start, m.end = nil, nil
		m.report, m.err = nil, nil
	}
	return m, nil
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	p := grid.Pos{Row: msg.Y - boardTop, Col: msg.X / 2}
	if !m.g.InBounds(p.Row, p.Col) {
		return
	}
	switch {
	case msg.Button == tea.MouseButtonLeft && (msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion):
		m.cursor = p
		m.place(p)
	case msg.Button == tea.MouseButtonRight && (msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion):
		m.cursor = p
		m.erase(p)
	}
}

// place puts down the start if missing, then the end, then barriers.
func (m *playModel) place(p grid.Pos) {
	c := m.g.At(p)
	switch {
	case m.start == nil && c != m.end:
		m.start = c
		m.g.SetState(c, grid.Start)
	case m.end == nil && c != m.start:
		m.end = c
		m.g.SetState(c, grid.End)
	case c != m.start && c != m.end:
		m.g.SetState(c, grid.Barrier)
	}
}

// erase empties a cell and forgets it as start or end.
func (m *playModel) erase(p grid.Pos) {
	c := m.g.At(p)
	m.g.SetState(c, grid.Empty)
	if c == m.start {
		m.start = nil
	}
	if c == m.end {
		m.end = nil
	}
}

// startSearch hands the grid to a search goroutine. Each step blocks until
// the UI has taken its snapshot, so the animation runs at the frame rate.
func (m playModel) startSearch() (tea.Model, tea.Cmd) {
	if m.start == nil || m.end == nil {
		m.err = errors.New("place a start and an end first")
		return m, nil
	}
	m.g.ClearSearch()
	m.report, m.err = nil, nil

	ctx, cancel := context.WithCancel(m.ctx)
	frames := make(chan []grid.State)
	done := make(chan searchDoneMsg, 1)
	m.running, m.cancel, m.frames, m.done = true, cancel, frames, done
	m.board = m.g.Snapshot()

	g, runner, heuristic := m.g, m.runner, m.heuristic
	go func() {
		rep, err := runner.Solve(ctx, g, func() {
			select {
			case frames <- g.Snapshot():
			case <-ctx.Done():
			}
		}, heuristic)
		close(frames)
		done <- searchDoneMsg{report: rep, err: err}
	}()

	return m, m.nextFrame()
}

// nextFrame waits one frame interval and then for the next snapshot, or for
// the final result once the search goroutine has stopped stepping.
func (m playModel) nextFrame() tea.Cmd {
	frames, done := m.frames, m.done
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		if frame, ok := <-frames; ok {
			return frameMsg(frame)
		}
		return <-done
	})
}

func (m playModel) finish(msg searchDoneMsg) playModel {
	if m.cancel != nil {
		m.cancel()
	}
	m.running, m.cancel, m.frames, m.done, m.board = false, nil, nil, nil, nil
	if errors.Is(msg.err, context.Canceled) {
		return m
	}
	if msg.err != nil {
		m.err = msg.err
		return m
	}
	rep := msg.report
	m.report = &rep
	return m
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("astargrid"))
	b.WriteString(" ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(render.Terminal(m.board, m.g.Rows(), m.styles, nil))
	} else {
		cursor := m.cursor
		b.WriteString(render.Terminal(m.g.Snapshot(), m.g.Rows(), m.styles, &cursor))
	}
	b.WriteString("\n\n")
	b.WriteString(playHelpStyle.Render("←↓↑→ move  ⏎ place  ⌫ clear  space search  c clear marks  r reset  q quit"))

	return b.String()
}

func (m playModel) statusLine() string {
	switch {
	case m.running:
		return StyleHighlight.Render("searching…")
	case m.err != nil:
		return styleIconError.Render(iconError) + " " + m.err.Error()
	case m.report != nil && m.report.Found():
		return StyleSuccess.Render(fmt.Sprintf("path found: cost %d, %d expanded", m.report.Cost, len(m.report.Expanded)))
	case m.report != nil:
		return StyleWarning.Render(fmt.Sprintf("no path: %d expanded", len(m.report.Expanded)))
	case m.start == nil:
		return StyleDim.Render("place the start")
	case m.end == nil:
		return StyleDim.Render("place the end")
	default:
		return StyleDim.Render("add barriers, then press space")
	}
}
