package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/astargrid/pkg/astar"
	"github.com/matzehuels/astargrid/pkg/grid"
	"github.com/matzehuels/astargrid/pkg/pipeline"
	"github.com/matzehuels/astargrid/pkg/render"
)

func newTestPlayModel(t *testing.T, rows int) playModel {
	t.Helper()
	g := grid.New(rows, rows*10)
	return newPlayModel(context.Background(), g, pipeline.NewRunner(nil, nil, nil),
		render.NewTermStyles(render.DefaultPalette()), time.Microsecond, astar.WithHeuristic(astar.Manhattan))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m playModel, msg tea.Msg) (playModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(playModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

// runToCompletion feeds frame messages back into the model until the search
// goroutine reports its result.
func runToCompletion(t *testing.T, m playModel, cmd tea.Cmd) playModel {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for m.running {
		if time.Now().After(deadline) {
			t.Fatal("search did not finish")
		}
		if cmd == nil {
			t.Fatal("running model returned no command")
		}
		m, cmd = update(t, m, cmd())
	}
	return m
}

func TestPlacementOrder(t *testing.T) {
	m := newTestPlayModel(t, 5)

	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("enter"))

	if got := m.g.CellAt(0, 0).State(); got != grid.Start {
		t.Errorf("(0,0) = %v, want start", got)
	}
	if got := m.g.CellAt(0, 1).State(); got != grid.End {
		t.Errorf("(0,1) = %v, want end", got)
	}
	if got := m.g.CellAt(1, 1).State(); got != grid.Barrier {
		t.Errorf("(1,1) = %v, want barrier", got)
	}
}

func TestPlaceDoesNotOverwriteEndpoints(t *testing.T) {
	m := newTestPlayModel(t, 3)
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("enter"))

	m, _ = update(t, m, key("h"))
	m, _ = update(t, m, key("enter"))
	if got := m.g.CellAt(0, 0).State(); got != grid.Start {
		t.Errorf("placing on the start turned it into %v", got)
	}
}

func TestEraseForgetsStart(t *testing.T) {
	m := newTestPlayModel(t, 3)
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("backspace"))

	if m.start != nil {
		t.Error("erasing the start cell should forget it")
	}
	if got := m.g.CellAt(0, 0).State(); got != grid.Empty {
		t.Errorf("(0,0) = %v, want empty", got)
	}

	// The next placement is a start again.
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("enter"))
	if got := m.g.CellAt(1, 0).State(); got != grid.Start {
		t.Errorf("(1,0) = %v, want start", got)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := newTestPlayModel(t, 2)
	for _, k := range []string{"k", "h", "j", "j", "j", "l", "l", "l"} {
		m, _ = update(t, m, key(k))
	}
	if m.cursor != (grid.Pos{Row: 1, Col: 1}) {
		t.Errorf("cursor = %v, want (1,1)", m.cursor)
	}
}

func TestMouseMapsToCells(t *testing.T) {
	m := newTestPlayModel(t, 5)

	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: boardTop + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.g.CellAt(1, 2).State(); got != grid.Start {
		t.Errorf("(1,2) = %v, want start", got)
	}
	if m.cursor != (grid.Pos{Row: 1, Col: 2}) {
		t.Errorf("cursor = %v, want (1,2)", m.cursor)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: boardTop + 1, Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
	if m.start != nil {
		t.Error("right click should clear the start")
	}

	// Clicks on the header are ignored.
	before := m.g.Snapshot()
	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	for i, s := range m.g.Snapshot() {
		if s != before[i] {
			t.Fatal("header click changed the board")
		}
	}
}

func TestSearchNeedsEndpoints(t *testing.T) {
	m := newTestPlayModel(t, 3)
	m, cmd := update(t, m, key("space"))
	if m.running || cmd != nil {
		t.Error("search should not start without endpoints")
	}
	if m.err == nil {
		t.Error("missing endpoints should be reported")
	}
}

func TestSearchAnimatesToCompletion(t *testing.T) {
	m := newTestPlayModel(t, 5)
	m, _ = update(t, m, key("enter"))
	for range 4 {
		m, _ = update(t, m, key("j"))
		m, _ = update(t, m, key("l"))
	}
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("space"))
	if !m.running {
		t.Fatal("space should start the search")
	}

	// Edits are ignored while searching.
	m, _ = update(t, m, key("r"))
	if m.start == nil {
		t.Fatal("reset should be ignored while the search runs")
	}

	m = runToCompletion(t, m, cmd)

	if m.report == nil || !m.report.Found() {
		t.Fatalf("report = %+v, want a found path", m.report)
	}
	if m.report.Cost != 8 {
		t.Errorf("cost = %d, want 8", m.report.Cost)
	}
	if n := m.g.Count(grid.Path); n != 7 {
		t.Errorf("path cells = %d, want 7", n)
	}

	m, _ = update(t, m, key("c"))
	if m.g.Count(grid.Path) != 0 || m.report != nil {
		t.Error("c should clear search marks and the result")
	}
}

func TestSearchWithoutRoute(t *testing.T) {
	m := newTestPlayModel(t, 3)
	m, _ = update(t, m, key("enter"))
	m.cursor = grid.Pos{Row: 2, Col: 2}
	m, _ = update(t, m, key("enter"))
	for row := range 3 {
		m.cursor = grid.Pos{Row: row, Col: 1}
		m, _ = update(t, m, key("enter"))
	}

	m, cmd := update(t, m, key("space"))
	m = runToCompletion(t, m, cmd)

	if m.report == nil || m.report.Found() {
		t.Fatalf("report = %+v, want no path", m.report)
	}
	if m.report.Status != astar.Failed.String() {
		t.Errorf("status = %q, want failed", m.report.Status)
	}
	if v := m.View(); !strings.Contains(v, "no path") {
		t.Errorf("View() should report the missing path:\n%s", v)
	}
}

func TestQuitCancelsSearch(t *testing.T) {
	m := newTestPlayModel(t, 20)
	m, _ = update(t, m, key("enter"))
	for range 19 {
		m, _ = update(t, m, key("j"))
		m, _ = update(t, m, key("l"))
	}
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("space"))
	m, quit := update(t, m, key("q"))
	if quit == nil {
		t.Fatal("q should quit")
	}

	m = runToCompletion(t, m, cmd)
	if m.report != nil || m.err != nil {
		t.Errorf("canceled search should leave no result, got report=%v err=%v", m.report, m.err)
	}
}

func TestResetClearsBoard(t *testing.T) {
	m := newTestPlayModel(t, 3)
	m, _ = update(t, m, key("enter"))
	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("enter"))

	m, _ = update(t, m, key("r"))
	if m.start != nil || m.end != nil {
		t.Error("reset should forget start and end")
	}
	if n := m.g.Count(grid.Empty); n != 9 {
		t.Errorf("empty cells after reset = %d, want 9", n)
	}
}

func TestPlayViewShowsStatus(t *testing.T) {
	m := newTestPlayModel(t, 3)
	v := m.View()
	for _, want := range []string{"astargrid", "place the start", "space search"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q:\n%s", want, v)
		}
	}
}
