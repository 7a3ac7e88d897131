package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	g := New(40, 700)

	if g.Rows() != 40 {
		t.Errorf("Rows() = %d, want 40", g.Rows())
	}
	if g.CellSize() != 17 {
		t.Errorf("CellSize() = %d, want 17", g.CellSize())
	}
	if n := g.Count(Empty); n != 1600 {
		t.Errorf("Count(Empty) = %d, want 1600", n)
	}
	if !g.Stale() {
		t.Error("new grid should be stale until neighbors are refreshed")
	}
}

func TestNewPanicsOnNonPositiveRows(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0, 100) should panic")
		}
	}()
	New(0, 100)
}

func TestCellAtOutOfRangePanics(t *testing.T) {
	g := New(3, 30)
	defer func() {
		if recover() == nil {
			t.Error("CellAt(3, 0) should panic")
		}
	}()
	g.CellAt(3, 0)
}

func TestCellPositions(t *testing.T) {
	g := New(4, 40)
	for c := range g.Cells() {
		if got := g.CellAt(c.Row(), c.Col()); got != c {
			t.Fatalf("CellAt(%d,%d) returned a different cell", c.Row(), c.Col())
		}
	}
}

func TestRefreshNeighbors(t *testing.T) {
	tests := []struct {
		name     string
		pos      Pos
		barriers []Pos
		want     []Pos
	}{
		{
			name: "interior",
			pos:  Pos{2, 2},
			want: []Pos{{3, 2}, {1, 2}, {2, 3}, {2, 1}},
		},
		{
			name: "top-left corner",
			pos:  Pos{0, 0},
			want: []Pos{{1, 0}, {0, 1}},
		},
		{
			name: "bottom-right corner",
			pos:  Pos{4, 4},
			want: []Pos{{3, 4}, {4, 3}},
		},
		{
			// Row 0 with a left neighbor: a row-based left bound check would drop (0,2).
			name: "top edge keeps left neighbor",
			pos:  Pos{0, 3},
			want: []Pos{{1, 3}, {0, 4}, {0, 2}},
		},
		{
			// Column 0 below row 0: a row-based left bound check would index column -1.
			name: "left edge has no left neighbor",
			pos:  Pos{3, 0},
			want: []Pos{{4, 0}, {2, 0}, {3, 1}},
		},
		{
			name:     "barriers excluded",
			pos:      Pos{2, 2},
			barriers: []Pos{{1, 2}, {2, 1}},
			want:     []Pos{{3, 2}, {2, 3}},
		},
		{
			name:     "fully enclosed",
			pos:      Pos{2, 2},
			barriers: []Pos{{1, 2}, {3, 2}, {2, 1}, {2, 3}},
			want:     []Pos{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(5, 50)
			for _, b := range tt.barriers {
				g.SetState(g.At(b), Barrier)
			}
			g.RefreshNeighbors()

			if diff := cmp.Diff(tt.want, g.At(tt.pos).Neighbors()); diff != "" {
				t.Errorf("Neighbors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRefreshNeighborsIdempotent(t *testing.T) {
	g := New(6, 60)
	for _, p := range []Pos{{0, 1}, {2, 2}, {3, 4}, {5, 0}} {
		g.SetState(g.At(p), Barrier)
	}

	g.RefreshNeighbors()
	first := map[Pos][]Pos{}
	for c := range g.Cells() {
		first[c.Pos()] = c.Neighbors()
	}

	g.RefreshNeighbors()
	second := map[Pos][]Pos{}
	for c := range g.Cells() {
		second[c.Pos()] = c.Neighbors()
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second refresh changed neighbors (-first +second):\n%s", diff)
	}
}

func TestStaleTracksBarrierEdits(t *testing.T) {
	g := New(3, 30)
	g.RefreshNeighbors()
	if g.Stale() {
		t.Fatal("grid should be fresh after RefreshNeighbors")
	}

	g.SetState(g.CellAt(0, 0), Start)
	g.SetState(g.CellAt(2, 2), End)
	if g.Stale() {
		t.Error("start/end placement should not invalidate adjacency")
	}

	g.SetState(g.CellAt(1, 1), Barrier)
	if !g.Stale() {
		t.Error("adding a barrier should invalidate adjacency")
	}
	g.RefreshNeighbors()

	g.SetState(g.CellAt(1, 1), Empty)
	if !g.Stale() {
		t.Error("removing a barrier should invalidate adjacency")
	}
}

func TestSetStateForeignCellPanics(t *testing.T) {
	g := New(3, 30)
	other := New(3, 30)
	defer func() {
		if recover() == nil {
			t.Error("SetState with a foreign cell should panic")
		}
	}()
	g.SetState(other.CellAt(0, 0), Barrier)
}

func TestResetRebuildsCells(t *testing.T) {
	g := New(3, 30)
	old := g.CellAt(1, 1)
	g.SetState(old, Barrier)
	g.RefreshNeighbors()

	g.Reset()

	if g.Owns(old) {
		t.Error("cells from before Reset should no longer belong to the grid")
	}
	if g.Count(Barrier) != 0 {
		t.Error("Reset should leave only empty cells")
	}
	if !g.Stale() {
		t.Error("Reset should require a fresh neighbor refresh")
	}
}

func TestStartEnd(t *testing.T) {
	g := New(3, 30)
	if _, ok := g.Start(); ok {
		t.Error("Start() on empty grid should report false")
	}
	g.SetState(g.CellAt(0, 2), Start)
	g.SetState(g.CellAt(2, 0), End)

	if s, ok := g.Start(); !ok || s.Pos() != (Pos{0, 2}) {
		t.Errorf("Start() = %v, %v", s, ok)
	}
	if e, ok := g.End(); !ok || e.Pos() != (Pos{2, 0}) {
		t.Errorf("End() = %v, %v", e, ok)
	}
}

func TestClearSearch(t *testing.T) {
	g := New(2, 20)
	g.SetState(g.CellAt(0, 0), Start)
	g.SetState(g.CellAt(0, 1), Open)
	g.SetState(g.CellAt(1, 0), Closed)
	g.SetState(g.CellAt(1, 1), Path)

	g.ClearSearch()

	want := []State{Start, Empty, Empty, Empty}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("Snapshot() after ClearSearch (-want +got):\n%s", diff)
	}
}

func TestStateString(t *testing.T) {
	if Barrier.String() != "barrier" {
		t.Errorf("Barrier.String() = %q", Barrier.String())
	}
	if State(42).String() != "state(42)" {
		t.Errorf("State(42).String() = %q", State(42).String())
	}
}
