package astar

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// build turns a text layout ('.', '#', 'S', 'E') into a refreshed grid.
func build(t *testing.T, rows ...string) (*grid.Grid, *grid.Cell, *grid.Cell) {
	t.Helper()
	g := grid.New(len(rows), len(rows)*10)
	var start, end *grid.Cell
	for r, line := range rows {
		if len(line) != len(rows) {
			t.Fatalf("row %d has %d columns, want %d", r, len(line), len(rows))
		}
		for c, ch := range line {
			cell := g.CellAt(r, c)
			switch ch {
			case '#':
				g.SetState(cell, grid.Barrier)
			case 'S':
				g.SetState(cell, grid.Start)
				start = cell
			case 'E':
				g.SetState(cell, grid.End)
				end = cell
			}
		}
	}
	g.RefreshNeighbors()
	return g, start, end
}

// bfs is the test oracle: the minimum number of moves from start to end, or -1.
func bfs(g *grid.Grid, start, end grid.Pos) int {
	dist := map[grid.Pos]int{start: 0}
	queue := []grid.Pos{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			return dist[cur]
		}
		for _, d := range []grid.Pos{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}} {
			n := grid.Pos{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBounds(n.Row, n.Col) || g.At(n).IsBarrier() {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

func TestSearchScenarios(t *testing.T) {
	tests := []struct {
		name     string
		layout   []string
		want     Status
		wantCost int
	}{
		{
			name: "open 5x5",
			layout: []string{
				"S....",
				".....",
				".....",
				".....",
				"....E",
			},
			want:     Succeeded,
			wantCost: 8,
		},
		{
			name: "full wall at column 2",
			layout: []string{
				"S.#..",
				"..#..",
				"..#..",
				"..#..",
				"..#.E",
			},
			want: Failed,
		},
		{
			name: "wall with gap at (2,2)",
			layout: []string{
				"S.#..",
				"..#..",
				".....",
				"..#..",
				"..#.E",
			},
			want:     Succeeded,
			wantCost: 8,
		},
		{
			name: "wall sealed at the bottom",
			layout: []string{
				"S.#..",
				"..#..",
				"..#..",
				"..#..",
				"...#E",
			},
			want: Failed,
		},
		{
			name: "forced long way round",
			layout: []string{
				"S#...",
				".#.#.",
				".#.#.",
				".#.#.",
				"...#E",
			},
			want:     Succeeded,
			wantCost: 16,
		},
		{
			name: "adjacent",
			layout: []string{
				"SE",
				"..",
			},
			want:     Succeeded,
			wantCost: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, start, end := build(t, tt.layout...)
			oracle := bfs(g, start.Pos(), end.Pos())

			res := Search(g, start, end, nil)

			if res.Status != tt.want {
				t.Fatalf("Status = %v, want %v", res.Status, tt.want)
			}
			if res.Status != Succeeded {
				if oracle != -1 {
					t.Errorf("search failed but BFS found a path of %d", oracle)
				}
				return
			}
			if res.Cost != tt.wantCost {
				t.Errorf("Cost = %d, want %d", res.Cost, tt.wantCost)
			}
			if res.Cost != oracle {
				t.Errorf("Cost = %d, BFS oracle = %d", res.Cost, oracle)
			}
			if len(res.Path) != res.Cost+1 {
				t.Errorf("len(Path) = %d, want %d", len(res.Path), res.Cost+1)
			}
			checkRoute(t, g, res.Path, start.Pos(), end.Pos())
		})
	}
}

// checkRoute verifies the route is a chain of unit moves over non-barrier cells.
func checkRoute(t *testing.T, g *grid.Grid, route []grid.Pos, start, end grid.Pos) {
	t.Helper()
	if route[0] != start || route[len(route)-1] != end {
		t.Fatalf("route runs %v -> %v, want %v -> %v", route[0], route[len(route)-1], start, end)
	}
	for i := 1; i < len(route); i++ {
		if Manhattan(route[i-1], route[i]) != 1 {
			t.Fatalf("route step %v -> %v is not a unit move", route[i-1], route[i])
		}
		if g.At(route[i]).IsBarrier() {
			t.Fatalf("route crosses barrier at %v", route[i])
		}
	}
}

func TestSearchOpenGridMatchesManhattan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		n := 2 + rng.Intn(9)
		g := grid.New(n, n*10)
		start := g.CellAt(rng.Intn(n), rng.Intn(n))
		end := g.CellAt(rng.Intn(n), rng.Intn(n))
		if start == end {
			continue
		}
		g.SetState(start, grid.Start)
		g.SetState(end, grid.End)
		g.RefreshNeighbors()

		res := Search(g, start, end, nil)
		if !res.Found() {
			t.Fatalf("run %d: open %dx%d grid %v -> %v failed", i, n, n, start.Pos(), end.Pos())
		}
		if want := Manhattan(start.Pos(), end.Pos()); res.Cost != want {
			t.Errorf("run %d: Cost = %d, want Manhattan %d", i, res.Cost, want)
		}
	}
}

func TestSearchMatchesBFSOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		n := 3 + rng.Intn(8)
		g := grid.New(n, n*10)
		density := rng.Float64() * 0.45
		for c := range g.Cells() {
			if rng.Float64() < density {
				g.SetState(c, grid.Barrier)
			}
		}
		start := g.CellAt(rng.Intn(n), rng.Intn(n))
		end := g.CellAt(rng.Intn(n), rng.Intn(n))
		if start == end {
			continue
		}
		g.SetState(start, grid.Start)
		g.SetState(end, grid.End)
		g.RefreshNeighbors()

		oracle := bfs(g, start.Pos(), end.Pos())
		res := Search(g, start, end, nil)

		switch {
		case oracle == -1 && res.Found():
			t.Fatalf("run %d: search found a path of %d where BFS found none", i, res.Cost)
		case oracle != -1 && !res.Found():
			t.Fatalf("run %d: search failed where BFS found %d", i, oracle)
		case res.Found() && res.Cost != oracle:
			t.Fatalf("run %d: Cost = %d, BFS oracle = %d", i, res.Cost, oracle)
		case res.Found():
			checkRoute(t, g, res.Path, start.Pos(), end.Pos())
		}
	}
}

func TestSearchZeroHeuristicStillOptimal(t *testing.T) {
	g, start, end := build(t,
		"S.#...",
		"..#.#.",
		"..#.#.",
		"....#.",
		"###.#.",
		"....#E",
	)
	want := bfs(g, start.Pos(), end.Pos())

	res := Search(g, start, end, nil, WithHeuristic(Zero))
	if !res.Found() || res.Cost != want {
		t.Fatalf("Search(Zero) = %v cost %d, want succeeded cost %d", res.Status, res.Cost, want)
	}
}

func TestSearchEnclosed(t *testing.T) {
	g, start, end := build(t,
		".....",
		".###.",
		".#S#.",
		".###.",
		"....E",
	)
	res := Search(g, start, end, nil)
	if res.Status != Failed {
		t.Fatalf("Status = %v, want failed", res.Status)
	}
	if res.Path != nil {
		t.Errorf("Path = %v, want nil", res.Path)
	}
	if diff := cmp.Diff([]grid.Pos{{Row: 2, Col: 2}}, res.Expanded); diff != "" {
		t.Errorf("Expanded mismatch (-want +got):\n%s", diff)
	}
	if start.State() != grid.Start {
		t.Errorf("start state = %v, want start", start.State())
	}
}

func TestSearchDeterministic(t *testing.T) {
	layout := []string{
		"S......",
		"..#....",
		"..#.##.",
		"..#..#.",
		"..####.",
		".......",
		"......E",
	}
	g1, s1, e1 := build(t, layout...)
	g2, s2, e2 := build(t, layout...)

	r1 := Search(g1, s1, e1, nil)
	r2 := Search(g2, s2, e2, nil)

	if diff := cmp.Diff(r1.Expanded, r2.Expanded); diff != "" {
		t.Errorf("expansion order differs between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(g1.Snapshot(), g2.Snapshot()); diff != "" {
		t.Errorf("final states differ between runs (-first +second):\n%s", diff)
	}
}

func TestSearchTieBreakIsFIFO(t *testing.T) {
	// Both neighbors of the start have f = 4. Down is inserted before right,
	// so the cell below the start is expanded next.
	g, start, end := build(t,
		"S..",
		"...",
		"..E",
	)
	res := Search(g, start, end, nil)
	if len(res.Expanded) < 2 {
		t.Fatalf("Expanded = %v", res.Expanded)
	}
	if res.Expanded[1] != (grid.Pos{Row: 1, Col: 0}) {
		t.Errorf("second expansion = %v, want (1,0)", res.Expanded[1])
	}
}

// listOrder is a second, heap-free rendering of the expansion rule: the queue
// is a plain slice scanned for the minimum (f, seq), and an entry's f is never
// changed after it is queued.
func listOrder(g *grid.Grid, start, end grid.Pos) []grid.Pos {
	type item struct {
		pos grid.Pos
		f   int
		seq int
	}
	gScore := map[grid.Pos]int{start: 0}
	queued := map[grid.Pos]bool{start: true}
	queue := []item{{start, Manhattan(start, end), 0}}
	seq := 1

	var order []grid.Pos
	for len(queue) > 0 {
		best := 0
		for i, it := range queue {
			if it.f < queue[best].f || (it.f == queue[best].f && it.seq < queue[best].seq) {
				best = i
			}
		}
		cur := queue[best].pos
		queue = append(queue[:best], queue[best+1:]...)
		delete(queued, cur)
		order = append(order, cur)
		if cur == end {
			return order
		}
		for _, d := range []grid.Pos{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}} {
			n := grid.Pos{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBounds(n.Row, n.Col) || g.At(n).IsBarrier() {
				continue
			}
			tentative := gScore[cur] + 1
			if known, ok := gScore[n]; ok && tentative >= known {
				continue
			}
			gScore[n] = tentative
			if !queued[n] {
				queue = append(queue, item{n, tentative + Manhattan(n, end), seq})
				seq++
				queued[n] = true
			}
		}
	}
	return order
}

func TestSearchExpansionOrderKeepsQueuedScores(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 3000; i++ {
		g := grid.New(6, 60)
		for c := range g.Cells() {
			if rng.Float64() < 0.3 {
				g.SetState(c, grid.Barrier)
			}
		}
		start := g.CellAt(rng.Intn(6), rng.Intn(6))
		end := g.CellAt(rng.Intn(6), rng.Intn(6))
		if start == end {
			continue
		}
		g.SetState(start, grid.Start)
		g.SetState(end, grid.End)
		g.RefreshNeighbors()

		want := listOrder(g, start.Pos(), end.Pos())
		res := Search(g, start, end, nil)
		if diff := cmp.Diff(want, res.Expanded); diff != "" {
			t.Fatalf("run %d: expansion order mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSearchStatesAndSteps(t *testing.T) {
	g, start, end := build(t,
		"S....",
		".###.",
		".....",
		".###.",
		"....E",
	)

	calls := 0
	res := Search(g, start, end, func() { calls++ })
	if !res.Found() {
		t.Fatal("expected a path")
	}

	// One call per expansion except the final pop of end, plus one per interior path cell.
	want := len(res.Expanded) - 1 + len(res.Path) - 2
	if calls != want || res.Steps != want {
		t.Errorf("onStep calls = %d (Steps %d), want %d", calls, res.Steps, want)
	}

	if start.State() != grid.Start {
		t.Errorf("start state = %v, want start", start.State())
	}
	if end.State() != grid.End {
		t.Errorf("end state = %v, want end", end.State())
	}
	for _, p := range res.Path[1 : len(res.Path)-1] {
		if s := g.At(p).State(); s != grid.Path {
			t.Errorf("path cell %v state = %v, want path", p, s)
		}
	}
	if got := g.Count(grid.Path); got != len(res.Path)-2 {
		t.Errorf("Count(Path) = %d, want %d", got, len(res.Path)-2)
	}
	if g.Count(grid.Barrier) != 6 {
		t.Error("search must not change barriers")
	}
}

func TestSearchMarksTraceDuringRun(t *testing.T) {
	g, start, end := build(t,
		"S...",
		"....",
		"....",
		"...E",
	)
	sawOpen, sawClosed := false, false
	Search(g, start, end, func() {
		if g.Count(grid.Open) > 0 {
			sawOpen = true
		}
		if g.Count(grid.Closed) > 0 {
			sawClosed = true
		}
		if g.Count(grid.Start) != 1 {
			t.Error("start must stay marked during the run")
		}
	})
	if !sawOpen || !sawClosed {
		t.Errorf("hook saw open=%v closed=%v, want both", sawOpen, sawClosed)
	}
}

func TestSearchRerunAfterClear(t *testing.T) {
	g, start, end := build(t,
		"S.#.",
		"..#.",
		"....",
		"...E",
	)
	first := Search(g, start, end, nil)

	g.ClearSearch()
	second := Search(g, start, end, nil)

	if diff := cmp.Diff(first.Expanded, second.Expanded); diff != "" {
		t.Errorf("rerun expansion differs (-first +second):\n%s", diff)
	}
}

func TestSearchContextCanceled(t *testing.T) {
	g, start, end := build(t,
		"S...",
		"....",
		"....",
		"...E",
	)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	res, err := SearchContext(ctx, g, start, end, func() {
		calls++
		if calls == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.Status != Running {
		t.Errorf("Status = %v, want running", res.Status)
	}
	if len(res.Expanded) != 2 {
		t.Errorf("expanded %d cells before cancel, want 2", len(res.Expanded))
	}
}

func TestSearchPreconditionsPanic(t *testing.T) {
	tests := []struct {
		name string
		run  func()
	}{
		{
			name: "stale neighbors",
			run: func() {
				g, start, end := build(t, "S..", "...", "..E")
				g.SetState(g.CellAt(1, 1), grid.Barrier)
				Search(g, start, end, nil)
			},
		},
		{
			name: "start equals end",
			run: func() {
				g, start, _ := build(t, "S..", "...", "..E")
				Search(g, start, start, nil)
			},
		},
		{
			name: "nil end",
			run: func() {
				g, start, _ := build(t, "S..", "...", "...")
				Search(g, start, nil, nil)
			},
		},
		{
			name: "foreign cell",
			run: func() {
				g, start, _ := build(t, "S..", "...", "..E")
				_, _, end := build(t, "S..", "...", "..E")
				Search(g, start, end, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.run()
		})
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{Running: "running", Succeeded: "succeeded", Failed: "failed"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
