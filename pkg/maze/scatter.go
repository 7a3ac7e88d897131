package maze

import (
	"math/rand"
	"time"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// Options tunes Scatter. Zero fields take defaults scaled to the grid.
type Options struct {
	// Density is the chance that a walk step drops a barrier (default 0.6).
	Density float64
	// Clusters is the number of random walks (default rows*rows/40, at least 1).
	Clusters int
	// Steps is the length of each walk (default rows).
	Steps int
	// Seed drives the walks; 0 picks one from the clock.
	Seed int64
}

func (o Options) withDefaults(rows int) Options {
	if o.Density <= 0 {
		o.Density = 0.6
	}
	if o.Density > 1 {
		o.Density = 1
	}
	if o.Clusters <= 0 {
		o.Clusters = max(1, rows*rows/40)
	}
	if o.Steps <= 0 {
		o.Steps = rows
	}
	return o
}

var walk = [4]grid.Pos{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Scatter adds clustered barriers to g and returns how many cells it turned
// into barriers. Start and end cells are never covered; search marks are
// overwritten like empty cells.
func Scatter(g *grid.Grid, opts Options) int {
	n := g.Rows()
	o := opts.withDefaults(n)
	rng := newRand(o.Seed)

	placed := 0
	for range o.Clusters {
		p := grid.Pos{Row: rng.Intn(n), Col: rng.Intn(n)}
		for range o.Steps {
			if rng.Float64() < o.Density {
				c := g.At(p)
				if s := c.State(); s != grid.Barrier && s != grid.Start && s != grid.End {
					g.SetState(c, grid.Barrier)
					placed++
				}
			}
			d := walk[rng.Intn(len(walk))]
			if next := (grid.Pos{Row: p.Row + d.Row, Col: p.Col + d.Col}); g.InBounds(next.Row, next.Col) {
				p = next
			}
		}
	}
	return placed
}
