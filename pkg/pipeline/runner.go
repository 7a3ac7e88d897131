package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/astargrid/pkg/astar"
	"github.com/matzehuels/astargrid/pkg/cache"
	"github.com/matzehuels/astargrid/pkg/grid"
	pkgio "github.com/matzehuels/astargrid/pkg/io"
	"github.com/matzehuels/astargrid/pkg/observability"
)

// Runner executes the pipeline against a cache.
//
// A Runner holds no per-run state; several goroutines may share one as long
// as each run uses its own grid.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs search and render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}

	searchStart := time.Now()
	rep, hit, err := r.SearchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Report = rep
	result.CacheInfo.SearchHit = hit
	result.Stats.Rows = rep.Rows
	result.Stats.Expanded = len(rep.Expanded)
	result.Stats.Cost = rep.Cost
	result.Stats.SearchTime = time.Since(searchStart)

	opts.Logger.Info("searched layout",
		"rows", rep.Rows,
		"status", rep.Status,
		"cost", rep.Cost,
		"expanded", len(rep.Expanded),
		"cached", hit,
		"duration", result.Stats.SearchTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, rep, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", sortedFormats(opts.Formats),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SearchWithCacheInfo parses and searches the layout, reporting whether the
// report came from the cache. Search marks in the layout are cleared first,
// so a solved layout maps to the same cache entry as its clean form.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, opts Options) (pkgio.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pkgio.Report{}, false, err
	}

	g, err := pkgio.ParseRows(opts.Layout)
	if err != nil {
		return pkgio.Report{}, false, err
	}
	g.ClearSearch()
	if _, _, err := pkgio.Endpoints(g); err != nil {
		return pkgio.Report{}, false, err
	}

	layoutHash := cache.Hash([]byte(pkgio.FormatText(g)))
	key := r.Keyer.SearchKey(layoutHash, opts.SearchKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if rep, err := pkgio.ReadReport(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "search")
				return rep, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "search")
	}

	rep, err := r.Solve(ctx, g, nil, opts.searchOptions()...)
	if err != nil {
		return pkgio.Report{}, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteReport(&buf, rep); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.ttl(cache.TTLSearch)); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "search", buf.Len())
		}
	}
	return rep, false, nil
}

// Solve searches g in place between its start and end cells, refreshing
// adjacency first if barriers changed. onStep is passed through to the engine
// and may be nil. When ctx ends mid-search the partial report (status
// "running") is returned together with the context error.
func (r *Runner) Solve(ctx context.Context, g *grid.Grid, onStep astar.StepFunc, opts ...astar.Option) (pkgio.Report, error) {
	start, end, err := pkgio.Endpoints(g)
	if err != nil {
		return pkgio.Report{}, err
	}
	if g.Stale() {
		g.RefreshNeighbors()
	}

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, g.Rows())
	began := time.Now()

	res, err := astar.SearchContext(ctx, g, start, end, onStep, opts...)
	elapsed := time.Since(began)

	hooks.OnSearchComplete(ctx, observability.SearchOutcome{
		Rows:     g.Rows(),
		Status:   res.Status.String(),
		Expanded: len(res.Expanded),
		Cost:     res.Cost,
		Duration: elapsed,
	}, err)
	r.Logger.Debug("search finished",
		"status", res.Status,
		"expanded", len(res.Expanded),
		"cost", res.Cost,
		"duration", elapsed)

	return pkgio.NewReport(uuid.NewString(), g, start.Pos(), end.Pos(), res), err
}

// RenderWithCacheInfo renders rep in every requested format, reporting
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rep pkgio.Report, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	reportHash, err := hashReport(rep)
	if err != nil {
		return nil, false, fmt.Errorf("hash report: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, rep, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// hashReport hashes the report without its run ID, so equal searches share
// rendered artifacts.
func hashReport(rep pkgio.Report) (string, error) {
	rep.RunID = ""
	var buf bytes.Buffer
	if err := pkgio.WriteReport(&buf, rep); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// LayoutFromText splits a text layout into rows, dropping blank and comment
// lines the same way io.ReadText does.
func LayoutFromText(text string) []string {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}
