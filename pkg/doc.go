// Package pkg provides the libraries behind astargrid, an A* shortest-path
// visualizer for square grids with obstacles.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Core: [grid] (cells, states, 4-connected adjacency) and [astar] (the
//     search engine, heuristics and path reconstruction)
//  2. Layouts and output: [io] (text layouts and JSON reports), [maze]
//     (random layouts) and [render] (PNG, terminal, DOT and SVG)
//  3. Infrastructure: [pipeline] (layout → search → render), [cache] (file and
//     Redis result caches), [config] (TOML settings), [observability] (hooks),
//     [errors] (coded errors) and [buildinfo]
//
// # Architecture
//
// The typical data flow through astargrid:
//
//	Text layout
//	     ↓
//	[io] package (parse into a grid)
//	     ↓
//	[astar] package (search, marking cells as it goes)
//	     ↓
//	[io] Report (status, route, expansion order, search tree)
//	     ↓
//	[render] package (txt, json, png, dot, svg)
//
// # Quick Start
//
// Search a layout directly:
//
//	g, _ := io.ParseRows([]string{
//	    "S..",
//	    ".#.",
//	    "..E",
//	})
//	start, end, _ := io.Endpoints(g)
//	g.RefreshNeighbors()
//	res := astar.Search(g, start, end, nil)
//	fmt.Println(res.Status, res.Cost) // succeeded 4
//
// Or run the cached pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Layout:  []string{"S..", ".#.", "..E"},
//	    Formats: []string{"png"},
//	})
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/astar/...      # Specific package
//	go test -run Example ./...   # Examples only
package pkg
