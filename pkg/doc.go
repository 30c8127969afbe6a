// Package pkg provides the core libraries for Tonegraph music-theory graphs.
//
// # Overview
//
// Tonegraph turns music-theory notation (chord spellings, interval formulas,
// transformation networks, geometric descriptions and raster diagrams) into
// graphs of typed nodes, then checks, measures, rewrites, lays out, compares
// and exports them. The pkg directory is organized into four areas:
//
//  1. Model: [graph], [pitch], [io]
//  2. Extraction: [notation] and its parser subpackages
//  3. Processing: [validate], [analysis], [optimize], [transform], [layout],
//     [compare]
//  4. Delivery: [render], [pipeline], [cache], [store], [server]
//
// # Architecture
//
// The typical data flow:
//
//	Notation text or diagram image
//	         ↓
//	    [notation] parsers (extract typed nodes and edges)
//	         ↓
//	    [validate] / [optimize] / [transform]
//	         ↓
//	    [layout] (assign positions)
//	         ↓
//	    [render] / [io] (SVG, DOT, GraphML, JSON, YAML, msgpack, scores)
//
// [pipeline] runs these stages with caching and is shared by the CLI and the
// HTTP [server], so both produce identical results for identical inputs.
//
// # Quick Start
//
//	r := pipeline.NewRunner(nil, nil, nil)
//	res, err := r.Execute(ctx, pipeline.Options{
//	    Input:     []byte("C, E and G form a major triad"),
//	    Transform: "T7",
//	    Layout:    "circle_of_fifths",
//	    Format:    pipeline.FormatSVG,
//	})
//
// # Main Packages
//
// [graph] - Typed nodes (pitch classes, intervals, transformations, set
// classes and more) and labeled edges, with insertion-ordered iteration.
//
// [notation] - The parser registry. Each parser subpackage reads one style of
// notation; the diagram parser reads raster images.
//
// [analysis] - Components, transformation cycles, centrality, whole-graph
// metrics and queries, memoized per graph.
//
// [compare] - Node and edge diffs, Jaccard similarity and a bounded graph edit
// distance.
//
// [cache] - Null, file and Redis caches behind one interface, with keys
// shared by every entry point.
//
// [store] - Named graph persistence in a directory or MongoDB.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/graph
// [pitch]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/pitch
// [io]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/io
// [notation]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/notation
// [validate]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/validate
// [analysis]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/analysis
// [optimize]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/optimize
// [transform]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/layout
// [compare]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/compare
// [render]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/tonegraph/pkg/server
package pkg
