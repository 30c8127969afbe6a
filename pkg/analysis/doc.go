// Package analysis answers read-only structural questions about a graph.
//
// # Overview
//
// Extracted notation graphs are small but dense with meaning: which pitch
// classes a transformation connects, whether a run of transformations closes
// into a cycle, which nodes sit on every path between two others. This
// package computes those answers without modifying the graph. Absence is
// reported as empty results, nil paths or an infinite [Distance], never as an
// error, because a disconnected or sparse graph is a normal input.
//
// # Analyzer
//
// An [Analyzer] is a snapshot. [New] clones the input graph, so later changes
// to the caller's graph never leak into cached answers:
//
//	a := analysis.New(g)
//	comps := a.ConnectedComponents()
//	path := a.ShortestPath("pc_C", "pc_G")
//	report := a.AnalyzeTransformationNetwork()
//
// Every query is memoized per Analyzer and keyed by its arguments, so
// repeated calls are cheap and return copies that callers may modify. To
// analyze a changed graph, discard the Analyzer and build a new one.
//
// The Analyzer methods are:
//
//   - [Analyzer.ConnectedComponents]: undirected components in node order
//   - [Analyzer.TransformationCycles]: simple cycles among transformation nodes
//     only; other node types never appear in a reported cycle
//   - [Analyzer.ShortestPath]: unweighted path over the whole graph, nil when
//     the endpoints are disconnected
//   - [Analyzer.AnalyzeTransformationNetwork]: degree and betweenness
//     centrality, clustering and average path length of the transformation
//     subgraph; the path length is +Inf when that subgraph is disconnected
//   - [Analyzer.InvariantStructures]: per transformation, the nodes it maps to
//     themselves through self-loop edges tagged with its id
//
// # Metrics
//
// [CollectMetrics] summarizes a whole graph in one [Metrics] value: counts by
// node type, degree, betweenness, closeness and eigenvector centrality
// (power iteration, at most [EigenvectorMaxIter] rounds), clustering,
// density, diameter, component sizes and transformation label patterns. The
// result marshals to JSON with +Inf distances written as the string "inf".
//
// # Queries
//
// A [Query] performs ad hoc lookups for the CLI and HTTP API: nodes by type,
// label regular expression or property value, a transformation path between
// two labels, and components or cycles restricted to one node type.
//
// # Traversal
//
// All traversals use explicit stacks and queues. Cycle search backtracks by
// popping frames, so deep graphs cannot exhaust the goroutine stack.
//
// # Concurrency
//
// An Analyzer guards its memo tables with a mutex and may be shared across
// goroutines. A Query reads the graph it was given without copying it, so
// that graph must not be modified while the Query is in use.
package analysis
