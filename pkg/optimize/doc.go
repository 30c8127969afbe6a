// Package optimize simplifies graphs with a fixed set of rewrite passes.
//
// # Overview
//
// Parsers emit one node per token occurrence class and one edge per relation
// they notice, so their graphs carry duplicates, parallel edges and long
// chains. Each pass here is a pure function from graph to graph: the input is
// never modified and the returned graph shares no state with it.
//
// [Optimize] applies a named, ordered subset of passes, feeding the output of
// each into the next. With no names it runs all four in declaration order.
//
// # Merge Similar Nodes
//
// [MergeSimilarNodes] groups nodes by (type, label). A group with several
// members becomes one node whose id joins the member ids
// ("merged_pc_C_pc_C2"), whose properties are the union of the members'
// (later members win) and whose position is the first member's. Edges are
// rewritten onto the merged id; an edge that becomes a self-loop only because
// its ends were merged is dropped.
//
// # Remove Redundant Edges
//
// [RemoveRedundantEdges] keeps one edge per (source, target) pair: the one with
// the highest weight, then the most properties, then the earliest. The pass is
// idempotent.
//
// # Simplify Transformation Chains
//
// [SimplifyTransformationChains] follows, from every unvisited transformation,
// the first outgoing edge into another transformation until the walk reaches
// a visited node. A chain of two or more collapses into one transformation
// labeled "T1→T2" with the member ids in its original_chain property. Edges
// inside a chain are dropped; edges from outside are rewritten onto the
// collapsed node.
//
//	Before: C → T1 → T2 → T3
//	After:  C → trans_T1_T2_T3 (label "T1→T2→T3")
//
// # Compress Paths
//
// [CompressPaths] walks from every unvisited node while exactly one unvisited
// neighbor remains. A run of more than two nodes is replaced by a single edge
// between its ends (label "compressed_path_<n>", weight 1) carrying the
// run in its original_path property. Every node is kept; only the edges
// along the run are removed.
package optimize
