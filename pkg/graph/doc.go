// Package graph provides the typed graph model for music-theoretic structures.
//
// A [Graph] holds pitch classes, intervals, set classes, transformations and the
// other [NodeType] categories as [Node] values keyed by a stable string id, plus a
// sequence of directed [Edge] values that reference nodes by id. Edges never hold
// pointers, so the model has no reference cycles and can be copied freely.
//
// # Construction
//
// Graphs are built by the notation parsers through repeated [Graph.AddNode] and
// [Graph.AddEdge] calls:
//
//	g := graph.New()
//	g.AddNode(graph.Node{ID: "pc_C", Type: graph.PitchClass, Label: "C"})
//	g.AddNode(graph.Node{ID: "int_P5", Type: graph.Interval, Label: "P5"})
//	g.AddEdge(graph.NewEdge("pc_C", "int_P5", "has_interval"))
//
// AddNode upserts by id. AddEdge is accepted only when both endpoints already exist;
// otherwise it is a no-op that is counted by [Graph.DroppedEdges].
//
// # Node Types
//
// [NodeType] is a closed set. [ParseNodeType] rejects anything else, so
// decoders cannot smuggle untyped nodes into the model. The common types are
// [PitchClass], [Interval], [SetClass] and [Transformation]; the rest
// describe function spaces, GIS spaces, network nodes and similar structures
// found in transformational theory. [NodeTypes] lists them all.
//
// Every node and edge carries a [Properties] map that is never nil after
// insertion. Parsers record what they saw there: source spans, matrix rows,
// detection confidence. A node's [Point] position is set only by layouts and
// by parsers that read coordinates.
//
// # Edges
//
// [NewEdge] returns an edge with weight 1 and empty properties. Edges between
// transformations may also record a TransformationType, the labels of a
// Composition, and IsIsomorphism for links between isomorphic sub-networks,
// which layouts and renderers draw differently.
//
// Decoded files may reference missing nodes. [Assemble] keeps such edges so
// that validation can report them, while AddEdge drops them.
//
// # Ownership
//
// Every algorithm that produces a graph (optimizer, transformer, layout) returns a
// new Graph and leaves its input untouched. A Graph is not safe for concurrent
// mutation; concurrent readers are fine once construction is finished.
//
// # Iteration Order
//
// Nodes iterate in first-insertion order and edges in insertion order, which makes
// layouts and exports reproducible for identical input.
//
// # Related Packages
//
// [github.com/matzehuels/tonegraph/pkg/io] reads and writes graphs as JSON,
// YAML, msgpack and GraphML. [github.com/matzehuels/tonegraph/pkg/analysis]
// answers structural queries and [github.com/matzehuels/tonegraph/pkg/layout]
// assigns positions.
package graph
