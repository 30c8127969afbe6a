// Package nodelink renders music graphs as node-link diagrams.
//
// [ToDOT] writes plain Graphviz DOT for interchange: every node is labeled
// "label (type)" and every edge carries its label and weight.
//
// [ToStyledDOT] writes DOT for display. Node types get their own fill color
// and shape, isomorphism edges are dashed, and heavier edges are drawn
// thicker. Nodes placed by a layout strategy are pinned to their position.
//
//	g, _ = layout.Apply(g, layout.CircleOfFifths, nil)
//	dot := nodelink.ToStyledDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineFor(g))
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process.
package nodelink
