package nodelink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Style is the fill color and Graphviz shape of one node type.
type Style struct {
	Color string
	Shape string
}

// DefaultStyle applies to node types without an entry in [Styles].
var DefaultStyle = Style{Color: "#d9d9d9", Shape: "ellipse"}

// Styles maps node types to their visual style.
var Styles = map[graph.NodeType]Style{
	graph.PitchClass:            {Color: "#ff7f7f", Shape: "circle"},
	graph.Interval:              {Color: "#7f7f7f", Shape: "ellipse"},
	graph.Transformation:        {Color: "#7fff7f", Shape: "box"},
	graph.SetClass:              {Color: "#ff7fff", Shape: "ellipse"},
	graph.GeometricPoint:        {Color: "#ffff7f", Shape: "point"},
	graph.FunctionSpace:         {Color: "#7fffff", Shape: "diamond"},
	graph.Group:                 {Color: "#ffaf7f", Shape: "triangle"},
	graph.TransformationNetwork: {Color: "#afafff", Shape: "box3d"},
	graph.GISSpace:              {Color: "#7fbfff", Shape: "hexagon"},
	graph.NetworkNode:           {Color: "#ffd27f", Shape: "circle"},
}

// StyleFor returns the style of node type t.
func StyleFor(t graph.NodeType) Style {
	if s, ok := Styles[t]; ok {
		return s
	}
	return DefaultStyle
}

// Options configures [ToStyledDOT].
type Options struct {
	// Scale converts layout units to inches for pinned positions.
	Scale float64
	// Detailed appends the node type to every label.
	Detailed bool
}

// ToStyledDOT converts g to DOT with per-type colors and shapes. Nodes with a
// layout position are pinned there, so the result should be rendered with
// the engine returned by [EngineFor].
func ToStyledDOT(g *graph.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1.5
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=12, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=gray40, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		style := StyleFor(n.Type)
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if opts.Detailed {
			label += "\n" + string(n.Type)
		}
		attrs := []string{
			"label=" + quote(label),
			"shape=" + style.Shape,
			"fillcolor=" + quote(style.Color),
		}
		if n.Position != nil {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(n.Position.X*scale), num(n.Position.Y*scale)))
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{"label=" + quote(e.Label)}
		if e.IsIsomorphism || e.Properties["style"] == "dashed" {
			attrs = append(attrs, "style=dashed")
		}
		if e.Weight != graph.DefaultWeight && e.Weight > 0 {
			attrs = append(attrs, "penwidth="+num(e.Weight))
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
