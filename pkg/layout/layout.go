package layout

import (
	"slices"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Strategy names.
const (
	CircleOfFifths        = "circle_of_fifths"
	Tonnetz               = "tonnetz"
	TransformationNetwork = "transformation_network"
	Hierarchical          = "hierarchical"
	GISNetwork            = "gis_network"
	IsomorphicNetwork     = "isomorphic_network"
)

// Func lays out a graph.
type Func func(g *graph.Graph, p Params) *graph.Graph

var strategies = map[string]Func{
	CircleOfFifths:        circleOfFifths,
	Tonnetz:               tonnetz,
	TransformationNetwork: transformationNetwork,
	Hierarchical:          hierarchical,
	GISNetwork:            gisNetwork,
	IsomorphicNetwork:     isomorphicNetwork,
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply runs the named strategy on a copy of g.
func Apply(g *graph.Graph, name string, p Params) (*graph.Graph, error) {
	f, ok := strategies[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q", name)
	}
	if p == nil {
		p = Params{}
	}
	return f(g, p), nil
}

// place returns a copy of g with the given positions applied. Nodes missing
// from pos keep whatever position they had.
func place(g *graph.Graph, pos map[string]graph.Point) *graph.Graph {
	out := g.Clone()
	for id, pt := range pos {
		if n, ok := out.Node(id); ok {
			out.AddNode(n.At(pt.X, pt.Y))
		}
	}
	return out
}

// spread places ids on a horizontal row centered on x = 0.
func spread(pos map[string]graph.Point, ids []string, spacing, y float64) {
	offset := float64(len(ids)-1) * spacing / 2
	for i, id := range ids {
		pos[id] = graph.Point{X: spacing*float64(i) - offset, Y: y}
	}
}
